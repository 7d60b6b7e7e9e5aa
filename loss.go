// SPDX-License-Identifier: CC-BY-NC-SA-4.0
// Copyright (c) 2025-2026 fumi-engineer

package loss

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrShapeMismatch covers batch-size disagreement between logits and targets
// and target indices outside [0, classes). Indices are never wrapped or
// clamped; the error names the offending sample.
var ErrShapeMismatch = errors.New("loss: shape mismatch")

// ErrInvalidBeta is returned by CheckBeta for weights outside [0, 1].
var ErrInvalidBeta = errors.New("loss: beta outside [0, 1]")

// Interpolation weights recommended by the bootstrapping paper:
// beta=0.95 for the soft variant, beta=0.8 for the hard variant.
const (
	BetaSoft = 0.95
	BetaHard = 0.8
)

// Softmax converts each row of logits to a probability distribution.
//
//	p_i = exp(x_i - max(x)) / sum_j exp(x_j - max(x))
//
// Subtracting the row max keeps exp within float64 range for logits of any
// magnitude.
func Softmax(logits *Tensor) *Tensor {
	out := Zeros(logits.rows, logits.cols)
	for i := 0; i < logits.rows; i++ {
		row := logits.Row(i)
		dst := out.Row(i)
		maxVal := floats.Max(row)
		for j, x := range row {
			dst[j] = math.Exp(x - maxVal)
		}
		floats.Scale(1/floats.Sum(dst), dst)
	}
	return out
}

// LogSoftmax returns ln(softmax(logits)), computed directly through the
// log-sum-exp identity rather than as log(Softmax(x)):
//
//	log_softmax(x)_i = x_i - logsumexp(x)
//
// floats.LogSumExp performs its own max shift, so rows with large-magnitude
// logits yield large negative log-probabilities instead of -Inf or NaN.
func LogSoftmax(logits *Tensor) *Tensor {
	out := Zeros(logits.rows, logits.cols)
	for i := 0; i < logits.rows; i++ {
		row := logits.Row(i)
		dst := out.Row(i)
		lse := floats.LogSumExp(row)
		for j, x := range row {
			dst[j] = x - lse
		}
	}
	return out
}

// checkTargets validates one target index per logits row, each in [0, cols).
func checkTargets(logits *Tensor, targets []int) error {
	if len(targets) != logits.rows {
		return fmt.Errorf("%w: %d logit rows, %d targets", ErrShapeMismatch, logits.rows, len(targets))
	}
	for i, c := range targets {
		if c < 0 || c >= logits.cols {
			return fmt.Errorf("%w: target %d of sample %d outside [0, %d)", ErrShapeMismatch, c, i, logits.cols)
		}
	}
	return nil
}

// CrossEntropy computes the per-sample negative log-likelihood of the
// ground-truth class:
//
//	ce_i = -log_softmax(logits)[i, targets[i]]
//
// It returns one value per sample; callers reduce explicitly (see Mean).
func CrossEntropy(logits *Tensor, targets []int) ([]float64, error) {
	if err := checkTargets(logits, targets); err != nil {
		return nil, err
	}
	logp := LogSoftmax(logits)
	ce := make([]float64, logits.rows)
	for i := range ce {
		ce[i] = -logp.At(i, targets[i])
	}
	return ce, nil
}

// SoftEntropy computes the Shannon entropy, in nats, of each row's predicted
// distribution:
//
//	h_i = -sum_k p_ik * log(p_ik),  p = softmax(logits)
//
// Both factors come from the stable primitives: an underflowed p_ik is
// exactly 0 while its log stays finite, so the product contributes 0.
func SoftEntropy(logits *Tensor) []float64 {
	p := Softmax(logits)
	logp := LogSoftmax(logits)
	h := make([]float64, logits.rows)
	for i := 0; i < logits.rows; i++ {
		prow, lrow := p.Row(i), logp.Row(i)
		s := 0.0
		for k := range prow {
			s -= prow[k] * lrow[k]
		}
		h[i] = s
	}
	return h
}

// ArgmaxClass returns each sample's most-confident class index. Softmax is
// monotonic, so the argmax of raw logits equals the argmax of the
// probabilities. Ties go to the lowest index.
func ArgmaxClass(logits *Tensor) []int {
	idx := make([]int, logits.rows)
	for i := range idx {
		idx[i] = floats.MaxIdx(logits.Row(i))
	}
	return idx
}

// HardNLL is cross-entropy evaluated against the model's own argmax class
// instead of the ground truth:
//
//	nll_i = -log_softmax(logits)[i, argmax(logits)[i]]
func HardNLL(logits *Tensor) []float64 {
	logp := LogSoftmax(logits)
	nll := make([]float64, logits.rows)
	for i, k := range ArgmaxClass(logits) {
		nll[i] = -logp.At(i, k)
	}
	return nll
}

// SoftBootstrap blends cross-entropy against the given labels with the
// entropy of the model's own predictions:
//
//	l_i = beta * ce_i + (1 - beta) * h_i
//
// beta=1 degenerates to pure cross-entropy; beta=0 ignores the labels
// entirely. Beta is not validated here: values outside [0, 1] are
// arithmetically well-defined but void the convex-combination guarantee.
// Callers that need that guarantee should run CheckBeta first.
func SoftBootstrap(logits *Tensor, targets []int, beta float64) ([]float64, error) {
	ce, err := CrossEntropy(logits, targets)
	if err != nil {
		return nil, err
	}
	h := SoftEntropy(logits)
	out := make([]float64, len(ce))
	for i := range out {
		out[i] = beta*ce[i] + (1-beta)*h[i]
	}
	return out, nil
}

// HardBootstrap blends cross-entropy against the given labels with the
// negative log-likelihood of the model's own argmax class:
//
//	l_i = beta * ce_i + (1 - beta) * nll_i
//
// Whenever a sample's argmax coincides with its target the two terms are
// identical and the blend collapses to plain cross-entropy for every beta.
// Beta handling matches SoftBootstrap.
func HardBootstrap(logits *Tensor, targets []int, beta float64) ([]float64, error) {
	ce, err := CrossEntropy(logits, targets)
	if err != nil {
		return nil, err
	}
	nll := HardNLL(logits)
	out := make([]float64, len(ce))
	for i := range out {
		out[i] = beta*ce[i] + (1-beta)*nll[i]
	}
	return out, nil
}

// Mean reduces a per-sample loss vector to its batch average.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Sum(xs) / float64(len(xs))
}

// CheckBeta rejects interpolation weights outside [0, 1]. The losses accept
// any beta; this is the opt-in precondition check for callers that need the
// convex-combination guarantee.
func CheckBeta(beta float64) error {
	if math.IsNaN(beta) || beta < 0 || beta > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidBeta, beta)
	}
	return nil
}
