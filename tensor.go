// SPDX-License-Identifier: CC-BY-NC-4.0
// Copyright (c) 2025-2026 fumi-engineer

// Package loss implements the bootstrapped cross-entropy losses of Reed et
// al., "Training Deep Neural Networks on Noisy Labels with Bootstrapping"
// (ICLR 2015 workshop), for multinomial classification.
//
// All tensor storage uses flat []float64 slices in row-major order. Row
// reductions are delegated to gonum (floats.Max, floats.LogSumExp). Every
// function is pure: it reads only its arguments and allocates fresh outputs,
// so concurrent callers need no synchronization.
package loss

import "fmt"

// Tensor is a 2D array of logits: each row holds the unnormalized class
// scores for one sample.
type Tensor struct {
	data []float64
	rows int
	cols int
}

// Zeros allocates a rows x cols tensor filled with 0.
func Zeros(rows, cols int) *Tensor {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("non-positive tensor dims %dx%d", rows, cols))
	}
	return &Tensor{data: make([]float64, rows*cols), rows: rows, cols: cols}
}

// FromSlice creates a tensor by copying the provided row-major data.
// Panics if len(data) != rows*cols.
func FromSlice(data []float64, rows, cols int) *Tensor {
	t := Zeros(rows, cols)
	if len(data) != len(t.data) {
		panic(fmt.Sprintf("data length %d != %dx%d", len(data), rows, cols))
	}
	copy(t.data, data)
	return t
}

// FromRows creates a tensor from one logit slice per sample.
// Panics if rows is empty or ragged.
func FromRows(rows [][]float64) *Tensor {
	if len(rows) == 0 {
		panic("FromRows: no rows")
	}
	t := Zeros(len(rows), len(rows[0]))
	for i, r := range rows {
		if len(r) != t.cols {
			panic(fmt.Sprintf("FromRows: row %d has %d entries, row 0 has %d", i, len(r), t.cols))
		}
		copy(t.Row(i), r)
	}
	return t
}

// Rows returns the number of samples.
func (t *Tensor) Rows() int { return t.rows }

// Cols returns the number of classes.
func (t *Tensor) Cols() int { return t.cols }

// At returns the logit of class j for sample i.
func (t *Tensor) At(i, j int) float64 { return t.data[i*t.cols+j] }

// Row returns a direct reference to sample i's logits. The caller must NOT
// mutate the returned slice unless it owns the tensor.
func (t *Tensor) Row(i int) []float64 {
	return t.data[i*t.cols : (i+1)*t.cols]
}

// Data returns a direct reference to the flat row-major storage.
func (t *Tensor) Data() []float64 { return t.data }
