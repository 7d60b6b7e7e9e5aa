// SPDX-License-Identifier: CC-BY-4.0
// Copyright (c) 2025-2026 fumi-engineer

package loss

import (
	"math/rand"
	"testing"
)

const (
	benchSeed    = 42
	benchBatch   = 64
	benchClasses = 1000
)

func benchInputs() (*Tensor, []int) {
	rng := rand.New(rand.NewSource(benchSeed))
	logits := randomLogits(rng, benchBatch, benchClasses, 5)
	targets := make([]int, benchBatch)
	for i := range targets {
		targets[i] = rng.Intn(benchClasses)
	}
	return logits, targets
}

func BenchmarkSoftmax(b *testing.B) {
	logits, _ := benchInputs()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Softmax(logits)
	}
}

func BenchmarkLogSoftmax(b *testing.B) {
	logits, _ := benchInputs()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		LogSoftmax(logits)
	}
}

func BenchmarkCrossEntropy(b *testing.B) {
	logits, targets := benchInputs()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := CrossEntropy(logits, targets); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSoftBootstrap(b *testing.B) {
	logits, targets := benchInputs()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := SoftBootstrap(logits, targets, BetaSoft); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHardBootstrap(b *testing.B) {
	logits, targets := benchInputs()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := HardBootstrap(logits, targets, BetaHard); err != nil {
			b.Fatal(err)
		}
	}
}
