// SPDX-License-Identifier: MIT

package cdt

import (
	"fmt"
	"io"
	"time"

	"github.com/montanaflynn/stats"
)

// Throughput summarises sampler speed over several runs, in samples per second.
type Throughput struct {
	Runs    int
	Samples int // per run
	Mean    float64
	Median  float64
	StdDev  float64
}

// Moments are the empirical mean and (population) variance of a sample set.
type Moments struct {
	Mean     float64
	Variance float64
}

// Benchmark times runs batches of n samples from src and summarises throughput.
func Benchmark(t *Table, src io.Reader, n, runs int) (Throughput, error) {
	if n < 1 || runs < 1 {
		return Throughput{}, fmt.Errorf("Benchmark: n=%d runs=%d must be positive", n, runs)
	}
	rates := make([]float64, 0, runs)
	for i := 0; i < runs; i++ {
		start := time.Now()
		if _, err := t.Draw(src, n); err != nil {
			return Throughput{}, err
		}
		elapsed := time.Since(start).Seconds()
		if elapsed <= 0 {
			elapsed = 1e-9
		}
		rates = append(rates, float64(n)/elapsed)
	}

	return summarize(rates, n)
}

// summarize reduces per-run rates to a Throughput.
func summarize(rates []float64, n int) (Throughput, error) {
	out := Throughput{Runs: len(rates), Samples: n}
	var err error
	if out.Mean, err = stats.Mean(rates); err != nil {
		return Throughput{}, fmt.Errorf("Benchmark: %w", err)
	}
	if out.Median, err = stats.Median(rates); err != nil {
		return Throughput{}, fmt.Errorf("Benchmark: %w", err)
	}
	if out.StdDev, err = stats.StandardDeviation(rates); err != nil {
		return Throughput{}, fmt.Errorf("Benchmark: %w", err)
	}

	return out, nil
}

// EmpiricalMoments returns the mean and population variance of samples.
func EmpiricalMoments(samples []int) (Moments, error) {
	data := make(stats.Float64Data, len(samples))
	for i, s := range samples {
		data[i] = float64(s)
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return Moments{}, fmt.Errorf("EmpiricalMoments: %w", err)
	}
	variance, err := stats.PopulationVariance(data)
	if err != nil {
		return Moments{}, fmt.Errorf("EmpiricalMoments: %w", err)
	}

	return Moments{Mean: mean, Variance: variance}, nil
}
