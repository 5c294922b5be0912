package dsp

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of x, or NaN for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// PopStd returns the population standard deviation (divides by n).
func PopStd(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.PopStdDev(x, nil)
}

// Max returns the largest element of x, or NaN for an empty slice.
func Max(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	m := x[0]
	for _, v := range x[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Diff returns the first differences x[i+1]-x[i].
func Diff(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	d := make([]float64, len(x)-1)
	for i := range d {
		d[i] = x[i+1] - x[i]
	}
	return d
}

// Gradient returns the sample-spaced gradient of x with the same length as
// x: central differences inside, one-sided differences at both ends.
func Gradient(x []float64) []float64 {
	n := len(x)
	if n < 2 {
		return nil
	}
	g := make([]float64, n)
	g[0] = x[1] - x[0]
	g[n-1] = x[n-1] - x[n-2]
	for i := 1; i < n-1; i++ {
		g[i] = (x[i+1] - x[i-1]) / 2
	}
	return g
}

// Subtract returns a-b element-wise over the shorter length.
func Subtract(a, b []float64) []float64 {
	n := minInt(len(a), len(b))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] - b[i]
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
