package dsp

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/interp"
)

// ResampleUniform fits a not-a-knot cubic spline through the interval
// series and samples it every 1/rateHz seconds over [0, last timestamp).
// At least 4 strictly increasing timestamps are required.
func ResampleUniform(s IntervalSeries, rateHz float64) ([]float64, error) {
	if !(rateHz > 0) {
		return nil, fmt.Errorf("%w: resample rate must be positive, got %v", ErrInvalidBand, rateHz)
	}
	xs, ys := s.TimesSec, s.ValuesMs
	n := len(xs)
	if n != len(ys) {
		return nil, fmt.Errorf("spline: %d knots but %d values", n, len(ys))
	}
	if n < 4 {
		return nil, fmt.Errorf("%w: cubic spline needs 4 points, got %d", ErrInsufficientData, n)
	}
	for i := 1; i < n; i++ {
		// interp panics on repeated or decreasing knots.
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("spline: knots not strictly increasing at %d", i-1)
		}
	}

	var sp interp.NotAKnotCubic
	if err := sp.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("spline: %w", err)
	}

	last := xs[n-1]
	var out []float64
	for k := 0; ; k++ {
		t := float64(k) / rateHz
		if t >= last {
			break
		}
		out = append(out, sp.Predict(t))
	}
	return out, nil
}

// ResampleFFT resamples x to num samples by truncating or zero-padding its
// spectrum. The Nyquist bin of an even-length overlap is split or joined
// so the result stays real.
func ResampleFFT(x []float64, num int) []float64 {
	if num <= 0 {
		return nil
	}
	nx := len(x)
	if nx == 0 {
		return make([]float64, num)
	}

	X := fft.FFTReal(x)
	nmin := minInt(num, nx)
	nyq := nmin/2 + 1

	Y := make([]complex128, num)
	copy(Y[:nyq], X[:nyq])
	if nmin%2 == 0 {
		switch {
		case num < nx:
			Y[nmin/2] *= 2
		case num > nx:
			Y[nmin/2] *= 0.5
		}
	}
	for k := 1; k < nyq; k++ {
		if j := num - k; j != k && j >= nyq {
			Y[j] = cmplx.Conj(Y[k])
		}
	}

	y := fft.IFFT(Y)
	scale := float64(num) / float64(nx)
	out := make([]float64, num)
	for i, v := range y {
		out[i] = real(v) * scale
	}
	return out
}
