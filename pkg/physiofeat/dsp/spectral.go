package dsp

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/spectral"
	"github.com/mjibson/go-dsp/window"
)

// DefaultWelchSegment is the longest Welch segment used when the caller
// does not choose one.
const DefaultWelchSegment = 256

// Spectrum is a one-sided power estimate with ascending frequencies.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// Welch estimates the one-sided power spectral density of x by averaging
// modified periodograms of half-overlapping, mean-removed, Hann-tapered
// segments. segmentLen <= 0 selects min(len(x), DefaultWelchSegment); a
// longer segment than the signal is shortened to len(x).
func Welch(x []float64, fs float64, segmentLen int) (Spectrum, error) {
	if !(fs > 0) {
		return Spectrum{}, fmt.Errorf("%w: sample rate must be positive, got %v", ErrInvalidBand, fs)
	}
	seg := segmentLen
	if seg <= 0 {
		seg = DefaultWelchSegment
	}
	if seg > len(x) {
		seg = len(x)
	}
	if seg < 2 {
		return Spectrum{}, fmt.Errorf("%w: welch needs 2 samples, got %d", ErrInsufficientData, len(x))
	}

	// periodic Hann
	w := window.Hann(seg + 1)[:seg]
	wss := 0.0
	for _, v := range w {
		wss += v * v
	}
	scale := 1 / (fs * wss)

	bins := seg/2 + 1
	power := make([]float64, bins)
	segments := spectral.Segment(x, seg, seg/2)
	for _, buf := range segments {
		mu := Mean(buf)
		for i := range buf {
			buf[i] = (buf[i] - mu) * w[i]
		}
		X := fft.FFTReal(buf)
		for k := 0; k < bins; k++ {
			a := cmplx.Abs(X[k])
			power[k] += a * a * scale
		}
	}

	freqs := make([]float64, bins)
	for k := range power {
		power[k] /= float64(len(segments))
		if k > 0 && !(seg%2 == 0 && k == bins-1) {
			power[k] *= 2
		}
		freqs[k] = float64(k) * fs / float64(seg)
	}
	return Spectrum{Freqs: freqs, Power: power}, nil
}

// FFTPower returns the squared magnitude of the discrete transform of x at
// its non-negative frequencies.
func FFTPower(x []float64, fs float64) (Spectrum, error) {
	if !(fs > 0) {
		return Spectrum{}, fmt.Errorf("%w: sample rate must be positive, got %v", ErrInvalidBand, fs)
	}
	n := len(x)
	if n == 0 {
		return Spectrum{}, fmt.Errorf("%w: empty signal", ErrInsufficientData)
	}

	X := fft.FFTReal(x)
	bins := (n + 1) / 2
	freqs := make([]float64, bins)
	power := make([]float64, bins)
	for k := 0; k < bins; k++ {
		a := cmplx.Abs(X[k])
		power[k] = a * a
		freqs[k] = float64(k) * fs / float64(n)
	}
	return Spectrum{Freqs: freqs, Power: power}, nil
}

// MeanFrequency returns the power-weighted mean frequency, or 0 when the
// spectrum carries no power.
func (s Spectrum) MeanFrequency() float64 {
	var num, den float64
	for i, p := range s.Power {
		num += s.Freqs[i] * p
		den += p
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// PeakFrequency returns the frequency of the first maximum-power bin, or
// NaN for an empty spectrum.
func (s Spectrum) PeakFrequency() float64 {
	if len(s.Power) == 0 {
		return math.NaN()
	}
	best := 0
	for i, p := range s.Power {
		if p > s.Power[best] {
			best = i
		}
	}
	return s.Freqs[best]
}

// PowerNear returns the power of the bin whose frequency is closest to f,
// the lower bin winning ties, or NaN for an empty spectrum.
func (s Spectrum) PowerNear(f float64) float64 {
	if len(s.Power) == 0 {
		return math.NaN()
	}
	best := 0
	for i, fr := range s.Freqs {
		if math.Abs(fr-f) < math.Abs(s.Freqs[best]-f) {
			best = i
		}
	}
	return s.Power[best]
}
