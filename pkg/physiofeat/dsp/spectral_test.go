package dsp

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFFTPowerBins(t *testing.T) {
	s, err := FFTPower(sine(5, 100, 100), 100)
	require.NoError(t, err)

	require.Len(t, s.Freqs, 50)
	assert.Equal(t, 0.0, s.Freqs[0])
	assert.InDelta(t, 49.0, s.Freqs[49], 1e-12)
	assert.InDelta(t, 5.0, s.PeakFrequency(), 1e-12)
	assert.InDelta(t, 2500.0, s.Power[5], 1e-6) // (N/2)^2

	odd, err := FFTPower([]float64{1, 2, 3, 4, 5}, 10)
	require.NoError(t, err)
	assert.Len(t, odd.Freqs, 3)
	assert.InDelta(t, 225.0, odd.Power[0], 1e-9)
}

func TestFFTPowerErrors(t *testing.T) {
	_, err := FFTPower(nil, 100)
	assert.True(t, errors.Is(err, ErrInsufficientData))

	_, err = FFTPower([]float64{1, 2}, 0)
	assert.True(t, errors.Is(err, ErrInvalidBand))
}

func TestWelchSine(t *testing.T) {
	const fs = 100.0
	s, err := Welch(sine(10, fs, 1000), fs, 0)
	require.NoError(t, err)

	require.Len(t, s.Freqs, 129)
	assert.InDelta(t, fs/256, s.Freqs[1], 1e-12)
	assert.InDelta(t, 50.0, s.Freqs[128], 1e-12)
	assert.InDelta(t, 10.0, s.PeakFrequency(), fs/256)

	// Total power of a unit sine is its variance.
	assert.InDelta(t, 0.5, BandPower(s, 0, fs/2), 0.05)
}

func TestWelchShortSignalUsesWholeSignal(t *testing.T) {
	s, err := Welch(sine(1, 4, 40), 4, 0)
	require.NoError(t, err)
	assert.Len(t, s.Freqs, 21)
	assert.InDelta(t, 0.1, s.Freqs[1], 1e-12)
}

func TestWelchRemovesMean(t *testing.T) {
	x := make([]float64, 512)
	for i := range x {
		x[i] = 5
	}

	s, err := Welch(x, 4, 0)
	require.NoError(t, err)
	for _, p := range s.Power {
		assert.InDelta(t, 0, p, 1e-20)
	}
}

func TestWelchErrors(t *testing.T) {
	_, err := Welch([]float64{1}, 4, 0)
	assert.True(t, errors.Is(err, ErrInsufficientData))

	_, err = Welch([]float64{1, 2, 3}, -1, 0)
	assert.True(t, errors.Is(err, ErrInvalidBand))
}

func TestSpectrumSummaries(t *testing.T) {
	s := Spectrum{
		Freqs: []float64{0, 0.04, 0.08, 0.12},
		Power: []float64{1, 3, 3, 1},
	}

	assert.InDelta(t, (0.12+0.24+0.12)/8, s.MeanFrequency(), 1e-12)
	assert.Equal(t, 0.04, s.PeakFrequency())
	assert.Equal(t, 3.0, s.PowerNear(0.05))
	assert.Equal(t, 1.0, s.PowerNear(10))

	zero := Spectrum{Freqs: []float64{0, 1}, Power: []float64{0, 0}}
	assert.Zero(t, zero.MeanFrequency())

	assert.True(t, math.IsNaN(Spectrum{}.PeakFrequency()))
	assert.True(t, math.IsNaN(Spectrum{}.PowerNear(1)))
}

func TestBandPower(t *testing.T) {
	s := Spectrum{
		Freqs: []float64{0, 1, 2, 3},
		Power: []float64{0, 1, 2, 3},
	}

	tests := []struct {
		name     string
		low, hi  float64
		expected float64
	}{
		{"inclusive edges", 1, 3, 4},
		{"whole range", 0, 3, 4.5},
		{"single bin", 1.5, 2.5, 0},
		{"above max frequency", 10, 20, 0},
		{"empty band", 2.5, 2.6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, BandPower(s, tt.low, tt.hi), 1e-12)
		})
	}
}

func TestBandPowerUnevenPower(t *testing.T) {
	s := Spectrum{
		Freqs: []float64{0, 1, 2, 3, 4},
		Power: []float64{0, 1, 8, 27, 64},
	}
	assert.InDelta(t, 68, BandPower(s, 0, 4), 1e-12)
	assert.InDelta(t, 22, BandPower(s, 1, 3), 1e-12)
	assert.Zero(t, BandPower(s, 4, 5))
}
