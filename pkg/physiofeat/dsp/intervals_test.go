package dsp

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIntervalsExact(t *testing.T) {
	s, err := BuildIntervals([]int{0, 1000, 2000, 3000}, 1000)
	require.NoError(t, err)

	assert.Equal(t, []float64{1000, 1000, 1000}, s.ValuesMs)
	assert.Equal(t, []float64{0, 1, 2}, s.TimesSec)
	assert.Equal(t, 3, s.Len())
}

func TestBuildIntervalsRejectsOutlier(t *testing.T) {
	peaks := []int{0}
	for i := 0; i < 20; i++ {
		peaks = append(peaks, peaks[len(peaks)-1]+100)
	}
	peaks = append(peaks, peaks[len(peaks)-1]+1000)

	s, err := BuildIntervals(peaks, 1000)
	require.NoError(t, err)

	assert.Equal(t, 20, s.Len())
	for _, v := range s.ValuesMs {
		assert.Equal(t, 100.0, v)
	}
	assert.InDelta(t, 1.9, s.TimesSec[len(s.TimesSec)-1], 1e-12)
}

func TestBuildIntervalsSigmaNarrowWindow(t *testing.T) {
	// intervals 10, 10, 10, 15 ms: mean 11.25, std ~2.17
	s, err := BuildIntervalsSigma([]int{0, 10, 20, 30, 45}, 1000, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 10, 10}, s.ValuesMs)
}

func TestBuildIntervalsInsufficient(t *testing.T) {
	tests := []struct {
		name  string
		peaks []int
	}{
		{"no peaks", nil},
		{"one peak", []int{42}},
		{"one interval", []int{0, 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildIntervals(tt.peaks, 1000)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInsufficientData))
		})
	}
}

func TestBuildIntervalsInvalidRate(t *testing.T) {
	_, err := BuildIntervals([]int{0, 1, 2}, 0)
	assert.True(t, errors.Is(err, ErrInvalidBand))
}

func TestRMSSD(t *testing.T) {
	assert.InDelta(t, math.Sqrt(250), RMSSD([]float64{1000, 1010, 990}), 1e-12)
	assert.Zero(t, RMSSD([]float64{800, 800, 800}))
	assert.True(t, math.IsNaN(RMSSD([]float64{800})))
}
