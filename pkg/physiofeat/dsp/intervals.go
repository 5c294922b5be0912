package dsp

import (
	"fmt"
	"math"
)

// DefaultOutlierSigma is the half-width, in population standard deviations,
// of the window that interval outlier rejection keeps.
const DefaultOutlierSigma = 3.0

// IntervalSeries holds inter-peak intervals in milliseconds and the time of
// each retained interval in seconds, with the first at 0.
type IntervalSeries struct {
	ValuesMs []float64
	TimesSec []float64
}

// Len returns the number of retained intervals.
func (s IntervalSeries) Len() int { return len(s.ValuesMs) }

// BuildIntervals is BuildIntervalsSigma with DefaultOutlierSigma.
func BuildIntervals(peaks []int, fs float64) (IntervalSeries, error) {
	return BuildIntervalsSigma(peaks, fs, DefaultOutlierSigma)
}

// BuildIntervalsSigma converts peak indices to intervals, drops intervals
// outside [mean-k*std, mean+k*std] (population std, inclusive bounds) and
// accumulates their timestamps. Fewer than 2 peaks, or fewer than 2
// surviving intervals, yields ErrInsufficientData.
func BuildIntervalsSigma(peaks []int, fs, k float64) (IntervalSeries, error) {
	if !(fs > 0) {
		return IntervalSeries{}, fmt.Errorf("%w: sample rate must be positive, got %v", ErrInvalidBand, fs)
	}
	if len(peaks) < 2 {
		return IntervalSeries{}, fmt.Errorf("%w: %d peaks", ErrInsufficientData, len(peaks))
	}

	raw := make([]float64, len(peaks)-1)
	for i := range raw {
		raw[i] = float64(peaks[i+1]-peaks[i]) / fs * 1000
	}

	mu, sd := Mean(raw), PopStd(raw)
	lo, hi := mu-k*sd, mu+k*sd
	kept := make([]float64, 0, len(raw))
	for _, v := range raw {
		if v >= lo && v <= hi {
			kept = append(kept, v)
		}
	}
	if len(kept) < 2 {
		return IntervalSeries{}, fmt.Errorf("%w: %d intervals after outlier rejection", ErrInsufficientData, len(kept))
	}

	times := make([]float64, len(kept))
	acc := 0.0
	for i, v := range kept {
		acc += v / 1000
		times[i] = acc
	}
	first := times[0]
	for i := range times {
		times[i] -= first
	}

	return IntervalSeries{ValuesMs: kept, TimesSec: times}, nil
}

// RMSSD returns the root mean square of successive differences of x, or
// NaN when x has fewer than 2 elements.
func RMSSD(x []float64) float64 {
	d := Diff(x)
	if len(d) == 0 {
		return math.NaN()
	}
	ss := 0.0
	for _, v := range d {
		ss += v * v
	}
	return math.Sqrt(ss / float64(len(d)))
}
