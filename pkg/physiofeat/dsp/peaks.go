package dsp

import "sort"

// PeakOption tunes FindPeaks.
type PeakOption func(*peakConfig)

type peakConfig struct {
	minHeight    float64
	useMinHeight bool
}

// WithMinHeight discards candidates whose amplitude is below h before
// distance suppression runs.
func WithMinHeight(h float64) PeakOption {
	return func(c *peakConfig) {
		c.minHeight = h
		c.useMinHeight = true
	}
}

// FindPeaks returns the ascending sample indices of strict local maxima in
// signal. Candidates closer than minDistance samples are suppressed, the
// higher one winning, until all survivors are at least minDistance apart.
// A minDistance below 1 disables suppression. An empty result is not an
// error.
func FindPeaks(signal []float64, minDistance int, opts ...PeakOption) []int {
	cfg := peakConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var cand []int
	for i := 1; i < len(signal)-1; i++ {
		v := signal[i]
		if v > signal[i-1] && v > signal[i+1] {
			if cfg.useMinHeight && v < cfg.minHeight {
				continue
			}
			cand = append(cand, i)
		}
	}
	if minDistance <= 1 || len(cand) < 2 {
		return cand
	}

	// Visit from the highest amplitude down; among equal heights the later
	// index goes first.
	order := make([]int, len(cand))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return signal[cand[order[a]]] < signal[cand[order[b]]]
	})

	keep := make([]bool, len(cand))
	for i := range keep {
		keep[i] = true
	}
	for k := len(order) - 1; k >= 0; k-- {
		j := order[k]
		if !keep[j] {
			continue
		}
		for l := j - 1; l >= 0 && cand[j]-cand[l] < minDistance; l-- {
			keep[l] = false
		}
		for l := j + 1; l < len(cand) && cand[l]-cand[j] < minDistance; l++ {
			keep[l] = false
		}
	}

	peaks := make([]int, 0, len(cand))
	for i, idx := range cand {
		if keep[i] {
			peaks = append(peaks, idx)
		}
	}
	return peaks
}
