package features

import (
	"fmt"

	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/dsp"
)

// Respiration counts breaths per minute in a respiratory effort trace.
func Respiration(samples []float64, fs float64, cfg Config) (Set, error) {
	if len(samples) == 0 {
		return Set{}, fmt.Errorf("respiration: %w", ErrMissingInput)
	}
	r := cfg.Respiration

	filtered, err := dsp.Bandpass(samples, r.BandLowHz, r.BandHighHz, fs, cfg.FilterOrder)
	if err != nil {
		return nil, fmt.Errorf("respiration: %w", err)
	}
	peaks := dsp.FindPeaks(filtered, int(r.MinPeakDistanceSec*fs))

	return Set{KeyRespRate: perMinute(len(peaks), len(samples), fs)}, nil
}
