package features

import (
	"fmt"

	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/dsp"
)

// Band is a closed frequency range in Hz.
type Band struct {
	LowHz  float64 `toml:"low_hz" json:"low_hz"`
	HighHz float64 `toml:"high_hz" json:"high_hz"`
}

// CardiacConfig tunes heart rate and HRV extraction.
type CardiacConfig struct {
	BandLowHz          float64 `toml:"band_low_hz" json:"band_low_hz"`
	BandHighHz         float64 `toml:"band_high_hz" json:"band_high_hz"`
	MinPeakDistanceSec float64 `toml:"min_peak_distance_sec" json:"min_peak_distance_sec"`
	OutlierSigma       float64 `toml:"outlier_sigma" json:"outlier_sigma"`
	ResampleHz         float64 `toml:"resample_hz" json:"resample_hz"`
	WelchSegment       int     `toml:"welch_segment" json:"welch_segment"`
	LF                 Band    `toml:"lf" json:"lf"`
	HF                 Band    `toml:"hf" json:"hf"`
}

// EDAConfig tunes the tonic/phasic split and the gradient spectrum.
type EDAConfig struct {
	TonicCutoffHz        float64 `toml:"tonic_cutoff_hz" json:"tonic_cutoff_hz"`
	PhasicMinHeight      float64 `toml:"phasic_min_height" json:"phasic_min_height"`
	PhasicMinDistanceSec float64 `toml:"phasic_min_distance_sec" json:"phasic_min_distance_sec"`
	GradientRateHz       float64 `toml:"gradient_rate_hz" json:"gradient_rate_hz"`
	ProbeHz              float64 `toml:"probe_hz" json:"probe_hz"`
}

// RespirationConfig tunes breath detection.
type RespirationConfig struct {
	BandLowHz          float64 `toml:"band_low_hz" json:"band_low_hz"`
	BandHighHz         float64 `toml:"band_high_hz" json:"band_high_hz"`
	MinPeakDistanceSec float64 `toml:"min_peak_distance_sec" json:"min_peak_distance_sec"`
}

// Config carries every rate, band and threshold the extractors use.
type Config struct {
	FilterOrder int               `toml:"filter_order" json:"filter_order"`
	Cardiac     CardiacConfig     `toml:"cardiac" json:"cardiac"`
	EDA         EDAConfig         `toml:"eda" json:"eda"`
	Respiration RespirationConfig `toml:"respiration" json:"respiration"`
}

// DefaultConfig returns the settings used for the 1 kHz bio amplifier
// exports.
func DefaultConfig() Config {
	return Config{
		FilterOrder: 2,
		Cardiac: CardiacConfig{
			BandLowHz:          0.5,
			BandHighHz:         4.0,
			MinPeakDistanceSec: 0.4,
			OutlierSigma:       dsp.DefaultOutlierSigma,
			ResampleHz:         4.0,
			WelchSegment:       dsp.DefaultWelchSegment,
			LF:                 Band{LowHz: 0.04, HighHz: 0.15},
			HF:                 Band{LowHz: 0.15, HighHz: 0.40},
		},
		EDA: EDAConfig{
			TonicCutoffHz:        0.05,
			PhasicMinHeight:      0.01,
			PhasicMinDistanceSec: 1.0,
			GradientRateHz:       20,
			ProbeHz:              0.05,
		},
		Respiration: RespirationConfig{
			BandLowHz:          0.1,
			BandHighHz:         0.5,
			MinPeakDistanceSec: 2.0,
		},
	}
}

// Validate rejects settings no recording could satisfy. Limits that depend
// on a channel's sample rate are checked when the filter is designed.
func (c Config) Validate() error {
	if c.FilterOrder < 1 {
		return invalid("filter_order", "must be at least 1, got %d", c.FilterOrder)
	}

	bands := []struct {
		name      string
		low, high float64
	}{
		{"cardiac band", c.Cardiac.BandLowHz, c.Cardiac.BandHighHz},
		{"cardiac lf", c.Cardiac.LF.LowHz, c.Cardiac.LF.HighHz},
		{"cardiac hf", c.Cardiac.HF.LowHz, c.Cardiac.HF.HighHz},
		{"respiration band", c.Respiration.BandLowHz, c.Respiration.BandHighHz},
	}
	for _, b := range bands {
		if b.low < 0 || !(b.high > b.low) {
			return invalid(b.name, "needs 0 <= low < high, got [%v, %v]", b.low, b.high)
		}
	}

	positive := []struct {
		name string
		v    float64
	}{
		{"cardiac.min_peak_distance_sec", c.Cardiac.MinPeakDistanceSec},
		{"cardiac.outlier_sigma", c.Cardiac.OutlierSigma},
		{"cardiac.resample_hz", c.Cardiac.ResampleHz},
		{"eda.tonic_cutoff_hz", c.EDA.TonicCutoffHz},
		{"eda.phasic_min_distance_sec", c.EDA.PhasicMinDistanceSec},
		{"eda.gradient_rate_hz", c.EDA.GradientRateHz},
		{"respiration.min_peak_distance_sec", c.Respiration.MinPeakDistanceSec},
	}
	for _, p := range positive {
		if !(p.v > 0) {
			return invalid(p.name, "must be positive, got %v", p.v)
		}
	}

	if c.Cardiac.WelchSegment < 0 {
		return invalid("cardiac.welch_segment", "must not be negative, got %d", c.Cardiac.WelchSegment)
	}
	if c.EDA.ProbeHz < 0 {
		return invalid("eda.probe_hz", "must not be negative, got %v", c.EDA.ProbeHz)
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", dsp.ErrInvalidBand, field, fmt.Sprintf(format, args...))
}
