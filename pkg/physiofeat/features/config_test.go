package features

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/dsp"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero order", func(c *Config) { c.FilterOrder = 0 }},
		{"inverted cardiac band", func(c *Config) { c.Cardiac.BandLowHz, c.Cardiac.BandHighHz = 4, 0.5 }},
		{"empty hf band", func(c *Config) { c.Cardiac.HF.HighHz = c.Cardiac.HF.LowHz }},
		{"negative lf", func(c *Config) { c.Cardiac.LF.LowHz = -0.1 }},
		{"zero resample rate", func(c *Config) { c.Cardiac.ResampleHz = 0 }},
		{"zero peak distance", func(c *Config) { c.Respiration.MinPeakDistanceSec = 0 }},
		{"zero tonic cutoff", func(c *Config) { c.EDA.TonicCutoffHz = 0 }},
		{"negative welch segment", func(c *Config) { c.Cardiac.WelchSegment = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, dsp.ErrInvalidBand), "got %v", err)
		})
	}
}
