package features

import (
	"errors"
	"fmt"

	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/dsp"
)

// EDATonicPhasic splits skin conductance into a slow tonic level and the
// fast phasic remainder. SCL is the mean tonic level; SCR frequency counts
// phasic responses per minute. The raw channel mean is reported alongside.
func EDATonicPhasic(samples []float64, fs float64, cfg Config) (Set, error) {
	if len(samples) == 0 {
		return Set{}, fmt.Errorf("eda: %w", ErrMissingInput)
	}
	e := cfg.EDA

	tonic, err := dsp.Lowpass(samples, e.TonicCutoffHz, fs, cfg.FilterOrder)
	if err != nil {
		return nil, fmt.Errorf("eda: %w", err)
	}
	phasic := dsp.Subtract(samples, tonic)
	peaks := dsp.FindPeaks(phasic, int(e.PhasicMinDistanceSec*fs), dsp.WithMinHeight(e.PhasicMinHeight))

	return Set{
		KeyEDAMean: Of(dsp.Mean(samples)),
		KeySCLMean: Of(dsp.Mean(tonic)),
		KeySCRFreq: perMinute(len(peaks), len(samples), fs),
	}, nil
}

// EDAGradientSpectrum resamples skin conductance to a fixed low rate,
// differentiates it and summarises the spectrum of the gradient: mean
// frequency, peak frequency and power at the probe frequency.
func EDAGradientSpectrum(samples []float64, fs float64, cfg Config) (Set, error) {
	if len(samples) == 0 {
		return Set{}, fmt.Errorf("eda gradient: %w", ErrMissingInput)
	}
	if !(fs > 0) {
		return nil, fmt.Errorf("eda gradient: %w: sample rate must be positive, got %v", dsp.ErrInvalidBand, fs)
	}
	rate := cfg.EDA.GradientRateHz

	num := int(float64(len(samples)) * rate / fs)
	if num < 2 {
		reason := fmt.Sprintf("%d samples at %v Hz resample to %d", len(samples), fs, num)
		return Set{
			KeyEDAMeanFreq: Insufficient(reason),
			KeyEDAPeakFreq: Insufficient(reason),
			KeyEDAPower005: Insufficient(reason),
		}, nil
	}

	grad := dsp.Gradient(dsp.ResampleFFT(samples, num))
	power, err := dsp.FFTPower(grad, rate)
	if err != nil {
		if errors.Is(err, dsp.ErrInsufficientData) {
			return Set{
				KeyEDAMeanFreq: Insufficient(err.Error()),
				KeyEDAPeakFreq: Insufficient(err.Error()),
				KeyEDAPower005: Insufficient(err.Error()),
			}, nil
		}
		return nil, fmt.Errorf("eda gradient: %w", err)
	}

	return Set{
		KeyEDAMeanFreq: Of(power.MeanFrequency()),
		KeyEDAPeakFreq: Of(power.PeakFrequency()),
		KeyEDAPower005: Of(power.PowerNear(cfg.EDA.ProbeHz)),
	}, nil
}

// perMinute converts an event count over n samples at fs into a rate per
// minute.
func perMinute(count, n int, fs float64) Value {
	minutes := float64(n) / fs / 60
	if !(minutes > 0) {
		return Insufficient("zero-length recording")
	}
	return Of(float64(count) / minutes)
}
