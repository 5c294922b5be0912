package features

import (
	"errors"
	"fmt"

	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/dsp"
)

// Cardiac derives heart rate and heart-rate variability from a blood
// volume pulse trace. HR and RMSSD share one interval series and become
// invalid together; LF/HF additionally needs enough intervals for a cubic
// resample and power in the HF band. The raw channel mean is reported
// alongside.
func Cardiac(samples []float64, fs float64, cfg Config) (Set, error) {
	if len(samples) == 0 {
		return Set{}, fmt.Errorf("cardiac: %w", ErrMissingInput)
	}
	c := cfg.Cardiac

	filtered, err := dsp.Bandpass(samples, c.BandLowHz, c.BandHighHz, fs, cfg.FilterOrder)
	if err != nil {
		return nil, fmt.Errorf("cardiac: %w", err)
	}

	set := Set{KeyBVPMean: Of(dsp.Mean(samples))}

	peaks := dsp.FindPeaks(filtered, int(c.MinPeakDistanceSec*fs))
	ibi, err := dsp.BuildIntervalsSigma(peaks, fs, c.OutlierSigma)
	if err != nil {
		if !errors.Is(err, dsp.ErrInsufficientData) {
			return nil, fmt.Errorf("cardiac: %w", err)
		}
		reason := err.Error()
		set[KeyHRMean] = Insufficient(reason)
		set[KeyHRVRMSSD] = Insufficient(reason)
		set[KeyHRVLFHF] = Insufficient(reason)
		return set, nil
	}

	set[KeyHRMean] = Of(60000 / dsp.Mean(ibi.ValuesMs))
	set[KeyHRVRMSSD] = Of(dsp.RMSSD(ibi.ValuesMs))

	// With 2 or 3 surviving intervals HR and RMSSD stay valid and only
	// LF/HF is marked insufficient. Failing all three here would discard
	// usable time-domain values from short recordings.
	lfhf, err := lfhfRatio(ibi, c)
	if err != nil {
		return nil, fmt.Errorf("cardiac: %w", err)
	}
	set[KeyHRVLFHF] = lfhf
	return set, nil
}

func lfhfRatio(ibi dsp.IntervalSeries, c CardiacConfig) (Value, error) {
	uniform, err := dsp.ResampleUniform(ibi, c.ResampleHz)
	if err != nil {
		if errors.Is(err, dsp.ErrInsufficientData) {
			return Insufficient(err.Error()), nil
		}
		return Value{}, err
	}
	psd, err := dsp.Welch(uniform, c.ResampleHz, c.WelchSegment)
	if err != nil {
		if errors.Is(err, dsp.ErrInsufficientData) {
			return Insufficient(err.Error()), nil
		}
		return Value{}, err
	}
	return bandRatio(psd, c.LF, c.HF), nil
}

// bandRatio divides the power in num by the power in den. Zero power in
// den gives an invalid value, never an infinity.
func bandRatio(psd dsp.Spectrum, num, den Band) Value {
	d := dsp.BandPower(psd, den.LowHz, den.HighHz)
	if d == 0 {
		return Insufficient("no power in the denominator band")
	}
	return Of(dsp.BandPower(psd, num.LowHz, num.HighHz) / d)
}
