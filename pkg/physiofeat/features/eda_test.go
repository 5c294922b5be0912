package features

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/dsp"
)

// scrTrace is a 2.0 baseline with a 0.5 high, 1 s wide response every 10 s.
func scrTrace(fs, seconds float64) []float64 {
	x := constant(2.0, int(fs*seconds))
	for c := 5.0; c < seconds; c += 10 {
		for i := range x {
			d := float64(i)/fs - c
			x[i] += 0.5 * math.Exp(-d*d/2)
		}
	}
	return x
}

func TestEDATonicPhasicCountsResponses(t *testing.T) {
	const fs = 100.0
	sig := scrTrace(fs, 120)

	set, err := EDATonicPhasic(sig, fs, DefaultConfig())
	require.NoError(t, err)

	require.True(t, set[KeySCRFreq].Valid)
	assert.InDelta(t, 6.0, set[KeySCRFreq].V, 1e-9) // 12 responses in 2 min
	assert.InDelta(t, dsp.Mean(sig), set[KeySCLMean].V, 0.01)
	assert.InDelta(t, dsp.Mean(sig), set[KeyEDAMean].V, 1e-12)
}

func TestEDATonicPhasicFlatSignal(t *testing.T) {
	set, err := EDATonicPhasic(constant(3.5, 6000), 100, DefaultConfig())
	require.NoError(t, err)

	assert.InDelta(t, 3.5, set[KeySCLMean].V, 1e-6)
	assert.Equal(t, 0.0, set[KeySCRFreq].V)
}

func TestEDAGradientSpectrumTone(t *testing.T) {
	const fs = 100.0
	sig := sineWave(0.25, fs, 200)

	set, err := EDAGradientSpectrum(sig, fs, DefaultConfig())
	require.NoError(t, err)

	for _, k := range []string{KeyEDAMeanFreq, KeyEDAPeakFreq, KeyEDAPower005} {
		require.True(t, set[k].Valid, k)
	}
	assert.InDelta(t, 0.25, set[KeyEDAPeakFreq].V, 1e-9)
	assert.InDelta(t, 0.25, set[KeyEDAMeanFreq].V, 0.01)
	assert.GreaterOrEqual(t, set[KeyEDAPower005].V, 0.0)
}

func TestEDAGradientSpectrumTooShort(t *testing.T) {
	set, err := EDAGradientSpectrum([]float64{1, 2, 3, 4, 5}, 1000, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, set, 3)
	for k, v := range set {
		assert.False(t, v.Valid, k)
	}
}

func TestEDAMissingInput(t *testing.T) {
	set, err := EDATonicPhasic(nil, 1000, DefaultConfig())
	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.Empty(t, set)

	set, err = EDAGradientSpectrum(nil, 1000, DefaultConfig())
	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.Empty(t, set)
}

func TestEDAGradientInvalidRate(t *testing.T) {
	_, err := EDAGradientSpectrum([]float64{1, 2, 3}, 0, DefaultConfig())
	assert.True(t, errors.Is(err, dsp.ErrInvalidBand))
}

func TestRespirationRate(t *testing.T) {
	const fs = 100.0
	set, err := Respiration(sineWave(0.25, fs, 120), fs, DefaultConfig())
	require.NoError(t, err)

	require.True(t, set[KeyRespRate].Valid)
	assert.InDelta(t, 15.0, set[KeyRespRate].V, 1e-9)
}

func TestRespirationMissingInput(t *testing.T) {
	set, err := Respiration(nil, 1000, DefaultConfig())
	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.Empty(t, set)
}
