package dsp

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cubicSeries(f func(float64) float64, times []float64) IntervalSeries {
	vals := make([]float64, len(times))
	for i, x := range times {
		vals[i] = f(x)
	}
	return IntervalSeries{ValuesMs: vals, TimesSec: times}
}

func TestResampleUniformReproducesCubic(t *testing.T) {
	f := func(x float64) float64 { return x*x*x - 2*x + 1 }
	s := cubicSeries(f, []float64{0, 0.7, 1.5, 2, 3.2, 4})

	out, err := ResampleUniform(s, 10)
	require.NoError(t, err)
	require.Len(t, out, 40)
	for k, v := range out {
		x := float64(k) / 10
		assert.InDelta(t, f(x), v, 1e-9, "t=%v", x)
	}
}

func TestResampleUniformFourPoints(t *testing.T) {
	f := func(x float64) float64 { return 2*x*x*x - x*x + 3 }
	s := cubicSeries(f, []float64{0, 1, 2.5, 3})

	out, err := ResampleUniform(s, 2)
	require.NoError(t, err)
	require.Len(t, out, 6)
	for k, v := range out {
		x := float64(k) / 2
		assert.InDelta(t, f(x), v, 1e-9, "t=%v", x)
	}
}

func TestResampleUniformPureCubic(t *testing.T) {
	s := cubicSeries(func(x float64) float64 { return x * x * x }, []float64{0, 1, 2, 3, 4})

	out, err := ResampleUniform(s, 2)
	require.NoError(t, err)
	require.Len(t, out, 8)
	assert.InDelta(t, 15.625, out[5], 1e-9) // t = 2.5
}

func TestResampleUniformBadKnots(t *testing.T) {
	_, err := ResampleUniform(IntervalSeries{
		ValuesMs: []float64{1, 2, 3, 4},
		TimesSec: []float64{0, 1, 1, 2},
	}, 4)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrInsufficientData))

	_, err = ResampleUniform(IntervalSeries{
		ValuesMs: []float64{1, 2, 3},
		TimesSec: []float64{0, 1, 2, 3},
	}, 4)
	assert.Error(t, err)
}

func TestResampleUniform(t *testing.T) {
	s := IntervalSeries{
		ValuesMs: []float64{800, 800, 800, 800, 800},
		TimesSec: []float64{0, 0.8, 1.6, 2.4, 3.2},
	}

	out, err := ResampleUniform(s, 4)
	require.NoError(t, err)
	assert.Len(t, out, 13) // t = 0, 0.25, ... 3.0
	for _, v := range out {
		assert.InDelta(t, 800, v, 1e-9)
	}
}

func TestResampleUniformInsufficient(t *testing.T) {
	s := IntervalSeries{
		ValuesMs: []float64{800, 810, 790},
		TimesSec: []float64{0, 0.81, 1.6},
	}
	_, err := ResampleUniform(s, 4)
	assert.True(t, errors.Is(err, ErrInsufficientData))

	_, err = ResampleUniform(s, 0)
	assert.True(t, errors.Is(err, ErrInvalidBand))
}

func cosine(cycles float64, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Cos(2 * math.Pi * cycles * float64(i) / float64(n))
	}
	return x
}

func TestResampleFFT(t *testing.T) {
	tests := []struct {
		name string
		n    int
		num  int
	}{
		{"downsample even", 100, 50},
		{"downsample odd", 100, 45},
		{"upsample", 100, 200},
		{"upsample odd source", 99, 150},
		{"same length", 64, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ResampleFFT(cosine(3, tt.n), tt.num)
			require.Len(t, out, tt.num)
			want := cosine(3, tt.num)
			for i := range out {
				assert.InDelta(t, want[i], out[i], 1e-8, "sample %d", i)
			}
		})
	}
}

func TestResampleFFTConstant(t *testing.T) {
	x := []float64{2, 2, 2, 2, 2, 2, 2}
	out := ResampleFFT(x, 3)
	require.Len(t, out, 3)
	for _, v := range out {
		assert.InDelta(t, 2, v, 1e-12)
	}
	assert.Nil(t, ResampleFFT(x, 0))
}
