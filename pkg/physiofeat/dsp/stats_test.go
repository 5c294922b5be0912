package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	x := []float64{1, 2, 4, 7}

	assert.Equal(t, 3.5, Mean(x))
	assert.InDelta(t, math.Sqrt(5.25), PopStd(x), 1e-12)
	assert.Equal(t, 7.0, Max(x))
	assert.Equal(t, []float64{1, 2, 3}, Diff(x))
	assert.Equal(t, []float64{1, 1.5, 2.5, 3}, Gradient(x))
	assert.Equal(t, []float64{0, 1}, Subtract(x, []float64{1, 1}))

	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(PopStd(nil)))
	assert.Zero(t, PopStd([]float64{3, 3, 3}))
	assert.True(t, math.IsNaN(Max(nil)))
	assert.Nil(t, Diff([]float64{1}))
	assert.Nil(t, Gradient([]float64{1}))
}
