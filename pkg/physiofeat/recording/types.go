// Package recording holds the in-memory waveform buffers the feature
// extractors consume and loaders that fill them from disk formats.
package recording

import (
	"errors"
	"fmt"
)

// DefaultRate is the sample rate of the bio amplifier exports, in Hz.
const DefaultRate = 1000.0

// ErrInvalidChannel reports a channel that breaks the waveform invariants.
var ErrInvalidChannel = errors.New("invalid channel")

// ErrInvalidRate is the ErrInvalidChannel raised for a non-positive
// sample rate.
var ErrInvalidRate = fmt.Errorf("%w: sample rate must be positive", ErrInvalidChannel)

// Channel is one uniformly sampled waveform.
type Channel struct {
	Samples []float64
	Rate    float64 // Hz
}

// Present reports whether the channel carries any samples.
func (c Channel) Present() bool { return len(c.Samples) > 0 }

// DurationSec returns the recording length in seconds.
func (c Channel) DurationSec() float64 {
	if c.Rate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / c.Rate
}

// Validate checks rate > 0 and at least two samples.
func (c Channel) Validate() error {
	if !(c.Rate > 0) {
		return fmt.Errorf("%w, got %v", ErrInvalidRate, c.Rate)
	}
	if len(c.Samples) < 2 {
		return fmt.Errorf("%w: %d samples", ErrInvalidChannel, len(c.Samples))
	}
	return nil
}

// Axis3 is a three-component force trace. A nil component means the
// column was absent from the source.
type Axis3 struct {
	X, Y, Z []float64
}

func (a Axis3) complete() bool {
	return a.X != nil && a.Y != nil && a.Z != nil
}

func (a Axis3) shortest() int {
	return min(len(a.X), len(a.Y), len(a.Z))
}

// Force holds the two contact channels of the instrumented grip sensor.
type Force struct {
	Thumb Axis3
	Index Axis3
}

// Complete reports whether all six components are present.
func (f *Force) Complete() bool {
	return f != nil && f.Thumb.complete() && f.Index.complete()
}

// Len returns the number of samples common to all six components.
func (f *Force) Len() int {
	if f == nil {
		return 0
	}
	return min(f.Thumb.shortest(), f.Index.shortest())
}

// Recording is the full set of buffers for one session. Absent channels
// have no samples; Force is nil when no force file exists.
type Recording struct {
	Cardiac     Channel
	EDA         Channel
	Respiration Channel
	Force       *Force
}
