package dsp

import "errors"

var (
	// ErrInvalidBand reports filter or band parameters that can never be
	// valid: inverted edges, cutoffs at or above Nyquist, non-positive rates.
	// It is a programming error and is never corrected silently.
	ErrInvalidBand = errors.New("invalid band")

	// ErrInsufficientData reports that too few peaks, intervals or samples
	// were available to compute a derived quantity.
	ErrInsufficientData = errors.New("insufficient data")
)
