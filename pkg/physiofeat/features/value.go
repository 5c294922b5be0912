package features

import (
	"errors"
	"math"
	"sort"
)

// ErrMissingInput reports that a channel or force component an extractor
// needs is absent. The extractor returns an empty Set alongside it.
var ErrMissingInput = errors.New("missing input")

// Value is the outcome of one feature: a number, or the reason it could
// not be computed. It becomes NaN only when a row is assembled.
type Value struct {
	V      float64
	Valid  bool
	Reason string
}

// Of wraps a computed number. NaN and infinities are reported as invalid.
func Of(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{V: math.NaN(), Reason: "not finite"}
	}
	return Value{V: v, Valid: true}
}

// Insufficient marks a feature that could not be computed.
func Insufficient(reason string) Value {
	return Value{V: math.NaN(), Reason: reason}
}

// Float returns the value, or NaN when it is not valid.
func (v Value) Float() float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.V
}

// Set maps feature names to values produced by one extractor.
type Set map[string]Value

// Merge copies every entry of other into s.
func (s Set) Merge(other Set) {
	for k, v := range other {
		s[k] = v
	}
}

// Floats collapses the set into plain numbers.
func (s Set) Floats() map[string]float64 {
	out := make(map[string]float64, len(s))
	for k, v := range s {
		out[k] = v.Float()
	}
	return out
}

// Invalid returns the names of entries without a value, sorted.
func (s Set) Invalid() []string {
	var names []string
	for k, v := range s {
		if !v.Valid {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}
