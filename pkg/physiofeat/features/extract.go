package features

import (
	"errors"
	"fmt"
	"strings"

	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/recording"
)

// Diagnostics collects non-fatal problems found while extracting one
// recording: absent channels and features that could not be computed.
type Diagnostics []string

// String joins the diagnostics with "; ".
func (d Diagnostics) String() string { return strings.Join(d, "; ") }

// Extract runs every extractor over rec and merges the results. Missing or
// too-short channels and uncomputable features are reported in
// Diagnostics; the returned error is non-nil only for invalid
// configuration or a non-positive sample rate.
func Extract(rec recording.Recording, cfg Config) (Set, Diagnostics, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	type channelExtractor struct {
		name string
		ch   recording.Channel
		run  func([]float64, float64, Config) (Set, error)
	}
	steps := []channelExtractor{
		{"cardiac", rec.Cardiac, Cardiac},
		{"eda", rec.EDA, EDATonicPhasic},
		{"eda", rec.EDA, EDAGradientSpectrum},
		{"respiration", rec.Respiration, Respiration},
	}

	out := Set{}
	var diag Diagnostics

	// Absent channels and bad rates are left to the extractors, which
	// report them as ErrMissingInput and ErrInvalidBand.
	checked := map[string]bool{}
	usable := func(name string, ch recording.Channel) bool {
		ok, seen := checked[name]
		if seen {
			return ok
		}
		ok = true
		if err := ch.Validate(); ch.Present() && err != nil && !errors.Is(err, recording.ErrInvalidRate) {
			diag = append(diag, fmt.Sprintf("%s: %v", name, err))
			ok = false
		}
		checked[name] = ok
		return ok
	}
	keep := func(s Set, err error) error {
		if err != nil {
			if !errors.Is(err, ErrMissingInput) {
				return err
			}
			diag = append(diag, err.Error())
		}
		out.Merge(s)
		return nil
	}

	for _, st := range steps {
		if !usable(st.name, st.ch) {
			continue
		}
		if err := keep(st.run(st.ch.Samples, st.ch.Rate, cfg)); err != nil {
			return nil, nil, err
		}
	}
	if err := keep(Force(rec.Force)); err != nil {
		return nil, nil, err
	}

	for _, name := range out.Invalid() {
		diag = append(diag, fmt.Sprintf("%s: %s", name, out[name].Reason))
	}
	return out, diag, nil
}
