package recording

import (
	"errors"
	"fmt"
	"io"

	"github.com/OpenPSG/edf"
)

// NoChannel marks a channel that is not present in a multichannel file.
const NoChannel = -1

// EDFChannels maps EDF signal indices to recording channels. EDF signals
// carry no rate the reader exposes, so the caller supplies it.
type EDFChannels struct {
	Cardiac     int
	EDA         int
	Respiration int
	Rate        float64
}

// LoadEDF reads the configured signals of an EDF/EDF+ file.
func LoadEDF(r io.ReadSeeker, ch EDFChannels) (Recording, error) {
	if !(ch.Rate > 0) {
		return Recording{}, fmt.Errorf("%w: edf sample rate %v", ErrInvalidChannel, ch.Rate)
	}
	er, err := edf.Open(r)
	if err != nil {
		return Recording{}, fmt.Errorf("opening edf: %w", err)
	}

	var rec Recording
	targets := []struct {
		idx int
		dst *Channel
	}{
		{ch.Cardiac, &rec.Cardiac},
		{ch.EDA, &rec.EDA},
		{ch.Respiration, &rec.Respiration},
	}
	for _, t := range targets {
		if t.idx == NoChannel {
			continue
		}
		samples, err := readEDFSignal(er, t.idx)
		if err != nil {
			return Recording{}, err
		}
		*t.dst = Channel{Samples: samples, Rate: ch.Rate}
	}
	return rec, nil
}

func readEDFSignal(er *edf.Reader, idx int) ([]float64, error) {
	sr, err := er.Signal(idx)
	if err != nil {
		return nil, fmt.Errorf("edf signal %d: %w", idx, err)
	}

	var out []float64
	buf := make([]float64, 4096)
	for {
		n, err := sr.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading edf signal %d: %w", idx, err)
		}
	}
}
