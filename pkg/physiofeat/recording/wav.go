package recording

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

// WAVChannels maps interleaved WAV channels to recording channels. Use
// NoChannel for absent ones.
type WAVChannels struct {
	Cardiac     int
	EDA         int
	Respiration int
}

// LoadWAV reads a multichannel PCM WAV file. Samples are scaled to
// [-1, 1) by the source bit depth and the rate comes from the header.
func LoadWAV(r io.ReadSeeker, ch WAVChannels) (Recording, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return Recording{}, errors.New("invalid WAV file")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return Recording{}, fmt.Errorf("reading PCM data: %w", err)
	}

	nch := buf.Format.NumChannels
	rate := float64(buf.Format.SampleRate)
	bits := buf.SourceBitDepth
	if bits <= 0 {
		bits = int(d.BitDepth)
	}
	scale := 1 / float64(int64(1)<<(bits-1))
	frames := len(buf.Data) / nch

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
		if t.idx < 0 || t.idx >= nch {
			return Recording{}, fmt.Errorf("%w: wav channel %d of %d", ErrInvalidChannel, t.idx, nch)
		}
		samples := make([]float64, frames)
		for i := range samples {
			samples[i] = float64(buf.Data[i*nch+t.idx]) * scale
		}
		*t.dst = Channel{Samples: samples, Rate: rate}
	}
	return rec, nil
}
