package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/himanishpuri/PhysioFeat/pkg/logger"
	"github.com/himanishpuri/PhysioFeat/pkg/models"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/recording"
)

// source names the files of one session. At most one of Bio, EDF and WAV
// supplies the waveform channels; Force is read alongside any of them.
type source struct {
	Subject   int                `toml:"subject"`
	Condition string             `toml:"condition"`
	Round     int                `toml:"round"`
	Bio       string             `toml:"bio"`
	Force     string             `toml:"force"`
	EDF       string             `toml:"edf"`
	WAV       string             `toml:"wav"`
	Rate      float64            `toml:"rate"`
	Channels  []int              `toml:"channels"` // cardiac, eda, respiration; -1 when absent
	Metrics   map[string]float64 `toml:"metrics"`
}

// manifest lists the sessions of a batch run.
type manifest struct {
	Sessions []source `toml:"session"`
}

func loadManifest(path string) ([]source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if len(m.Sessions) == 0 {
		return nil, errors.New("manifest has no [[session]] entries")
	}

	base := filepath.Dir(path)
	for i := range m.Sessions {
		s := &m.Sessions[i]
		for _, p := range []*string{&s.Bio, &s.Force, &s.EDF, &s.WAV} {
			if *p != "" && !filepath.IsAbs(*p) {
				*p = filepath.Join(base, *p)
			}
		}
	}
	return m.Sessions, nil
}

func (s source) identity() models.Identity {
	return models.Identity{SubjectID: s.Subject, Condition: s.Condition, Round: s.Round}
}

// job reads every file the source names.
func (s source) job() (physiofeat.Job, error) {
	var inputs int
	for _, p := range []string{s.Bio, s.EDF, s.WAV} {
		if p != "" {
			inputs++
		}
	}
	if inputs > 1 {
		return physiofeat.Job{}, fmt.Errorf("%s: give only one of bio, edf and wav", s.identity())
	}

	rec, err := s.waveforms()
	if err != nil {
		return physiofeat.Job{}, fmt.Errorf("%s: %w", s.identity(), err)
	}
	logger.Debugf("%s: cardiac %.1fs, eda %.1fs, respiration %.1fs", s.identity(),
		rec.Cardiac.DurationSec(), rec.EDA.DurationSec(), rec.Respiration.DurationSec())

	if s.Force != "" {
		f, err := os.Open(s.Force)
		if err != nil {
			return physiofeat.Job{}, err
		}
		defer f.Close()
		if rec.Force, err = recording.LoadForceCSV(f); err != nil {
			return physiofeat.Job{}, fmt.Errorf("%s: %w", s.identity(), err)
		}
	}

	return physiofeat.Job{Identity: s.identity(), Recording: rec, Metrics: s.Metrics}, nil
}

func (s source) waveforms() (recording.Recording, error) {
	switch {
	case s.Bio != "":
		f, err := os.Open(s.Bio)
		if err != nil {
			return recording.Recording{}, err
		}
		defer f.Close()
		rate := s.Rate
		if rate == 0 {
			rate = recording.DefaultRate
		}
		return recording.LoadBioCSV(f, rate)

	case s.EDF != "":
		ch, err := s.channels()
		if err != nil {
			return recording.Recording{}, err
		}
		f, err := os.Open(s.EDF)
		if err != nil {
			return recording.Recording{}, err
		}
		defer f.Close()
		return recording.LoadEDF(f, recording.EDFChannels{
			Cardiac: ch[0], EDA: ch[1], Respiration: ch[2], Rate: s.Rate,
		})

	case s.WAV != "":
		ch, err := s.channels()
		if err != nil {
			return recording.Recording{}, err
		}
		f, err := os.Open(s.WAV)
		if err != nil {
			return recording.Recording{}, err
		}
		defer f.Close()
		return recording.LoadWAV(f, recording.WAVChannels{Cardiac: ch[0], EDA: ch[1], Respiration: ch[2]})
	}
	return recording.Recording{}, nil
}

func (s source) channels() ([3]int, error) {
	if s.Channels == nil {
		return [3]int{0, 1, 2}, nil
	}
	if len(s.Channels) != 3 {
		return [3]int{}, fmt.Errorf("channels needs 3 indices, got %d", len(s.Channels))
	}
	return [3]int{s.Channels[0], s.Channels[1], s.Channels[2]}, nil
}
