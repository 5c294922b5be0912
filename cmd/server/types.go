package main

import (
	"math"
	"time"

	"github.com/himanishpuri/PhysioFeat/pkg/models"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/recording"
)

// MaxBodyBytes caps the size of an extract request.
const MaxBodyBytes = 256 << 20

// ChannelDTO is one uniformly sampled waveform.
type ChannelDTO struct {
	Samples []float64 `json:"samples"`
	Rate    float64   `json:"rate"`
}

// Axis3DTO is a three-component force trace.
type Axis3DTO struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
	Z []float64 `json:"z"`
}

// ForceDTO carries both grip sensor contacts.
type ForceDTO struct {
	Thumb Axis3DTO `json:"thumb"`
	Index Axis3DTO `json:"index"`
}

// ExtractRequest is the request body for POST /api/extract. Absent
// channels are simply left out.
type ExtractRequest struct {
	Subject     int                `json:"subject" binding:"required"`
	Condition   string             `json:"condition" binding:"required"`
	Round       int                `json:"round"`
	Cardiac     *ChannelDTO        `json:"cardiac,omitempty"`
	EDA         *ChannelDTO        `json:"eda,omitempty"`
	Respiration *ChannelDTO        `json:"respiration,omitempty"`
	Force       *ForceDTO          `json:"force,omitempty"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

func (r *ExtractRequest) toJob() physiofeat.Job {
	round := r.Round
	if round == 0 {
		round = 1
	}
	job := physiofeat.Job{
		Identity: models.Identity{SubjectID: r.Subject, Condition: r.Condition, Round: round},
		Recording: recording.Recording{
			Cardiac:     r.Cardiac.channel(),
			EDA:         r.EDA.channel(),
			Respiration: r.Respiration.channel(),
		},
		Metrics: r.Metrics,
	}
	if r.Force != nil {
		job.Recording.Force = &recording.Force{
			Thumb: recording.Axis3{X: r.Force.Thumb.X, Y: r.Force.Thumb.Y, Z: r.Force.Thumb.Z},
			Index: recording.Axis3{X: r.Force.Index.X, Y: r.Force.Index.Y, Z: r.Force.Index.Z},
		}
	}
	return job
}

func (c *ChannelDTO) channel() recording.Channel {
	if c == nil {
		return recording.Channel{}
	}
	return recording.Channel{Samples: c.Samples, Rate: c.Rate}
}

// RecordDTO is a feature row. Features that could not be computed are null.
type RecordDTO struct {
	ID          string              `json:"id"`
	Subject     int                 `json:"subject"`
	Condition   string              `json:"condition"`
	Round       int                 `json:"round"`
	Features    map[string]*float64 `json:"features"`
	Diagnostics []string            `json:"diagnostics,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func toRecordDTO(rec models.FeatureRecord, diag []string) RecordDTO {
	feats := make(map[string]*float64, len(rec.Features))
	for k, v := range rec.Features {
		v := v
		if math.IsNaN(v) || math.IsInf(v, 0) {
			feats[k] = nil
			continue
		}
		feats[k] = &v
	}
	return RecordDTO{
		ID:          rec.ID,
		Subject:     rec.SubjectID,
		Condition:   rec.Condition,
		Round:       rec.Round,
		Features:    feats,
		Diagnostics: diag,
		CreatedAt:   rec.CreatedAt,
	}
}

// SummaryDTO is one entry of GET /api/records.
type SummaryDTO struct {
	ID        string    `json:"id"`
	Subject   int       `json:"subject"`
	Condition string    `json:"condition"`
	Round     int       `json:"round"`
	Computed  int       `json:"computed"`
	Missing   int       `json:"missing"`
	CreatedAt time.Time `json:"created_at"`
}

// ListRecordsResponse is the response for GET /api/records.
type ListRecordsResponse struct {
	Records []SummaryDTO `json:"records"`
	Count   int          `json:"count"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
