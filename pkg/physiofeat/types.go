package physiofeat

import (
	"errors"

	"github.com/himanishpuri/PhysioFeat/pkg/models"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/features"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/recording"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/storage"
)

var (
	// ErrNotFound is returned when no stored record has the requested ID.
	ErrNotFound = storage.ErrNotFound
	// ErrInvalidJob reports a job that cannot be assembled into a row.
	ErrInvalidJob = errors.New("invalid job")
)

// Job is one recording session to extract.
type Job struct {
	Identity  models.Identity
	Recording recording.Recording
	Metrics   map[string]float64 // Task metrics copied into the row as given
}

// Result is a stored feature row and the problems met building it.
type Result struct {
	Record      models.FeatureRecord
	Diagnostics features.Diagnostics
}
