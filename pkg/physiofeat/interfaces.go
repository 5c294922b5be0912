package physiofeat

import (
	"context"
	"io"

	"github.com/himanishpuri/PhysioFeat/pkg/models"
)

type Service interface {
	Extract(ctx context.Context, job Job) (*Result, error)
	ExtractBatch(ctx context.Context, jobs []Job) ([]*Result, error)
	GetRecord(id string) (*models.FeatureRecord, error)
	ListRecords() ([]models.RecordSummary, error)
	DeleteRecord(id string) error
	ExportCSV(w io.Writer) error
	Close() error
}

type Storage interface {
	SaveRecord(rec models.FeatureRecord) (string, error)
	GetRecord(id string) (*models.FeatureRecord, error)
	ListRecords() ([]models.RecordSummary, error)
	AllRecords() ([]models.FeatureRecord, error)
	DeleteRecord(id string) error
	Close() error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
