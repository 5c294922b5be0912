package physiofeat

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"runtime"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/himanishpuri/PhysioFeat/pkg/logger"
	"github.com/himanishpuri/PhysioFeat/pkg/models"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/features"
)

// Identity columns that lead every exported row.
var identityColumns = []string{"Participant", "Condition", "Round"}

// physioService is the default implementation of the Service interface.
type physioService struct {
	storage Storage
	log     Logger
	config  *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Features.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feature config: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	var stor Storage
	var err error
	if cfg.Storage != nil {
		stor = cfg.Storage
	} else {
		stor, err = NewSQLiteStorage(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
	}

	return &physioService{
		storage: stor,
		log:     cfg.Logger,
		config:  cfg,
	}, nil
}

// Extract computes the feature row of one session and stores it,
// replacing any earlier row with the same identity.
func (s *physioService) Extract(ctx context.Context, job Job) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for name := range job.Metrics {
		if features.InSchema(name) {
			return nil, fmt.Errorf("%w: metric %q shadows a feature column", ErrInvalidJob, name)
		}
	}

	s.log.Debugf("Extracting %s", job.Identity)
	set, diag, err := features.Extract(job.Recording, s.config.Features)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", job.Identity, err)
	}
	for _, d := range diag {
		s.log.Warnf("%s: %s", job.Identity, d)
	}

	rec := features.Assemble(job.Identity, job.Metrics, set)
	id, err := s.storage.SaveRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", job.Identity, err)
	}
	rec.ID = id
	rec.CreatedAt = time.Now()

	s.log.Infof("Stored %s as %s (%d features, %d missing)", job.Identity, id, len(set)-len(set.Invalid()), len(set.Invalid()))
	return &Result{Record: rec, Diagnostics: diag}, nil
}

// ExtractBatch runs jobs in parallel, at most Workers at a time. Results
// are in job order. The first failing job cancels the rest.
func (s *physioService) ExtractBatch(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			r, err := s.Extract(ctx, job)
			if err != nil {
				return fmt.Errorf("job %d (%s): %w", i, job.Identity, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Infof("Extracted %d sessions", len(jobs))
	return results, nil
}

func (s *physioService) GetRecord(id string) (*models.FeatureRecord, error) {
	return s.storage.GetRecord(id)
}

func (s *physioService) ListRecords() ([]models.RecordSummary, error) {
	return s.storage.ListRecords()
}

func (s *physioService) DeleteRecord(id string) error {
	if err := s.storage.DeleteRecord(id); err != nil {
		return err
	}
	s.log.Infof("Deleted record %s", id)
	return nil
}

// ExportCSV writes every stored row as one table: identity columns, then
// task metrics sorted by name, then the feature schema. Missing and NaN
// values are empty cells.
func (s *physioService) ExportCSV(w io.Writer) error {
	records, err := s.storage.AllRecords()
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}

	extra := map[string]bool{}
	for _, r := range records {
		for name := range r.Features {
			if !features.InSchema(name) {
				extra[name] = true
			}
		}
	}
	metrics := make([]string, 0, len(extra))
	for name := range extra {
		metrics = append(metrics, name)
	}
	sort.Strings(metrics)
	columns := append(metrics, features.Schema...)

	cw := csv.NewWriter(w)
	header := append(append([]string{}, identityColumns...), columns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{strconv.Itoa(r.SubjectID), r.Condition, strconv.Itoa(r.Round)}
		for _, name := range columns {
			row = append(row, formatCell(r.Features, name))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(feats map[string]float64, name string) string {
	v, ok := feats[name]
	if !ok || math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s *physioService) Close() error {
	return s.storage.Close()
}
