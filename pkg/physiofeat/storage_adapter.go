package physiofeat

import (
	"github.com/himanishpuri/PhysioFeat/pkg/models"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/storage"
)

// storageAdapter adapts the storage.DBClient to implement the Storage interface.
type storageAdapter struct {
	db *storage.DBClient
}

// NewSQLiteStorage opens the database at dbPath. Postgres and MySQL DSNs
// are accepted too.
func NewSQLiteStorage(dbPath string) (Storage, error) {
	db, err := storage.NewDBClientWithPath(dbPath)
	if err != nil {
		return nil, err
	}
	return &storageAdapter{db: db}, nil
}

func (s *storageAdapter) SaveRecord(rec models.FeatureRecord) (string, error) {
	return s.db.SaveRecord(rec)
}

func (s *storageAdapter) GetRecord(id string) (*models.FeatureRecord, error) {
	return s.db.GetRecord(id)
}

func (s *storageAdapter) ListRecords() ([]models.RecordSummary, error) {
	return s.db.ListRecords()
}

func (s *storageAdapter) AllRecords() ([]models.FeatureRecord, error) {
	return s.db.AllRecords()
}

func (s *storageAdapter) DeleteRecord(id string) error {
	return s.db.DeleteRecord(id)
}

func (s *storageAdapter) Close() error {
	return s.db.Close()
}
