package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/himanishpuri/PhysioFeat/pkg/models"
	"github.com/himanishpuri/PhysioFeat/pkg/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultDBFile = "physiofeat.sqlite3"
const errDBClientNil = "db client is nil"

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("record not found")

type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// Record is one stored feature row, unique per session identity.
type Record struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	SubjectID int    `gorm:"uniqueIndex:idx_record_identity,priority:1" json:"subject_id"`
	Condition string `gorm:"column:condition_label;type:varchar(64);uniqueIndex:idx_record_identity,priority:2" json:"condition"`
	Round     int    `gorm:"uniqueIndex:idx_record_identity,priority:3" json:"round"`
	CreatedAt time.Time
	Values    []FeatureValue `gorm:"foreignKey:RecordID"`
}

// FeatureValue holds one named number of a record. Value is NULL for a
// feature that could not be computed.
type FeatureValue struct {
	ID       uint     `gorm:"primaryKey;autoIncrement"`
	RecordID string   `gorm:"type:varchar(36);index:idx_value_record" json:"record_id"`
	Name     string   `gorm:"type:varchar(128)" json:"name"`
	Value    *float64 `json:"value"`
}

func NewDBClient() (*DBClient, error) {
	dbPath := os.Getenv("PHYSIO_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	return NewDBClientWithPath(dbPath)
}

// NewDBClientWithPath opens the database named by dsn. A dsn starting with
// "postgres" or "mysql" selects that server; anything else is a SQLite
// file path whose directory is created if needed.
func NewDBClientWithPath(dsn string) (*DBClient, error) {
	dial, isSQLite := getDialector(dsn)
	if isSQLite {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := utils.MakeDir(dir); err != nil {
				return nil, fmt.Errorf("creating db dir: %w", err)
			}
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(dial, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	if isSQLite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Record{}, &FeatureValue{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

func getDialector(dsn string) (gorm.Dialector, bool) {
	switch {
	case strings.HasPrefix(dsn, "postgres"):
		return postgres.New(postgres.Config{
			DriverName: "pgx",
			DSN:        dsn,
		}), false
	case strings.HasPrefix(dsn, "mysql://"):
		return mysql.Open(strings.TrimPrefix(dsn, "mysql://")), false
	default:
		return sqlite.Open(dsn), true
	}
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// SaveRecord stores rec and returns its ID. A record with the same
// identity is replaced, keeping its ID.
func (c *DBClient) SaveRecord(rec models.FeatureRecord) (string, error) {
	if c == nil || c.DB == nil {
		return "", errors.New(errDBClientNil)
	}

	var id string
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		var existing Record
		err := tx.Where("subject_id = ? AND condition_label = ? AND round = ?",
			rec.SubjectID, rec.Condition, rec.Round).First(&existing).Error
		switch {
		case err == nil:
			id = existing.ID
			if err := tx.Where("record_id = ?", id).Delete(&FeatureValue{}).Error; err != nil {
				return fmt.Errorf("clearing old values: %w", err)
			}
			if err := tx.Model(&existing).Update("created_at", time.Now()).Error; err != nil {
				return fmt.Errorf("touching record: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			id = uuid.NewString()
			row := Record{ID: id, SubjectID: rec.SubjectID, Condition: rec.Condition, Round: rec.Round}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("creating record: %w", err)
			}
		default:
			return fmt.Errorf("querying existing record: %w", err)
		}

		values := make([]FeatureValue, 0, len(rec.Features))
		for name, v := range rec.Features {
			values = append(values, FeatureValue{RecordID: id, Name: name, Value: nullable(v)})
		}
		if len(values) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(values, 500).Error; err != nil {
			return fmt.Errorf("batch insert values: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetRecord loads one record with all its values.
func (c *DBClient) GetRecord(id string) (*models.FeatureRecord, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var row Record
	err := c.DB.Preload("Values").Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying record: %w", err)
	}
	rec := toModel(row)
	return &rec, nil
}

// AllRecords loads every record ordered by subject, condition and round.
func (c *DBClient) AllRecords() ([]models.FeatureRecord, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var rows []Record
	if err := c.DB.Preload("Values").Order("subject_id, condition_label, round").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	out := make([]models.FeatureRecord, len(rows))
	for i, r := range rows {
		out[i] = toModel(r)
	}
	return out, nil
}

// ListRecords returns per-record counts of computed and missing values.
func (c *DBClient) ListRecords() ([]models.RecordSummary, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var rows []Record
	if err := c.DB.Order("subject_id, condition_label, round").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}

	var counts []struct {
		RecordID string
		Computed int
		Total    int
	}
	err := c.DB.Model(&FeatureValue{}).
		Select("record_id, COUNT(value) AS computed, COUNT(*) AS total").
		Group("record_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("counting values: %w", err)
	}
	byID := make(map[string][2]int, len(counts))
	for _, n := range counts {
		byID[n.RecordID] = [2]int{n.Computed, n.Total - n.Computed}
	}

	out := make([]models.RecordSummary, len(rows))
	for i, r := range rows {
		n := byID[r.ID]
		out[i] = models.RecordSummary{
			ID:        r.ID,
			Identity:  models.Identity{SubjectID: r.SubjectID, Condition: r.Condition, Round: r.Round},
			Computed:  n[0],
			Missing:   n[1],
			CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}

func (c *DBClient) DeleteRecord(id string) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("record_id = ?", id).Delete(&FeatureValue{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&Record{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil
	})
}

func toModel(r Record) models.FeatureRecord {
	feats := make(map[string]float64, len(r.Values))
	for _, v := range r.Values {
		if v.Value == nil {
			feats[v.Name] = math.NaN()
		} else {
			feats[v.Name] = *v.Value
		}
	}
	return models.FeatureRecord{
		ID:        r.ID,
		Identity:  models.Identity{SubjectID: r.SubjectID, Condition: r.Condition, Round: r.Round},
		Features:  feats,
		CreatedAt: r.CreatedAt,
	}
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
