package storage

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/himanishpuri/PhysioFeat/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DBClient {
	t.Helper()

	client, err := NewDBClientWithPath(filepath.Join(t.TempDir(), "test_physio.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func record(subject int, cond string, round int, feats map[string]float64) models.FeatureRecord {
	return models.FeatureRecord{
		Identity: models.Identity{SubjectID: subject, Condition: cond, Round: round},
		Features: feats,
	}
}

func TestNewDBClientCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "custom.db")

	client, err := NewDBClientWithPath(path)
	require.NoError(t, err)
	defer client.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewDBClientFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("PHYSIO_DB_PATH", path)

	client, err := NewDBClient()
	require.NoError(t, err)
	defer client.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveAndGetRecord(t *testing.T) {
	client := setupTestDB(t)

	id, err := client.SaveRecord(record(3, "C", 2, map[string]float64{
		"Bio_HR_Mean":   72.5,
		"Bio_HRV_LFHF":  math.NaN(),
		"Response_Time": 1.25,
	}))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := client.GetRecord(id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, models.Identity{SubjectID: 3, Condition: "C", Round: 2}, got.Identity)
	assert.Equal(t, 72.5, got.Features["Bio_HR_Mean"])
	assert.Equal(t, 1.25, got.Features["Response_Time"])
	assert.True(t, math.IsNaN(got.Features["Bio_HRV_LFHF"]))
	assert.Len(t, got.Features, 3)
}

func TestSaveRecordReplacesSameIdentity(t *testing.T) {
	client := setupTestDB(t)

	first, err := client.SaveRecord(record(1, "A", 1, map[string]float64{"x": 1, "y": 2}))
	require.NoError(t, err)
	second, err := client.SaveRecord(record(1, "A", 1, map[string]float64{"x": 5}))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	got, err := client.GetRecord(first)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"x": 5}, got.Features)

	list, err := client.ListRecords()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListRecords(t *testing.T) {
	client := setupTestDB(t)

	_, err := client.SaveRecord(record(2, "B", 1, map[string]float64{"a": 1, "b": math.NaN(), "c": math.NaN()}))
	require.NoError(t, err)
	_, err = client.SaveRecord(record(1, "A", 3, map[string]float64{"a": 1, "b": 2}))
	require.NoError(t, err)
	_, err = client.SaveRecord(record(1, "A", 1, nil))
	require.NoError(t, err)

	list, err := client.ListRecords()
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, models.Identity{SubjectID: 1, Condition: "A", Round: 1}, list[0].Identity)
	assert.Equal(t, 0, list[0].Computed)
	assert.Equal(t, 0, list[0].Missing)

	assert.Equal(t, 3, list[1].Round)
	assert.Equal(t, 2, list[1].Computed)
	assert.Equal(t, 0, list[1].Missing)

	assert.Equal(t, 2, list[2].SubjectID)
	assert.Equal(t, 1, list[2].Computed)
	assert.Equal(t, 2, list[2].Missing)
}

func TestAllRecords(t *testing.T) {
	client := setupTestDB(t)

	_, err := client.SaveRecord(record(2, "A", 1, map[string]float64{"b": 1}))
	require.NoError(t, err)
	_, err = client.SaveRecord(record(1, "A", 1, map[string]float64{"a": 2, "b": 3}))
	require.NoError(t, err)

	all, err := client.AllRecords()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].SubjectID)
	assert.Equal(t, 3.0, all[0].Features["b"])
	assert.Equal(t, 2, all[1].SubjectID)
}

func TestDeleteRecord(t *testing.T) {
	client := setupTestDB(t)

	id, err := client.SaveRecord(record(1, "A", 1, map[string]float64{"a": 1}))
	require.NoError(t, err)

	require.NoError(t, client.DeleteRecord(id))

	_, err = client.GetRecord(id)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, client.DB.Model(&FeatureValue{}).Where("record_id = ?", id).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, client.DeleteRecord(id), ErrNotFound)
}

func TestNilClient(t *testing.T) {
	var client *DBClient

	assert.NoError(t, client.Close())
	_, err := client.SaveRecord(record(1, "A", 1, nil))
	assert.Error(t, err)
	_, err = client.ListRecords()
	assert.Error(t, err)
}
