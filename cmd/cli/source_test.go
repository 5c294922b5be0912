package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanishpuri/PhysioFeat/pkg/models"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/recording"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "S1", "bio.csv"), "Time,BVP,EDA,RESP\n0,1,2,3\n1,4,5,6\n")
	writeFile(t, filepath.Join(dir, "S1", "force.csv"),
		"Time,"+strings.Join(recording.ForceColumns[:], ",")+"\n0,3,4,0,0,0,1\n")
	writeFile(t, filepath.Join(dir, "batch.toml"), `
[[session]]
subject = 1
condition = "A"
round = 2
bio = "S1/bio.csv"
force = "S1/force.csv"
rate = 500.0

[session.metrics]
Response_Time = 1.5

[[session]]
subject = 2
condition = "B"
round = 1
`)

	sources, err := loadManifest(filepath.Join(dir, "batch.toml"))
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, filepath.Join(dir, "S1", "bio.csv"), sources[0].Bio)

	job, err := sources[0].job()
	require.NoError(t, err)
	assert.Equal(t, models.Identity{SubjectID: 1, Condition: "A", Round: 2}, job.Identity)
	assert.Equal(t, []float64{1, 4}, job.Recording.Cardiac.Samples)
	assert.Equal(t, 500.0, job.Recording.EDA.Rate)
	require.True(t, job.Recording.Force.Complete())
	assert.Equal(t, []float64{3}, job.Recording.Force.Thumb.X)
	assert.Equal(t, 1.5, job.Metrics["Response_Time"])

	empty, err := sources[1].job()
	require.NoError(t, err)
	assert.False(t, empty.Recording.Cardiac.Present())
	assert.Nil(t, empty.Recording.Force)
}

func TestLoadManifestEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.toml")
	writeFile(t, path, "# nothing\n")

	_, err := loadManifest(path)
	assert.Error(t, err)
}

func TestSourceRejectsTwoInputs(t *testing.T) {
	_, err := source{Subject: 1, Condition: "A", Bio: "a.csv", WAV: "b.wav"}.job()
	assert.ErrorContains(t, err, "only one")
}

func TestSourceChannels(t *testing.T) {
	ch, err := source{}.channels()
	require.NoError(t, err)
	assert.Equal(t, [3]int{0, 1, 2}, ch)

	ch, err = source{Channels: []int{2, -1, 0}}.channels()
	require.NoError(t, err)
	assert.Equal(t, [3]int{2, -1, 0}, ch)

	_, err = source{Channels: []int{1}}.channels()
	assert.Error(t, err)
}

func TestMetricFlags(t *testing.T) {
	m := metricFlags{}
	require.NoError(t, m.Set("Response_Time=1.25"))
	assert.Equal(t, 1.25, m["Response_Time"])

	assert.Error(t, m.Set("novalue"))
	assert.Error(t, m.Set("x=abc"))
}
