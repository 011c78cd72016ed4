package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun(env string, start time.Time) *Run {
	return &Run{
		ID:          "4b1c1b0e-7d2a-4c8f-9d55-2f1f0c2b8a11",
		Environment: env,
		Host:        "127.0.0.1",
		Start:       start,
		Finish:      start.Add(90 * time.Second),
		Steps: []Step{
			{Name: "apt-get-update", Status: StatusOK, Started: start, Duration: 30 * time.Second, Changed: 1},
			{Name: "setup-apache", Status: StatusFailed, Started: start.Add(30 * time.Second), Duration: time.Minute, Error: "exit status 1"},
		},
		Error: "setup-apache task failed: exit status 1",
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "20260304T050607Z_dev.json", FileName(sampleRun("dev", start)))
	assert.Equal(t, "20260304T050607Z_qa_west.json", FileName(sampleRun("qa/west", start)))
	assert.Equal(t, "20260304T050607Z_none.json", FileName(sampleRun("", start)))
}

func TestStore_SaveAndList(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "runs")
	store := NewStore(dir)

	base := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := store.Save(sampleRun("dev", base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	runs, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.True(t, runs[0].Start.After(runs[1].Start))
	assert.Equal(t, 90*time.Second, runs[0].Duration())
	assert.Equal(t, StatusFailed, runs[0].Steps[1].Status)

	runs, err = store.List(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temporary files are left behind")
}

func TestStore_ListMissingDir(t *testing.T) {
	t.Parallel()

	runs, err := NewStore(filepath.Join(t.TempDir(), "missing")).List(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStore_ListCorrupt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101T000000Z_dev.json"), []byte("{"), 0o600))

	_, err := NewStore(dir).List(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse report 20260101T000000Z_dev.json")
}
