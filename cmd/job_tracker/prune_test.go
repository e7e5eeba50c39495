package main

import (
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/timeutil"
	"github.com/jonathan/job-tracker/internal/types"
)

func TestPruneCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	dir := t.TempDir()
	cfgPath := trackerConfig(t, dir)
	dataFile := filepath.Join(dir, "jobs.json")

	old := timeutil.Stamp(time.Now().AddDate(0, 0, -60), time.UTC)
	recent := timeutil.Stamp(time.Now().AddDate(0, 0, -2), time.UTC)
	seedDataset(t, dataFile,
		fixturePosting("old-stale", "acme", types.StatusStale, old),
		fixturePosting("fresh", "acme", types.StatusActive, recent),
	)

	cmd := exec.Command(binaryPath, "prune", "--config", cfgPath, "--days", "30")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	assert.Contains(t, string(output), "Pruned 1 stale postings")

	ds, err := store.NewFileStore(dataFile, "", time.UTC).Load()
	require.NoError(t, err)
	assert.False(t, ds.Has("old-stale"))
	assert.True(t, ds.Has("fresh"))
}

func TestPruneCommand_DryRun(t *testing.T) {
	binaryPath := getBinaryPath(t)

	dir := t.TempDir()
	cfgPath := trackerConfig(t, dir)
	dataFile := filepath.Join(dir, "jobs.json")

	old := timeutil.Stamp(time.Now().AddDate(0, 0, -60), time.UTC)
	seedDataset(t, dataFile, fixturePosting("old-stale", "acme", types.StatusStale, old))

	cmd := exec.Command(binaryPath, "prune", "--config", cfgPath, "--dry-run")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	assert.Contains(t, string(output), "Dry run: 1 stale postings")

	ds, err := store.NewFileStore(dataFile, "", time.UTC).Load()
	require.NoError(t, err)
	assert.True(t, ds.Has("old-stale"), "dry run must not delete anything")
}

func TestPruneCommand_NothingToPrune(t *testing.T) {
	binaryPath := getBinaryPath(t)

	dir := t.TempDir()
	cfgPath := trackerConfig(t, dir)

	recent := timeutil.Stamp(time.Now().AddDate(0, 0, -2), time.UTC)
	seedDataset(t, filepath.Join(dir, "jobs.json"),
		fixturePosting("fresh-stale", "acme", types.StatusStale, recent))

	cmd := exec.Command(binaryPath, "prune", "--config", cfgPath)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	assert.Contains(t, string(output), "Nothing to prune")
}

func TestPruneCommand_RejectsBadDays(t *testing.T) {
	binaryPath := getBinaryPath(t)

	dir := t.TempDir()
	cfgPath := trackerConfig(t, dir)

	cmd := exec.Command(binaryPath, "prune", "--config", cfgPath, "--days", "0")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "--days must be at least 1")
}
