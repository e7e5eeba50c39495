//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunRecord(t *testing.T) {
	rec := NewRunRecord("2025-06-01T08:00:00.000-07:00", []string{"google_career", "acme_jobs"})

	assert.NotEmpty(t, rec.ID, "run record should get a fresh id")
	assert.Equal(t, RunPending, rec.Status)
	assert.Equal(t, "2025-06-01T08:00:00.000-07:00", rec.StartedAt)
	assert.Equal(t, []string{"google_career", "acme_jobs"}, rec.EnabledSources)
	assert.Empty(t, rec.Sources)

	other := NewRunRecord("2025-06-01T08:00:00.000-07:00", nil)
	assert.NotEqual(t, rec.ID, other.ID, "ids should be unique per run")
}

func TestRunRecord_AppendFoldsInsertCounts(t *testing.T) {
	rec := NewRunRecord("2025-06-01T08:00:00.000-07:00", []string{"a", "b"})
	rec.Append(SourceOutcome{Source: "a", Result: OutcomeSuccess, Inserted: 3})
	rec.Append(SourceOutcome{Source: "b", Result: OutcomeFailure, ErrorKind: ErrKindCollectorFailure, Error: "boom"})

	assert.Equal(t, 3, rec.NewJobsFound, "new jobs found should sum per-source inserts")
	require.Len(t, rec.Sources, 2)
}

func TestRunRecord_OutcomeLookup(t *testing.T) {
	rec := NewRunRecord("2025-06-01T08:00:00.000-07:00", nil)
	rec.Append(SourceOutcome{Source: "google_career", Result: OutcomeSuccess, Inserted: 1})

	got, ok := rec.Outcome("google_career")
	require.True(t, ok)
	assert.Equal(t, 1, got.Inserted)
	assert.True(t, got.Succeeded())

	_, ok = rec.Outcome("missing")
	assert.False(t, ok)
}

func TestRunRecord_Failures(t *testing.T) {
	rec := NewRunRecord("2025-06-01T08:00:00.000-07:00", nil)
	rec.Append(SourceOutcome{Source: "a", Result: OutcomeSuccess})
	rec.Append(SourceOutcome{Source: "b", Result: OutcomeFailure, ErrorKind: ErrKindCollectorTimeout, Error: "deadline exceeded"})
	rec.Append(SourceOutcome{Source: "c", Result: OutcomeFailure, ErrorKind: ErrKindStorage, Error: "disk full"})

	failed := rec.Failures()
	require.Len(t, failed, 2)
	assert.Equal(t, "b", failed[0].Source)
	assert.Equal(t, ErrKindCollectorTimeout, failed[0].ErrorKind)
	assert.Equal(t, "c", failed[1].Source)
}
