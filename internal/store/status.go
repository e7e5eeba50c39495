package store

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/jonathan/job-tracker/internal/schemas"
	"github.com/jonathan/job-tracker/internal/types"
)

// ErrNoStatus reports that no run has been recorded yet.
var ErrNoStatus = errors.New("no run status recorded")

// StatusFile persists the most recent run record for operators and
// monitoring. It is the sole source of truth for what a run did.
type StatusFile struct {
	path string
}

// NewStatusFile creates a status file handle at the given path.
func NewStatusFile(path string) *StatusFile {
	return &StatusFile{path: path}
}

// Path returns the status file location.
func (s *StatusFile) Path() string {
	return s.path
}

// Write persists the run record with the same atomic replace discipline as
// the dataset file.
func (s *StatusFile) Write(rec *types.RunRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return &Error{Op: "save", Path: s.path, Cause: err}
	}
	return writeAtomic(s.path, data)
}

// Read loads the last persisted run record. A missing file yields
// ErrNoStatus.
func (s *StatusFile) Read() (*types.RunRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNoStatus
	}
	if err != nil {
		return nil, &Error{Op: "load", Path: s.path, Cause: err}
	}

	if err := schemas.ValidateRunStatus(data); err != nil {
		return nil, &Error{Op: "load", Path: s.path, Cause: err}
	}

	var rec types.RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &Error{Op: "load", Path: s.path, Cause: err}
	}
	return &rec, nil
}
