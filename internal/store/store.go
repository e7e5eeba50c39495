// Package store persists the posting dataset and the run-status document as
// flat JSON files.
//
// Writes are atomic: content goes to a temp file in the target directory,
// is synced, and is renamed over the destination. A crash mid-write leaves
// either the prior complete file or the new one, never a torn mix. Nothing
// counts as committed until Save returns nil.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/schemas"
	"github.com/jonathan/job-tracker/internal/timeutil"
	"github.com/jonathan/job-tracker/internal/types"
)

// Error reports a persistence failure.
type Error struct {
	Op    string
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("storage %s failed for %s: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// FileStore reads and writes the dataset file.
type FileStore struct {
	path      string
	backupDir string
	loc       *time.Location
}

// NewFileStore creates a store over the given dataset path. A non-empty
// backupDir enables a timestamped copy of the current file before every
// save. loc controls the zone of the last_updated stamp; nil means UTC.
func NewFileStore(path, backupDir string, loc *time.Location) *FileStore {
	return &FileStore{path: path, backupDir: backupDir, loc: loc}
}

// Path returns the dataset file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the dataset. A missing file yields an empty dataset; a file
// that does not parse or fails schema validation yields an *Error.
func (s *FileStore) Load() (*types.Dataset, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return types.NewDataset(), nil
	}
	if err != nil {
		return nil, &Error{Op: "load", Path: s.path, Cause: err}
	}

	if err := schemas.ValidateDataset(data); err != nil {
		return nil, &Error{Op: "load", Path: s.path, Cause: err}
	}

	ds := types.NewDataset()
	if err := json.Unmarshal(data, ds); err != nil {
		return nil, &Error{Op: "load", Path: s.path, Cause: err}
	}
	return ds, nil
}

// Save commits the dataset atomically, stamping last_updated and syncing
// total_jobs to the live size first. When backups are enabled the current
// file is copied aside before being replaced.
func (s *FileStore) Save(ds *types.Dataset) error {
	ds.Metadata.TotalJobs = ds.Len()
	ds.Metadata.LastUpdated = timeutil.Stamp(time.Now(), s.loc)

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return &Error{Op: "save", Path: s.path, Cause: err}
	}

	if s.backupDir != "" {
		if err := s.backup(); err != nil {
			return err
		}
	}
	return writeAtomic(s.path, data)
}

// backup copies the current dataset file into the backup directory under a
// timestamped name. A missing dataset file means nothing to back up.
func (s *FileStore) backup() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &Error{Op: "backup", Path: s.path, Cause: err}
	}

	if err := os.MkdirAll(s.backupDir, 0755); err != nil {
		return &Error{Op: "backup", Path: s.backupDir, Cause: err}
	}

	base := filepath.Base(s.path)
	ext := filepath.Ext(base)
	stamp := time.Now().Format("20060102_150405")
	dest := filepath.Join(s.backupDir, fmt.Sprintf("%s_%s%s", strings.TrimSuffix(base, ext), stamp, ext))

	if err := os.WriteFile(dest, data, 0644); err != nil {
		return &Error{Op: "backup", Path: dest, Cause: err}
	}
	return nil
}

// writeAtomic writes data to a temp file next to path and renames it into
// place, creating parent directories as needed.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &Error{Op: "save", Path: path, Cause: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return &Error{Op: "save", Path: path, Cause: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &Error{Op: "save", Path: path, Cause: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &Error{Op: "save", Path: path, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &Error{Op: "save", Path: path, Cause: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return &Error{Op: "save", Path: path, Cause: err}
	}
	return nil
}
