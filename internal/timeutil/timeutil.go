// Package timeutil formats and parses the ISO-8601 timestamps persisted in
// the dataset and run-status files.
package timeutil

import "time"

const (
	// DefaultZone is used when the configuration does not name a timezone.
	DefaultZone = "America/Los_Angeles"

	// StampLayout is RFC3339 with millisecond precision, the format every
	// persisted timestamp uses.
	StampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// LoadLocation resolves an IANA timezone name, falling back to DefaultZone
// when the name is empty.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	return time.LoadLocation(name)
}

// Stamp formats t in the given location with millisecond precision. A nil
// location formats in UTC.
func Stamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(StampLayout)
}

// Parse reads a timestamp produced by Stamp. Plain RFC3339 values are
// accepted too, so hand-edited files and files from older versions still
// load.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(StampLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
