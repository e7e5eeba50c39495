// Package normalize converts raw scraped records into canonical postings.
//
// The normalizer is a pure transform: it trims and cleans every field,
// coerces absent optional fields to the "unknown" sentinel, and
// canonicalizes the posting URL so that superficially different URLs for
// the same posting cannot produce different identities. Records missing a
// usable title or url are rejected as malformed; the caller skips them and
// continues the batch.
package normalize

import (
	"fmt"
	"strings"

	"github.com/jonathan/job-tracker/internal/types"
)

// MalformedRecordError reports a raw record that cannot become a canonical
// posting.
type MalformedRecordError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: field %q %s", e.Field, e.Reason)
}

// Record converts one raw record from the named source into a canonical
// posting observed at scrapedAt. The returned posting carries no id or
// fingerprint yet; identity resolution is a separate step.
func Record(raw types.RawRecord, source, scrapedAt string) (types.Posting, error) {
	title := cleanField(raw.Field(types.FieldTitle))
	if title == "" {
		return types.Posting{}, &MalformedRecordError{Field: types.FieldTitle, Reason: "missing or empty"}
	}

	rawURL := strings.TrimSpace(raw.Field(types.FieldURL))
	if rawURL == "" {
		return types.Posting{}, &MalformedRecordError{Field: types.FieldURL, Reason: "missing or empty"}
	}
	canonical, err := CanonicalURL(rawURL)
	if err != nil {
		return types.Posting{}, &MalformedRecordError{Field: types.FieldURL, Reason: err.Error()}
	}

	return types.Posting{
		Source:         source,
		Title:          title,
		Company:        optionalField(raw, types.FieldCompany),
		Location:       optionalField(raw, types.FieldLocation),
		URL:            canonical,
		Description:    optionalBlock(raw, types.FieldDescription),
		Level:          optionalField(raw, types.FieldLevel),
		Salary:         optionalField(raw, types.FieldSalary),
		EmploymentType: optionalField(raw, types.FieldEmploymentType),
		PostedDate:     optionalField(raw, types.FieldPostedDate),
		ScrapedDate:    scrapedAt,
		Status:         types.StatusActive,
	}, nil
}

// optionalField cleans a single-line field, substituting the unknown
// sentinel when nothing remains.
func optionalField(raw types.RawRecord, key string) string {
	v := cleanField(raw.Field(key))
	if v == "" {
		return types.Unknown
	}
	return v
}

// optionalBlock cleans a multi-line field, substituting the unknown sentinel
// when nothing remains.
func optionalBlock(raw types.RawRecord, key string) string {
	v := cleanBlock(raw.Field(key))
	if v == "" {
		return types.Unknown
	}
	return v
}

// cleanField collapses all interior whitespace runs to single spaces and
// trims the ends.
func cleanField(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanBlock normalizes a multi-line field: CRLF to LF, per-line whitespace
// collapse, and runs of blank lines reduced to one.
func cleanBlock(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")

	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = cleanField(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}
