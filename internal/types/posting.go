// Package types provides type definitions for structured data used throughout the job-tracker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Posting status constants
const (
	StatusActive = "active"
	StatusStale  = "stale"
)

// Unknown is the sentinel stored for optional fields a source did not supply.
// Absent values are coerced to this sentinel rather than left empty so the
// persisted dataset never carries implicit missing fields.
const Unknown = "unknown"

// Raw field key constants shared by collectors and the normalizer
const (
	FieldTitle          = "title"
	FieldCompany        = "company"
	FieldLocation       = "location"
	FieldURL            = "url"
	FieldDescription    = "description"
	FieldLevel          = "level"
	FieldSalary         = "salary"
	FieldEmploymentType = "employment_type"
	FieldPostedDate     = "posted_date"
)

// RawRecord is one scraped record exactly as a collector extracted it:
// arbitrary string fields, unvalidated and untrimmed. Every field is
// optional at this boundary; the normalizer decides what is malformed.
type RawRecord map[string]string

// Field returns the named raw field, or "" when absent.
func (r RawRecord) Field(key string) string {
	return r[key]
}

// Posting is one canonical job listing in the dataset.
type Posting struct {
	ID             string `json:"id"`
	Source         string `json:"source"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	URL            string `json:"url"`
	Description    string `json:"description"`
	Level          string `json:"level,omitempty"`
	Salary         string `json:"salary,omitempty"`
	EmploymentType string `json:"employment_type,omitempty"`
	PostedDate     string `json:"posted_date"`
	ScrapedDate    string `json:"scraped_date"`
	Status         string `json:"status"`
	Fingerprint    string `json:"fingerprint"`
}

// IsActive reports whether the posting was seen in the most recent completed
// scrape of its source.
func (p *Posting) IsActive() bool {
	return p.Status == StatusActive
}

// IsStale reports whether the posting's source stopped reporting it.
func (p *Posting) IsStale() bool {
	return p.Status == StatusStale
}
