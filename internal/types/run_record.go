package types

import "github.com/google/uuid"

// Run status constants
const (
	RunPending   = "pending"
	RunRunning   = "running"
	RunCompleted = "completed"
)

// Source outcome result constants
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Error kind constants recorded on failed source outcomes
const (
	ErrKindCollectorFailure      = "collector_failure"
	ErrKindCollectorTimeout      = "collector_timeout"
	ErrKindReconciliationAborted = "reconciliation_aborted"
	ErrKindStorage               = "storage_error"
)

// SourceOutcome records how one source fared during a run. The four core
// counts cover reconciliation; Superseded and Malformed count records that
// never reached it (within-batch duplicates and unparseable raw records).
type SourceOutcome struct {
	Source     string `json:"source"`
	Result     string `json:"result"`
	Inserted   int    `json:"inserted"`
	Updated    int    `json:"updated"`
	Unchanged  int    `json:"unchanged"`
	Retired    int    `json:"retired"`
	Superseded int    `json:"superseded,omitempty"`
	Malformed  int    `json:"malformed,omitempty"`
	Attempts   int    `json:"attempts,omitempty"`
	Pages      int    `json:"pages,omitempty"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Succeeded reports whether the source completed its reconciliation.
func (o *SourceOutcome) Succeeded() bool {
	return o.Result == OutcomeSuccess
}

// RunRecord aggregates one full pass over the enabled sources. It is created
// at run start, appended-to as sources finish, and persisted at run end no
// matter how many sources failed.
type RunRecord struct {
	ID             string          `json:"id"`
	Status         string          `json:"status"`
	StartedAt      string          `json:"started_at"`
	FinishedAt     string          `json:"finished_at,omitempty"`
	EnabledSources []string        `json:"enabled_sources"`
	Sources        []SourceOutcome `json:"sources"`
	NewJobsFound   int             `json:"new_jobs_found"`
}

// NewRunRecord creates a pending run record with a fresh id.
func NewRunRecord(startedAt string, enabledSources []string) *RunRecord {
	if enabledSources == nil {
		enabledSources = []string{}
	}
	return &RunRecord{
		ID:             uuid.New().String(),
		Status:         RunPending,
		StartedAt:      startedAt,
		EnabledSources: enabledSources,
		Sources:        []SourceOutcome{},
	}
}

// Append records one source's outcome and folds its insert count into the
// run-level new-jobs total.
func (r *RunRecord) Append(o SourceOutcome) {
	r.Sources = append(r.Sources, o)
	r.NewJobsFound += o.Inserted
}

// Outcome returns the recorded outcome for the named source.
func (r *RunRecord) Outcome(source string) (SourceOutcome, bool) {
	for i := range r.Sources {
		if r.Sources[i].Source == source {
			return r.Sources[i], true
		}
	}
	return SourceOutcome{}, false
}

// Failures returns the outcomes for sources that did not succeed.
func (r *RunRecord) Failures() []SourceOutcome {
	var failed []SourceOutcome
	for i := range r.Sources {
		if !r.Sources[i].Succeeded() {
			failed = append(failed, r.Sources[i])
		}
	}
	return failed
}
