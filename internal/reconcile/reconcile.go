// Package reconcile merges a freshly collected batch of postings from one
// source into the accumulated dataset.
//
// The engine decides, per posting, whether it is new, silently edited,
// unchanged, or no longer reported by its source. Postings are retired to
// the stale status rather than deleted, so the dataset only ever grows.
package reconcile

import (
	"fmt"

	"github.com/jonathan/job-tracker/internal/types"
)

// AbortedError reports a batch that violates the single-source invariant:
// a posting claiming to come from a different source than the one being
// reconciled. It marks a programming or configuration bug; the batch is
// dropped, the run continues.
type AbortedError struct {
	Source string
	Got    string
	ID     string
}

// Error implements the error interface.
func (e *AbortedError) Error() string {
	return fmt.Sprintf("reconciliation aborted: batch for source %q contains posting %q from source %q",
		e.Source, e.ID, e.Got)
}

// Apply merges one source's batch into the dataset and reports what changed.
//
// The input dataset is never mutated. The returned dataset is a fresh value
// the caller commits through the store; until that commit succeeds, nothing
// here counts as persisted. The complete flag tells whether the collector
// delivered the source's full listing set; only a complete batch may retire
// postings the source stopped reporting, so a truncated scrape can never
// mass-retire a source.
func Apply(existing *types.Dataset, incoming []types.Posting, source string, complete bool) (*types.Dataset, types.SourceOutcome, error) {
	outcome := types.SourceOutcome{Source: source, Result: types.OutcomeSuccess}

	for i := range incoming {
		if incoming[i].Source != source {
			return nil, types.SourceOutcome{}, &AbortedError{
				Source: source,
				Got:    incoming[i].Source,
				ID:     incoming[i].ID,
			}
		}
	}

	// Within-batch duplicates: the later observation wins, earlier ones
	// count as superseded. Not an error; listings repeat across pages.
	survivor := make(map[string]int, len(incoming))
	order := make([]string, 0, len(incoming))
	for i := range incoming {
		id := incoming[i].ID
		if _, dup := survivor[id]; dup {
			outcome.Superseded++
		} else {
			order = append(order, id)
		}
		survivor[id] = i
	}

	next := existing.Clone()
	seen := make(map[string]bool, len(order))

	for _, id := range order {
		p := incoming[survivor[id]]
		seen[id] = true

		stored, known := next.Get(id)
		switch {
		case !known:
			p.Status = types.StatusActive
			next.Put(p)
			outcome.Inserted++
		case stored.Fingerprint != p.Fingerprint:
			// Silent edit upstream: overwrite the mutable fields with the
			// fresh observation, same id, same dataset position.
			p.Status = types.StatusActive
			next.Put(p)
			outcome.Updated++
		default:
			// Same content. Refresh the observation time; a re-observed
			// posting is active again even if it had gone stale.
			stored.ScrapedDate = p.ScrapedDate
			stored.Status = types.StatusActive
			next.Put(stored)
			outcome.Unchanged++
		}
	}

	if complete {
		for i := range next.Jobs {
			job := next.Jobs[i]
			if job.Source != source || job.Status != types.StatusActive || seen[job.ID] {
				continue
			}
			job.Status = types.StatusStale
			next.Put(job)
			outcome.Retired++
		}
	}

	return next, outcome, nil
}
