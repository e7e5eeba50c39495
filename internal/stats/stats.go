// Package stats derives reporting and maintenance views from the dataset.
package stats

import (
	"sort"
	"time"

	"github.com/jonathan/job-tracker/internal/timeutil"
	"github.com/jonathan/job-tracker/internal/types"
)

// Count is one bucket in a grouped tally.
type Count struct {
	Key string
	N   int
}

// Statistics summarizes the dataset for the stats command.
type Statistics struct {
	Total      int
	Active     int
	Stale      int
	ByCompany  []Count
	ByLocation []Count
	BySource   []Count
}

// Compute tallies the dataset. Group slices are sorted by descending count
// with ties broken by key, so output is stable across invocations.
func Compute(ds *types.Dataset) Statistics {
	s := Statistics{Total: ds.Len()}

	company := make(map[string]int)
	location := make(map[string]int)
	source := make(map[string]int)

	for i := range ds.Jobs {
		p := &ds.Jobs[i]
		switch p.Status {
		case types.StatusActive:
			s.Active++
		case types.StatusStale:
			s.Stale++
		}
		company[p.Company]++
		location[p.Location]++
		source[p.Source]++
	}

	s.ByCompany = sortedCounts(company)
	s.ByLocation = sortedCounts(location)
	s.BySource = sortedCounts(source)
	return s
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, n := range m {
		out = append(out, Count{Key: k, N: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// DuplicateGroups returns the ids of postings that share a content
// fingerprint, grouped, in dataset order. These are near-duplicates across
// sources or URLs; they are reported, never merged.
func DuplicateGroups(ds *types.Dataset) [][]string {
	byPrint := make(map[string][]string)
	var order []string

	for i := range ds.Jobs {
		p := &ds.Jobs[i]
		if p.Fingerprint == "" {
			continue
		}
		if _, ok := byPrint[p.Fingerprint]; !ok {
			order = append(order, p.Fingerprint)
		}
		byPrint[p.Fingerprint] = append(byPrint[p.Fingerprint], p.ID)
	}

	var groups [][]string
	for _, fp := range order {
		if ids := byPrint[fp]; len(ids) > 1 {
			groups = append(groups, ids)
		}
	}
	return groups
}

// PruneStale removes stale postings last observed before the threshold and
// reports how many were dropped. Reconciliation never deletes; this is the
// one deliberate deletion path, and the operator invokes it.
func PruneStale(ds *types.Dataset, olderThanDays int, now time.Time) int {
	cutoff := now.AddDate(0, 0, -olderThanDays)

	var drop []string
	for i := range ds.Jobs {
		p := &ds.Jobs[i]
		if !p.IsStale() {
			continue
		}
		seen, err := timeutil.Parse(p.ScrapedDate)
		if err != nil {
			// Prune only what is provably old; unreadable timestamps keep
			// the posting.
			continue
		}
		if seen.Before(cutoff) {
			drop = append(drop, p.ID)
		}
	}

	for _, id := range drop {
		ds.Remove(id)
	}
	return len(drop)
}
