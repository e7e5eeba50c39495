package types

// DatasetMetadata is the bookkeeping block persisted alongside the postings.
// TotalJobs always equals the number of postings; the store refuses to
// persist a dataset where the two disagree.
type DatasetMetadata struct {
	TotalJobs      int    `json:"total_jobs"`
	NewJobsThisRun int    `json:"new_jobs_this_run"`
	LastUpdated    string `json:"last_updated"`
}

// Dataset is the accumulated collection of postings, keyed by id and ordered
// by first insertion. Jobs and Metadata serialize directly as the on-disk
// file shape; the id index is rebuilt lazily after unmarshalling.
type Dataset struct {
	Jobs     []Posting       `json:"jobs"`
	Metadata DatasetMetadata `json:"metadata"`

	byID map[string]int
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{
		Jobs: []Posting{},
		byID: make(map[string]int),
	}
}

// ensureIndex rebuilds the id index when the dataset was populated by
// unmarshalling rather than through Put.
func (d *Dataset) ensureIndex() {
	if d.byID != nil && len(d.byID) == len(d.Jobs) {
		return
	}
	d.byID = make(map[string]int, len(d.Jobs))
	for i := range d.Jobs {
		d.byID[d.Jobs[i].ID] = i
	}
}

// Len returns the number of postings, active and stale alike.
func (d *Dataset) Len() int {
	return len(d.Jobs)
}

// Get returns the posting with the given id.
func (d *Dataset) Get(id string) (Posting, bool) {
	d.ensureIndex()
	i, ok := d.byID[id]
	if !ok {
		return Posting{}, false
	}
	return d.Jobs[i], true
}

// Has reports whether a posting with the given id exists.
func (d *Dataset) Has(id string) bool {
	d.ensureIndex()
	_, ok := d.byID[id]
	return ok
}

// Put inserts the posting, or replaces the stored one in place when the id
// already exists. Insertion order of first observation is preserved either
// way, and TotalJobs is kept in sync.
func (d *Dataset) Put(p Posting) {
	d.ensureIndex()
	if i, ok := d.byID[p.ID]; ok {
		d.Jobs[i] = p
	} else {
		d.byID[p.ID] = len(d.Jobs)
		d.Jobs = append(d.Jobs, p)
	}
	d.Metadata.TotalJobs = len(d.Jobs)
}

// Remove deletes the posting with the given id, preserving the order of the
// remaining postings. Reconciliation never calls this; it exists for the
// explicit prune maintenance path.
func (d *Dataset) Remove(id string) bool {
	d.ensureIndex()
	i, ok := d.byID[id]
	if !ok {
		return false
	}
	d.Jobs = append(d.Jobs[:i], d.Jobs[i+1:]...)
	d.byID = nil
	d.ensureIndex()
	d.Metadata.TotalJobs = len(d.Jobs)
	return true
}

// Clone returns an independent deep copy. Reconciliation works on a clone so
// a failed commit leaves the caller's dataset untouched.
func (d *Dataset) Clone() *Dataset {
	c := NewDataset()
	c.Jobs = make([]Posting, len(d.Jobs))
	copy(c.Jobs, d.Jobs)
	c.Metadata = d.Metadata
	for i := range c.Jobs {
		c.byID[c.Jobs[i].ID] = i
	}
	return c
}

// CountByStatus returns how many postings currently carry the given status.
func (d *Dataset) CountByStatus(status string) int {
	n := 0
	for i := range d.Jobs {
		if d.Jobs[i].Status == status {
			n++
		}
	}
	return n
}
