package tracker

import (
	"fmt"
	"iter"
	"sort"

	"watchq/internal/eventlog"
)

// Cluster holds the job states for a single submission.
type Cluster struct {
	ID           int
	EventLogPath string

	batchName string
	jobs      map[int]JobStatus
}

// NewCluster builds an empty cluster record. batchName may be empty, in
// which case a synthesized label is used.
func NewCluster(id int, eventLogPath, batchName string) *Cluster {
	return &Cluster{
		ID:           id,
		EventLogPath: eventLogPath,
		batchName:    batchName,
		jobs:         make(map[int]JobStatus),
	}
}

// BatchName returns the batch label, synthesizing one when the cluster was
// never seen in the queue.
func (c *Cluster) BatchName() string {
	if c.batchName != "" {
		return c.batchName
	}
	return fmt.Sprintf("ID: %d", c.ID)
}

// SetJob records the current status for a proc, overwriting any prior one.
func (c *Cluster) SetJob(proc int, status JobStatus) {
	c.jobs[proc] = status
}

// Jobs returns the proc→status map. Callers must not mutate it.
func (c *Cluster) Jobs() map[int]JobStatus { return c.jobs }

// Tracker maintains job state across many event logs. It is single-consumer:
// the poll loop is the only mutator and reader, so no locking is needed.
type Tracker struct {
	cursors    map[string]*eventlog.Cursor
	clusters   map[int]*Cluster
	batchNames map[int]string
}

// New opens a cursor per event log. A log that cannot be opened is dropped
// from polling; one diagnostic per dropped log is returned.
func New(paths []string, batchNames map[int]string) (*Tracker, []string) {
	if batchNames == nil {
		batchNames = map[int]string{}
	}
	t := &Tracker{
		cursors:    make(map[string]*eventlog.Cursor, len(paths)),
		clusters:   make(map[int]*Cluster),
		batchNames: batchNames,
	}

	var warnings []string
	for _, path := range paths {
		cur, err := eventlog.Open(path, 0)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf(
				"Could not open event log at %s for reading, so it will be ignored. Reason: %v", path, err))
			continue
		}
		t.cursors[path] = cur
	}
	return t, warnings
}

// ProcessPendingEvents drains every currently-available event from every
// open log and applies the status transitions. Unparseable events are
// skipped and reported as diagnostics; the logs stay open.
func (t *Tracker) ProcessPendingEvents() []string {
	var messages []string

	for _, path := range t.sourcePaths() {
		cur := t.cursors[path]
		for {
			ev, ok, err := cur.Next()
			if err != nil {
				messages = append(messages, fmt.Sprintf(
					"ERROR: Failed to parse event from %s. Reason: %v", path, err))
				continue
			}
			if !ok {
				break
			}
			t.apply(ev)
		}
	}
	return messages
}

func (t *Tracker) apply(ev eventlog.Event) {
	status, ok := StatusForEvent(ev.Kind)
	if !ok {
		return
	}

	cluster := t.clusters[ev.Cluster]
	if cluster == nil {
		cluster = NewCluster(ev.Cluster, ev.Path, t.batchNames[ev.Cluster])
		t.clusters[ev.Cluster] = cluster
	}
	cluster.SetJob(ev.Proc, status)
}

// Clusters returns all clusters seen so far, ordered by cluster id.
func (t *Tracker) Clusters() []*Cluster {
	out := make([]*Cluster, 0, len(t.clusters))
	for _, c := range t.clusters {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SourceCount reports how many event logs are still being polled.
func (t *Tracker) SourceCount() int { return len(t.cursors) }

// JobStatuses yields the current status of every tracked job. The sequence
// is produced lazily from live state, so each traversal sees the latest
// snapshot.
func (t *Tracker) JobStatuses() iter.Seq[JobStatus] {
	return func(yield func(JobStatus) bool) {
		for _, c := range t.clusters {
			for _, s := range c.jobs {
				if !yield(s) {
					return
				}
			}
		}
	}
}

// Close releases all open cursors.
func (t *Tracker) Close() {
	for _, cur := range t.cursors {
		cur.Close()
	}
}

// sourcePaths returns cursor keys in a stable order so events from one log
// are always applied in sequence and ticks are deterministic.
func (t *Tracker) sourcePaths() []string {
	paths := make([]string, 0, len(t.cursors))
	for p := range t.cursors {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
