// Package aggregate turns tracked cluster state into grouped display rows.
// Everything here is recomputed from scratch each tick; nothing is cached.
package aggregate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"watchq/internal/tracker"
)

// GroupKey selects which cluster attribute rows are grouped by.
type GroupKey int

const (
	ByBatch GroupKey = iota
	ByLog
	ByCluster
)

// ParseGroupKey maps the CLI spelling to a key.
func ParseGroupKey(s string) (GroupKey, error) {
	switch s {
	case "batch":
		return ByBatch, nil
	case "log":
		return ByLog, nil
	case "cluster":
		return ByCluster, nil
	}
	return 0, fmt.Errorf("invalid groupby %q, must be one of batch, log, cluster", s)
}

// Label is the table header for the group-key column.
func (k GroupKey) Label() string {
	switch k {
	case ByLog:
		return "LOG"
	case ByCluster:
		return "CLUSTER"
	default:
		return "BATCH"
	}
}

func (k GroupKey) valueOf(c *tracker.Cluster) string {
	switch k {
	case ByLog:
		return c.EventLogPath
	case ByCluster:
		return strconv.Itoa(c.ID)
	default:
		return c.BatchName()
	}
}

// Pseudo-columns rendered alongside the status counts.
const (
	ColTotal      = "TOTAL"
	ColActiveJobs = "JOB_IDS"
)

// Row is the aggregated display data for one group.
type Row struct {
	Key        string // raw group-key value; display formatting is the caller's
	Counts     map[tracker.JobStatus]int
	Total      int
	ActiveJobs string
	MinCluster int // smallest cluster id in the group; drives row ordering
}

// Totals is the elementwise sum across all rows, computed before pruning.
type Totals struct {
	Counts map[tracker.JobStatus]int
	Total  int
}

// Count is nil-safe for callers holding a zero Totals.
func (t Totals) Count(s tracker.JobStatus) int {
	if t.Counts == nil {
		return 0
	}
	return t.Counts[s]
}

// Group partitions clusters by the key's value.
func Group(clusters []*tracker.Cluster, key GroupKey) map[string][]*tracker.Cluster {
	groups := make(map[string][]*tracker.Cluster)
	for _, c := range clusters {
		v := key.valueOf(c)
		groups[v] = append(groups[v], c)
	}
	return groups
}

// GroupByDAG regroups clusters under the batch name of the DAG whose node
// log they share. dagPaths maps a DAG's cluster id to its node log path;
// batchNames maps cluster ids to batch labels. The redirected lookup takes
// priority over direct batch grouping: clusters without a matching node log
// are left out entirely.
func GroupByDAG(clusters []*tracker.Cluster, dagPaths map[int]string, batchNames map[int]string) map[string][]*tracker.Cluster {
	pathToDAG := make(map[string]int, len(dagPaths))
	for id, path := range dagPaths {
		pathToDAG[path] = id
	}

	groups := make(map[string][]*tracker.Cluster)
	for _, c := range clusters {
		dagID, ok := pathToDAG[c.EventLogPath]
		if !ok {
			continue
		}
		name := batchNames[dagID]
		if name == "" {
			name = fmt.Sprintf("ID: %d", dagID)
		}
		groups[name] = append(groups[name], c)
	}
	return groups
}

// Rows builds one row per group plus the running totals. Rows come back
// sorted ascending by the smallest cluster id they contain, which tracks
// submission order rather than group-key collation.
func Rows(groups map[string][]*tracker.Cluster) ([]Row, Totals) {
	totals := Totals{Counts: make(map[tracker.JobStatus]int)}
	rows := make([]Row, 0, len(groups))

	for value, clusters := range groups {
		row := rowFromClusters(value, clusters)
		for s, n := range row.Counts {
			totals.Counts[s] += n
		}
		totals.Total += row.Total
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].MinCluster < rows[j].MinCluster })
	return rows, totals
}

func rowFromClusters(value string, clusters []*tracker.Cluster) Row {
	row := Row{Key: value, Counts: make(map[tracker.JobStatus]int)}

	type jobID struct{ cluster, proc int }
	var active []jobID

	first := true
	for _, c := range clusters {
		if first || c.ID < row.MinCluster {
			row.MinCluster = c.ID
			first = false
		}
		for proc, status := range c.Jobs() {
			row.Counts[status]++
			row.Total++
			if status.Active() {
				active = append(active, jobID{c.ID, proc})
			}
		}
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].cluster != active[j].cluster {
			return active[i].cluster < active[j].cluster
		}
		return active[i].proc < active[j].proc
	})

	ids := make([]string, len(active))
	for i, a := range active {
		ids[i] = fmt.Sprintf("%d.%d", a.cluster, a.proc)
	}
	if len(ids) > 2 {
		row.ActiveJobs = ids[0] + " ... " + ids[len(ids)-1]
	} else {
		row.ActiveJobs = strings.Join(ids, ", ")
	}
	return row
}

// alwaysShown are the status columns kept even when zero everywhere.
var alwaysShown = map[tracker.JobStatus]bool{
	tracker.Idle:      true,
	tracker.Running:   true,
	tracker.Completed: true,
}

// StatusColumns returns the status columns to display, in fixed order,
// pruning columns that are zero in every row unless always shown.
func StatusColumns(rows []Row) []tracker.JobStatus {
	var out []tracker.JobStatus
	for _, s := range tracker.StatusesOrdered {
		if alwaysShown[s] {
			out = append(out, s)
			continue
		}
		for _, row := range rows {
			if row.Counts[s] > 0 {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
