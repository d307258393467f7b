// Package discover resolves which job event logs to track by querying the
// schedd, via condor_q, for jobs matching the user's selectors.
package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Filters narrows the schedd query. An explicit file list bypasses the
// query for those paths.
type Filters struct {
	Users      []string
	ClusterIDs []int
	Batches    []string
	Files      []string

	Collector string
	Schedd    string
}

// Empty reports whether no selector was given at all; callers substitute
// the current user in that case.
func (f Filters) Empty() bool {
	return len(f.Users) == 0 && len(f.ClusterIDs) == 0 && len(f.Batches) == 0 && len(f.Files) == 0
}

// jobAd is the subset of the job ad we project out of the queue.
type jobAd struct {
	ClusterID      int    `json:"ClusterId"`
	Owner          string `json:"Owner"`
	UserLog        string `json:"UserLog"`
	DAGManNodesLog string `json:"DAGManNodesLog"`
	JobBatchName   string `json:"JobBatchName"`
	Iwd            string `json:"Iwd"`
	DAGNodesTotal  int    `json:"DAG_NodesTotal"`
}

var projection = []string{
	"ClusterId", "Owner", "UserLog", "DAGManNodesLog", "JobBatchName", "Iwd", "DAG_NodesTotal",
}

// Result is everything the tracker and the grouping layer need.
type Result struct {
	EventLogs  []string
	BatchNames map[int]string // cluster id → batch label hint
	DAGPaths   map[int]string // DAG cluster id → its node log (redirection)
}

// Empty reports whether discovery found nothing to track.
func (r Result) Empty() bool { return len(r.EventLogs) == 0 }

// queryAds is the schedd query seam; tests replace it.
var queryAds = runCondorQ

// CurrentUser is the fallback selector when no filters are given.
func CurrentUser() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// FindJobEventLogs resolves filters into event log paths, batch-name hints,
// and DAG redirections. Query failures are non-fatal: the result shrinks to
// whatever the explicit file list provided and a warning is returned.
func FindJobEventLogs(f Filters) (Result, []string) {
	res := Result{
		BatchNames: make(map[int]string),
		DAGPaths:   make(map[int]string),
	}
	var warnings []string

	seen := make(map[string]bool)
	addLog := func(path string) {
		if !seen[path] {
			seen[path] = true
			res.EventLogs = append(res.EventLogs, path)
		}
	}

	for _, file := range f.Files {
		if abs, err := filepath.Abs(file); err == nil {
			file = abs
		}
		addLog(file)
	}

	constraint := buildConstraint(f)
	if constraint == "" {
		return res, warnings
	}

	ads, err := queryAds(f.Collector, f.Schedd, constraint)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf(
			"Was not able to query to discover job event logs due to: %v", err))
		return res, warnings
	}

	warnedMissing := make(map[int]bool)
	for _, ad := range ads {
		res.BatchNames[ad.ClusterID] = ad.JobBatchName

		logPath := ad.UserLog
		if logPath == "" {
			if !warnedMissing[ad.ClusterID] {
				warnings = append(warnings, fmt.Sprintf(
					"Cluster %d does not have a job event log file (set log=<path> in the submit description)", ad.ClusterID))
				warnedMissing[ad.ClusterID] = true
			}
			continue
		}

		// A DAG node's events are indirected through the DAG's own log.
		if ad.DAGManNodesLog != "" {
			res.DAGPaths[ad.ClusterID] = ad.DAGManNodesLog
			logPath = ad.DAGManNodesLog
		} else if !filepath.IsAbs(logPath) {
			logPath = filepath.Join(ad.Iwd, logPath)
		}
		addLog(logPath)
	}

	return res, warnings
}

func buildConstraint(f Filters) string {
	var terms []string
	for _, u := range f.Users {
		terms = append(terms, fmt.Sprintf("Owner == %s", quoteAdString(u)))
	}
	for _, id := range f.ClusterIDs {
		terms = append(terms, fmt.Sprintf("ClusterId == %d", id))
	}
	for _, b := range f.Batches {
		terms = append(terms, fmt.Sprintf("JobBatchName == %s", quoteAdString(b)))
	}
	return strings.Join(terms, " || ")
}

// quoteAdString quotes a value for a classad expression.
func quoteAdString(s string) string {
	return strconv.Quote(s)
}

func runCondorQ(collector, schedd, constraint string) ([]jobAd, error) {
	args := []string{"-json", "-constraint", constraint, "-attributes", strings.Join(projection, ",")}
	if collector != "" {
		args = append(args, "-pool", collector)
	}
	if schedd != "" {
		args = append(args, "-name", schedd)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "condor_q", args...).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return nil, fmt.Errorf("condor_q: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("condor_q: %w", err)
	}

	// condor_q prints nothing at all for an empty queue.
	if len(strings.TrimSpace(string(out))) == 0 {
		return nil, nil
	}

	var ads []jobAd
	if err := json.Unmarshal(out, &ads); err != nil {
		return nil, fmt.Errorf("parse condor_q output: %w", err)
	}
	return ads, nil
}
