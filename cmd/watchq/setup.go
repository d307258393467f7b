package main

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"watchq/internal/aggregate"
	"watchq/internal/config"
	"watchq/internal/discover"
	"watchq/internal/exitcond"
	"watchq/internal/tracker"
	"watchq/internal/watch"
)

// setup validates configuration, discovers event logs, and builds the
// tracker plus the watch options. ok is false when there is nothing to
// track, which is a clean zero exit.
func setup() (*tracker.Tracker, watch.Options, bool, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, watch.Options{}, false, err
	}

	groupBy := cfg.GroupBy
	if flagGroupBy != "" {
		groupBy = flagGroupBy
	}
	groupKey, err := aggregate.ParseGroupKey(groupBy)
	if err != nil {
		return nil, watch.Options{}, false, err
	}

	summaryType := cfg.SummaryType
	if flagSummaryType != "" {
		summaryType = flagSummaryType
	}
	if summaryType != "totals" && summaryType != "percentages" {
		return nil, watch.Options{}, false, fmt.Errorf("invalid summary-type %q, must be totals or percentages", summaryType)
	}

	// Malformed exit conditions are fatal before the loop ever starts.
	conditions, err := exitcond.ParseAll(flagExit)
	if err != nil {
		return nil, watch.Options{}, false, err
	}

	filters := discover.Filters{
		Users:      flagUsers,
		ClusterIDs: flagClusters,
		Batches:    flagBatches,
		Files:      flagFiles,
		Collector:  flagCollector,
		Schedd:     flagSchedd,
	}
	if filters.Empty() {
		me, err := discover.CurrentUser()
		if err != nil {
			return nil, watch.Options{}, false, fmt.Errorf("determine current user: %w", err)
		}
		filters.Users = []string{me}
	}

	result, warnings := discoverWithSpinner(filters)
	for _, w := range warnings {
		warning(w)
	}

	if result.Empty() {
		warning("No jobs found, exiting...")
		return nil, watch.Options{}, false, nil
	}

	tr, trackerWarnings := tracker.New(result.EventLogs, result.BatchNames)
	for _, w := range trackerWarnings {
		warning(w)
	}
	if tr.SourceCount() == 0 {
		tr.Close()
		warning("No readable event logs, exiting...")
		return nil, watch.Options{}, false, nil
	}

	opts := watch.Options{
		GroupBy: watch.GroupBy{
			Key:        groupKey,
			DAG:        flagDag,
			DAGPaths:   result.DAGPaths,
			BatchNames: result.BatchNames,
		},
		Conditions:  conditions,
		Interval:    cfg.RefreshInterval,
		Table:       flagTable,
		ProgressBar: flagProgress,
		RowProgress: flagRowProgress,
		Summary:     flagSummary,
		Percentages: summaryType == "percentages",
		UpdatedAt:   flagUpdatedAt,
		Color:       flagColor,
		Refresh:     flagRefresh,
		Abbreviate:  flagAbbreviate,
	}
	return tr, opts, true, nil
}

// discoverWithSpinner runs the schedd query behind a spinner when stdout is
// a terminal, since a busy schedd can take a while to answer.
func discoverWithSpinner(filters discover.Filters) (discover.Result, []string) {
	if !stdoutIsTTY {
		return discover.FindJobEventLogs(filters)
	}

	sp := spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(os.Stdout))
	sp.Suffix = " Querying the schedd for jobs..."
	sp.Start()
	defer sp.Stop()
	return discover.FindJobEventLogs(filters)
}

func warning(msg string) {
	fmt.Fprintf(os.Stderr, "WARNING: %s\n", msg)
}
