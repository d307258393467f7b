package watch

import (
	"strconv"
	"strings"
	"time"

	"watchq/internal/aggregate"
	"watchq/internal/render"
	"watchq/internal/tracker"
)

// GroupBy describes how rows are grouped: the selected cluster attribute,
// plus the DAG redirection data when jobs are regrouped under their DAGs.
type GroupBy struct {
	Key        aggregate.GroupKey
	DAG        bool
	DAGPaths   map[int]string // DAG cluster id → node log path
	BatchNames map[int]string // cluster id → batch label
}

func (g GroupBy) groups(clusters []*tracker.Cluster) map[string][]*tracker.Cluster {
	if g.DAG {
		return aggregate.GroupByDAG(clusters, g.DAGPaths, g.BatchNames)
	}
	return aggregate.Group(clusters, g.Key)
}

// Frame renders the full display block for the current tracker state.
// Everything is recomputed from scratch; the tracker is the only state.
func Frame(t *tracker.Tracker, opts Options, cols, rows int, now time.Time) string {
	groups := opts.GroupBy.groups(t.Clusters())
	aggRows, totals := aggregate.Rows(groups)
	statusCols := aggregate.StatusColumns(aggRows)

	var lines []string

	if opts.Table {
		lines = append(lines, tableLines(aggRows, statusCols, opts, cols)...)
		lines = append(lines, "")
	}

	if opts.ProgressBar {
		lines = append(lines, render.ProgressBar(totals.Counts, totals.Total, cols, opts.Color))
		lines = append(lines, "")
	}

	if opts.Summary {
		if opts.Percentages {
			lines = append(lines, render.SummaryWithPercentages(totals.Counts, totals.Total, cols))
		} else {
			lines = append(lines, render.SummaryWithTotals(totals.Counts, totals.Total, cols))
		}
		lines = append(lines, "")
	}

	if opts.UpdatedAt {
		lines = append(lines, "Updated at "+now.Format(timeFormat), "")
	}

	var frame string
	if rows > 0 && len(lines) > rows {
		// Leave room for the warning itself; a one-row terminal gets
		// nothing but the warning.
		keep := rows - 2
		if keep < 0 {
			keep = 0
		}
		clipped := append(lines[:keep:keep], "Insufficient terminal height to display full output!")
		frame = strings.Join(clipped, "\n")
	} else if len(lines) > 0 {
		// Drop the trailing section separator.
		frame = strings.Join(lines[:len(lines)-1], "\n")
	}

	if !opts.Refresh {
		frame += "\n..."
	}
	if len(opts.Conditions) == 0 {
		frame += "\nInput ^c to exit"
	}
	return frame
}

func tableLines(aggRows []aggregate.Row, statusCols []tracker.JobStatus, opts Options, cols int) []string {
	keyLabel := opts.GroupBy.Key.Label()

	headers := make([]string, 0, len(statusCols)+3)
	headers = append(headers, keyLabel)
	for _, s := range statusCols {
		headers = append(headers, s.String())
	}
	headers = append(headers, aggregate.ColTotal, aggregate.ColActiveJobs)

	tableRows := make([]render.Row, 0, len(aggRows))
	for _, row := range aggRows {
		cells := map[string]string{
			keyLabel:                keyValue(row.Key, opts),
			aggregate.ColTotal:      strconv.Itoa(row.Total),
			aggregate.ColActiveJobs: row.ActiveJobs,
		}
		for _, s := range statusCols {
			if n := row.Counts[s]; n > 0 {
				cells[s.String()] = strconv.Itoa(n)
			}
		}
		tableRows = append(tableRows, render.Row{
			Cells:  cells,
			Counts: row.Counts,
			Total:  row.Total,
		})
	}

	return render.Table(render.TableOptions{
		Headers: headers,
		Rows:    tableRows,
		Fill:    "-",
		Width:   cols,
		Color:   opts.Color,
		RowBars: opts.RowProgress,
	})
}

func keyValue(value string, opts Options) string {
	if opts.GroupBy.Key != aggregate.ByLog || opts.GroupBy.DAG {
		return value
	}
	value = render.NicePath(value)
	if opts.Abbreviate {
		value = render.AbbreviatePath(value)
	}
	return value
}
