package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"watchq/internal/tracker"
)

type alignment int

const (
	alignCenter alignment = iota
	alignLeft
	alignRight
)

// Columns holding free-form text are left-aligned; counts are right-aligned.
// Anything unrecognized centers.
var columnAlignment = map[string]alignment{
	"LOG":     alignLeft,
	"CLUSTER": alignLeft,
	"BATCH":   alignLeft,
	"JOB_IDS": alignLeft,
	"TOTAL":   alignRight,
}

func alignmentFor(header string) alignment {
	if a, ok := columnAlignment[header]; ok {
		return a
	}
	for _, s := range tracker.StatusesOrdered {
		if header == s.String() {
			return alignRight
		}
	}
	return alignCenter
}

// Row is one table line: formatted cells plus the raw counts that drive the
// row color and the optional per-row bar.
type Row struct {
	Cells  map[string]string
	Counts map[tracker.JobStatus]int
	Total  int
}

// TableOptions configures one table rendering pass.
type TableOptions struct {
	Headers []string
	Rows    []Row
	Fill    string // placeholder for empty cells
	Width   int    // terminal columns
	Color   bool
	RowBars bool // append a miniature progress bar per row when space allows
}

// Table renders the header line plus one line per row, fitted to the
// terminal width.
func Table(opts TableOptions) []string {
	headers := opts.Headers
	widths := make([]int, len(headers))
	aligns := make([]alignment, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
		aligns[i] = alignmentFor(h)
	}

	// Cells carry one space of trailing padding, as the column widths do
	// in the width calculation below.
	cells := make([][]string, len(opts.Rows))
	for ri, row := range opts.Rows {
		cells[ri] = make([]string, len(headers))
		for ci, h := range headers {
			v, ok := row.Cells[h]
			if !ok {
				v = opts.Fill
			}
			cells[ri][ci] = v + " "
			if len(cells[ri][ci]) > widths[ci] {
				widths[ci] = len(cells[ri][ci])
			}
		}
	}

	headerCells := make([]string, len(headers))
	for i, h := range headers {
		headerCells[i] = pad(h, widths[i], aligns[i])
	}
	header := strings.TrimRight(strings.Join(headerCells, "  "), " ")

	lines := make([]string, len(opts.Rows))
	for ri, row := range opts.Rows {
		padded := make([]string, len(headers))
		for ci := range headers {
			padded[ci] = pad(cells[ri][ci], widths[ci], aligns[ci])
		}
		line := strings.Join(padded, "  ")
		if opts.Color {
			line = rowStyle(row.Counts, row.Total).Render(line)
		}
		lines[ri] = line
	}

	remaining := 0
	if len(lines) > 0 {
		remaining = opts.Width - lipgloss.Width(lines[0])
	}

	out := make([]string, 0, len(lines)+1)
	if opts.RowBars && remaining > 10 {
		out = append(out, header)
		for ri, line := range lines {
			row := opts.Rows[ri]
			bar := ProgressBar(row.Counts, row.Total, remaining, opts.Color)
			out = append(out, line+bar)
		}
		return out
	}

	out = append(out, clip(header, opts.Width))
	for _, line := range lines {
		out = append(out, clip(line, opts.Width))
	}
	return out
}

func pad(s string, width int, a alignment) string {
	gap := width - len(s)
	if gap <= 0 {
		return s
	}
	switch a {
	case alignLeft:
		return s + strings.Repeat(" ", gap)
	case alignRight:
		return strings.Repeat(" ", gap) + s
	default:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	}
}

// clip shortens a line to the terminal width without cutting through
// escape sequences.
func clip(line string, width int) string {
	if width <= 0 || lipgloss.Width(line) <= width {
		return line
	}
	return truncate.String(line, uint(width))
}
