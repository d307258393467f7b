// Package watch drives the poll loop: drain events, aggregate, render,
// evaluate exit conditions, sleep.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"watchq/internal/exitcond"
	"watchq/internal/tracker"
)

const timeFormat = "2006-01-02 15:04:05"

// Options configures one watch run.
type Options struct {
	GroupBy    GroupBy
	Conditions []exitcond.Condition
	Interval   time.Duration

	Table       bool
	ProgressBar bool
	RowProgress bool
	Summary     bool
	Percentages bool // summary shows percentages instead of totals
	UpdatedAt   bool
	Color       bool
	Refresh     bool
	Abbreviate  bool

	Out io.Writer
	Err io.Writer

	// TermSize reports (columns, rows); replaced in tests.
	TermSize func() (int, int)
}

func (o Options) withDefaults() Options {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.Interval <= 0 {
		o.Interval = 2 * time.Second
	}
	if o.TermSize == nil {
		o.TermSize = TerminalSize
	}
	return o
}

// TerminalSize probes stdout for its dimensions, falling back to 80x24.
func TerminalSize() (int, int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}

// Run executes the tick loop until an exit condition fires or the context
// is cancelled. It returns the process exit code.
func Run(ctx context.Context, t *tracker.Tracker, opts Options) (int, error) {
	opts = opts.withDefaults()

	const notice = "Processing new events..."
	prev := ""

	for {
		if opts.Refresh {
			fmt.Fprint(opts.Out, notice)
		}

		diagnostics := t.ProcessPendingEvents()
		now := time.Now()
		cols, rows := opts.TermSize()
		frame := Frame(t, opts, cols, rows, now)

		if opts.Refresh {
			fmt.Fprint(opts.Out, "\r"+strings.Repeat(" ", len(notice))+"\r")
		}
		if prev != "" && opts.Refresh {
			eraseBlock(opts.Out, prev)
		}
		prev = frame

		// Diagnostics go to stderr so they never disturb the redraw math.
		for _, msg := range diagnostics {
			fmt.Fprintf(opts.Err, "%s | %s\n", now.Format(timeFormat), msg)
		}

		fmt.Fprintln(opts.Out, frame)

		if cond, ok := exitcond.FirstMet(opts.Conditions, t.JobStatuses()); ok {
			fmt.Fprintf(opts.Out, "Exiting with code %d because of condition %q at %s\n",
				cond.Code, cond.Display, now.Format(timeFormat))
			return cond.Code, nil
		}

		select {
		case <-ctx.Done():
			return 0, nil
		case <-time.After(opts.Interval):
		}
	}
}

// eraseBlock moves the cursor to the top of the previously printed block
// and overwrites it with blanks, leaving the cursor back at the top.
func eraseBlock(w io.Writer, prev string) {
	lines := strings.Split(prev, "\n")
	blanks := make([]string, len(lines))
	for i, line := range lines {
		blanks[i] = strings.Repeat(" ", lipgloss.Width(line))
	}
	move := fmt.Sprintf("\033[%dA\r", len(lines))
	fmt.Fprint(w, move+strings.Join(blanks, "\n")+"\n"+move)
}
