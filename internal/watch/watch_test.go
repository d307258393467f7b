package watch

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"watchq/internal/aggregate"
	"watchq/internal/eventlog"
	"watchq/internal/exitcond"
)

func fakeTerm(cols, rows int) func() (int, int) {
	return func() (int, int) { return cols, rows }
}

func TestRunExitsWhenConditionMet(t *testing.T) {
	dir := t.TempDir()
	log := writeLog(t, dir, "events.log",
		eventBlock(eventlog.Submit, 1, 0),
		eventBlock(eventlog.JobHeld, 1, 0),
	)
	tr := newTracker(t, log)

	var out, errOut bytes.Buffer
	code, err := Run(context.Background(), tr, Options{
		GroupBy:    GroupBy{Key: aggregate.ByBatch},
		Conditions: []exitcond.Condition{{Grouper: exitcond.Any, Check: exitcond.CheckHeld, Code: 1, Display: "any held"}},
		Interval:   time.Millisecond,
		Table:      true,
		Summary:    true,
		TermSize:   fakeTerm(120, 40),
		Out:        &out,
		Err:        &errOut,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out.String(), `Exiting with code 1 because of condition "any held"`) {
		t.Errorf("missing exit announcement:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "1 held") {
		t.Errorf("final frame should show the held job:\n%s", out.String())
	}
}

func TestRunReturnsZeroOnCancel(t *testing.T) {
	dir := t.TempDir()
	log := writeLog(t, dir, "events.log", eventBlock(eventlog.Submit, 1, 0))
	tr := newTracker(t, log)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	code, err := Run(ctx, tr, Options{
		GroupBy:    GroupBy{Key: aggregate.ByBatch},
		Conditions: []exitcond.Condition{{Grouper: exitcond.All, Check: exitcond.CheckDone, Code: 3, Display: "all done"}},
		Interval:   time.Hour,
		Summary:    true,
		TermSize:   fakeTerm(120, 40),
		Out:        &out,
		Err:        &out,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0 on cancellation", code)
	}
	// The cancelled run still rendered at least one frame.
	if !strings.Contains(out.String(), "Total: 1 jobs") {
		t.Errorf("no frame rendered before exit:\n%s", out.String())
	}
}

func TestRunTicksUntilConditionMet(t *testing.T) {
	dir := t.TempDir()
	log := writeLog(t, dir, "events.log", eventBlock(eventlog.Submit, 1, 0))
	tr := newTracker(t, log)

	// Terminate the job from a second goroutine after the first tick has
	// certainly rendered; Run picks the new event up on a later tick.
	go func() {
		time.Sleep(20 * time.Millisecond)
		f, err := os.OpenFile(log, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return
		}
		defer f.Close()
		f.WriteString(eventBlock(eventlog.JobTerminated, 1, 0))
	}()

	var out bytes.Buffer
	code, err := Run(context.Background(), tr, Options{
		GroupBy:    GroupBy{Key: aggregate.ByBatch},
		Conditions: []exitcond.Condition{{Grouper: exitcond.All, Check: exitcond.CheckDone, Code: 0, Display: "all done"}},
		Interval:   5 * time.Millisecond,
		Summary:    true,
		Refresh:    true,
		TermSize:   fakeTerm(120, 40),
		Out:        &out,
		Err:        &out,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out.String(), "1 completed") {
		t.Errorf("final frame should show the completed job:\n%s", out.String())
	}
}

func TestRunReportsDiagnosticsOnStderr(t *testing.T) {
	dir := t.TempDir()
	log := writeLog(t, dir, "events.log",
		"garbage that is not an event\n...\n",
		eventBlock(eventlog.Submit, 1, 0),
		eventBlock(eventlog.JobTerminated, 1, 0),
	)
	tr := newTracker(t, log)

	var out, errOut bytes.Buffer
	_, err := Run(context.Background(), tr, Options{
		GroupBy:    GroupBy{Key: aggregate.ByBatch},
		Conditions: []exitcond.Condition{{Grouper: exitcond.All, Check: exitcond.CheckDone, Display: "all done"}},
		Interval:   time.Millisecond,
		Summary:    true,
		TermSize:   fakeTerm(120, 40),
		Out:        &out,
		Err:        &errOut,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(errOut.String(), "Failed to parse event") {
		t.Errorf("malformed block should surface on stderr:\n%s", errOut.String())
	}
	if strings.Contains(out.String(), "Failed to parse event") {
		t.Errorf("diagnostics must not land on stdout:\n%s", out.String())
	}
}

func TestEraseBlockRewindsCursor(t *testing.T) {
	var buf bytes.Buffer
	eraseBlock(&buf, "abc\nde")

	got := buf.String()
	want := "\033[2A\r" + "   \n  " + "\n" + "\033[2A\r"
	if got != want {
		t.Errorf("eraseBlock output = %q, want %q", got, want)
	}
}

func TestTerminalSizeFallsBack(t *testing.T) {
	// Under go test stdout is a pipe, so probing fails and the 80x24
	// fallback applies.
	cols, rows := TerminalSize()
	if cols <= 0 || rows <= 0 {
		t.Errorf("TerminalSize = %d x %d", cols, rows)
	}
}
