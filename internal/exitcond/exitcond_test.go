package exitcond

import (
	"slices"
	"testing"

	"watchq/internal/tracker"
)

func statuses(ss ...tracker.JobStatus) func(func(tracker.JobStatus) bool) {
	return slices.Values(ss)
}

func TestParseThreeFields(t *testing.T) {
	c, err := Parse("all,done,0")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Grouper != All || c.Check != CheckDone || c.Code != 0 {
		t.Errorf("Parse = %+v", c)
	}
	if c.Display != "all done" {
		t.Errorf("Display = %q, want %q", c.Display, "all done")
	}
}

func TestParseDefaultsCodeToZero(t *testing.T) {
	c, err := Parse("any,held")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Code != 0 {
		t.Errorf("Code = %d, want 0", c.Code)
	}
}

func TestParseNormalizesCase(t *testing.T) {
	c, err := Parse("None,Active,2")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Grouper != None || c.Check != CheckActive || c.Code != 2 {
		t.Errorf("Parse = %+v", c)
	}
	if c.Display != "none active" {
		t.Errorf("Display = %q", c.Display)
	}
}

func TestParseErrors(t *testing.T) {
	for _, spec := range []string{
		"done",            // missing grouper
		"some,done",       // unknown grouper
		"all,finished",    // unknown status
		"all,done,x",      // non-integer code
		"all,done,1,more", // too many fields
		"",
	} {
		if _, err := Parse(spec); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", spec)
		}
	}
}

func TestParseAllStopsAtFirstBadSpec(t *testing.T) {
	conds, err := ParseAll([]string{"all,done", "any,held,1"})
	if err != nil || len(conds) != 2 {
		t.Fatalf("ParseAll = %v, %v", conds, err)
	}

	if _, err := ParseAll([]string{"all,done", "bogus"}); err == nil {
		t.Error("ParseAll should fail on the malformed spec")
	}
}

func TestMetAll(t *testing.T) {
	c := Condition{Grouper: All, Check: CheckDone}

	if !c.Met(statuses(tracker.Completed, tracker.Completed)) {
		t.Error("all done should be met when every job completed")
	}
	if c.Met(statuses(tracker.Completed, tracker.Running)) {
		t.Error("all done must fail with a running job")
	}
	// Vacuously true over an empty set.
	if !c.Met(statuses()) {
		t.Error("all done should hold for zero jobs")
	}
}

func TestMetAny(t *testing.T) {
	c := Condition{Grouper: Any, Check: CheckHeld}

	if !c.Met(statuses(tracker.Running, tracker.Held)) {
		t.Error("any held should trigger on a single held job")
	}
	if c.Met(statuses(tracker.Running, tracker.Idle)) {
		t.Error("any held must not trigger without held jobs")
	}
	if c.Met(statuses()) {
		t.Error("any held must not trigger for zero jobs")
	}
}

func TestMetNone(t *testing.T) {
	c := Condition{Grouper: None, Check: CheckActive}

	if !c.Met(statuses(tracker.Completed, tracker.Removed)) {
		t.Error("none active should hold once every job is terminal")
	}
	if c.Met(statuses(tracker.Completed, tracker.Idle)) {
		t.Error("none active must fail while a job is idle")
	}
}

func TestCheckActiveMatchesNonTerminalStatuses(t *testing.T) {
	c := Condition{Grouper: Any, Check: CheckActive}

	for _, s := range []tracker.JobStatus{
		tracker.Idle, tracker.Running, tracker.Held, tracker.Suspended,
	} {
		if !c.Met(statuses(s)) {
			t.Errorf("status %v should count as active", s)
		}
	}
	for _, s := range []tracker.JobStatus{tracker.Completed, tracker.Removed} {
		if c.Met(statuses(s)) {
			t.Errorf("status %v should not count as active", s)
		}
	}
}

func TestFirstMetPicksEarliestCondition(t *testing.T) {
	conds := []Condition{
		{Grouper: All, Check: CheckDone, Code: 0},
		{Grouper: Any, Check: CheckHeld, Code: 1},
	}

	got, ok := FirstMet(conds, statuses(tracker.Held, tracker.Completed))
	if !ok || got.Code != 1 {
		t.Fatalf("FirstMet = %+v, %v; want the held condition", got, ok)
	}

	got, ok = FirstMet(conds, statuses(tracker.Completed))
	if !ok || got.Code != 0 {
		t.Fatalf("FirstMet = %+v, %v; want the done condition", got, ok)
	}

	if _, ok := FirstMet(conds, statuses(tracker.Running)); ok {
		t.Error("no condition should be met while jobs run")
	}
}
