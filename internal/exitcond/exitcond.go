// Package exitcond parses and evaluates the -exit termination conditions.
package exitcond

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"watchq/internal/tracker"
)

// Grouper combines per-job checks into one verdict.
type Grouper int

const (
	All Grouper = iota
	Any
	None
)

var grouperNames = map[string]Grouper{"all": All, "any": Any, "none": None}

// Check is the per-job status predicate.
type Check int

const (
	CheckActive Check = iota
	CheckDone
	CheckIdle
	CheckHeld
)

var checkNames = map[string]Check{
	"active": CheckActive,
	"done":   CheckDone,
	"idle":   CheckIdle,
	"held":   CheckHeld,
}

func (c Check) matches(s tracker.JobStatus) bool {
	switch c {
	case CheckActive:
		return s.Active()
	case CheckDone:
		return s == tracker.Completed
	case CheckIdle:
		return s == tracker.Idle
	case CheckHeld:
		return s == tracker.Held
	}
	return false
}

// Condition is one parsed exit specification.
type Condition struct {
	Grouper Grouper
	Check   Check
	Code    int
	Display string // "any held" form for the exit announcement
}

// Parse accepts "grouper,status[,code]". Malformed specifications are
// configuration errors: the caller must reject them before the watch loop
// starts.
func Parse(spec string) (Condition, error) {
	fields := strings.Split(spec, ",")

	var grouper, status, code string
	switch len(fields) {
	case 3:
		grouper, status, code = fields[0], fields[1], fields[2]
	case 2:
		grouper, status, code = fields[0], fields[1], "0"
	default:
		return Condition{}, fmt.Errorf("invalid exit specification %q", spec)
	}

	g, ok := grouperNames[strings.ToLower(grouper)]
	if !ok {
		return Condition{}, fmt.Errorf("invalid grouper %q, must be one of all, any, none", grouper)
	}
	c, ok := checkNames[strings.ToLower(status)]
	if !ok {
		return Condition{}, fmt.Errorf("invalid job status %q, must be one of active, done, idle, held", status)
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return Condition{}, fmt.Errorf("exit status must be an integer, but was %q", code)
	}

	return Condition{
		Grouper: g,
		Check:   c,
		Code:    n,
		Display: fmt.Sprintf("%s %s", strings.ToLower(grouper), strings.ToLower(status)),
	}, nil
}

// ParseAll parses every specification, failing on the first bad one.
func ParseAll(specs []string) ([]Condition, error) {
	conds := make([]Condition, 0, len(specs))
	for _, spec := range specs {
		c, err := Parse(spec)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	return conds, nil
}

// Met evaluates the condition against the current job statuses.
func (c Condition) Met(statuses iter.Seq[tracker.JobStatus]) bool {
	switch c.Grouper {
	case All:
		for s := range statuses {
			if !c.Check.matches(s) {
				return false
			}
		}
		return true
	case Any:
		for s := range statuses {
			if c.Check.matches(s) {
				return true
			}
		}
		return false
	default: // None
		for s := range statuses {
			if c.Check.matches(s) {
				return false
			}
		}
		return true
	}
}

// FirstMet returns the first satisfied condition, if any.
func FirstMet(conds []Condition, statuses iter.Seq[tracker.JobStatus]) (Condition, bool) {
	for _, c := range conds {
		if c.Met(statuses) {
			return c, true
		}
	}
	return Condition{}, false
}
