package tracker

import "watchq/internal/eventlog"

// JobStatus is the queue-side state of a single job.
type JobStatus int

const (
	Idle JobStatus = iota
	Running
	TransferringOutput
	Held
	Suspended
	Completed
	Removed
)

var statusNames = map[JobStatus]string{
	Idle:               "IDLE",
	Running:            "RUN",
	TransferringOutput: "TRANSFERRING_OUTPUT",
	Held:               "HELD",
	Suspended:          "SUSPENDED",
	Completed:          "DONE",
	Removed:            "REMOVED",
}

func (s JobStatus) String() string { return statusNames[s] }

// Word returns the long lowercase form used in summary lines.
func (s JobStatus) Word() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case TransferringOutput:
		return "transferring"
	case Held:
		return "held"
	case Suspended:
		return "suspended"
	case Completed:
		return "completed"
	case Removed:
		return "removed"
	}
	return ""
}

// StatusesOrdered is the fixed display ordering for status columns.
var StatusesOrdered = []JobStatus{Removed, Held, Suspended, Idle, Running, TransferringOutput, Completed}

// ActiveStatuses are the states in which a job still occupies a queue slot.
var ActiveStatuses = map[JobStatus]bool{
	Idle:               true,
	Running:            true,
	TransferringOutput: true,
	Held:               true,
	Suspended:          true,
}

// Active reports whether the job is still in the queue.
func (s JobStatus) Active() bool { return ActiveStatuses[s] }

// transitions maps event kinds to the status a job enters on that event.
// Kinds absent from the table are informational and leave state untouched.
// No legality checking: the log is authoritative and later events win.
var transitions = map[eventlog.EventKind]JobStatus{
	eventlog.Submit:             Idle,
	eventlog.JobEvicted:         Idle,
	eventlog.JobUnsuspended:     Idle,
	eventlog.JobReleased:        Idle,
	eventlog.ShadowException:    Idle,
	eventlog.JobReconnectFailed: Idle,
	eventlog.Execute:            Running,
	eventlog.JobHeld:            Held,
	eventlog.JobSuspended:       Suspended,
	eventlog.JobTerminated:      Completed,
	eventlog.JobAborted:         Removed,
}

// StatusForEvent looks up the transition table.
func StatusForEvent(kind eventlog.EventKind) (JobStatus, bool) {
	s, ok := transitions[kind]
	return s, ok
}
