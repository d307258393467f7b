package eventlog

import (
	"fmt"
	"time"
)

// EventKind is the numeric event code from a job event log. The set is
// closed: codes map one-to-one onto the scheduler's user-log event types.
type EventKind int

const (
	Submit             EventKind = 0
	Execute            EventKind = 1
	ExecutableError    EventKind = 2
	Checkpointed       EventKind = 3
	JobEvicted         EventKind = 4
	JobTerminated      EventKind = 5
	ImageSize          EventKind = 6
	ShadowException    EventKind = 7
	Generic            EventKind = 8
	JobAborted         EventKind = 9
	JobSuspended       EventKind = 10
	JobUnsuspended     EventKind = 11
	JobHeld            EventKind = 12
	JobReleased        EventKind = 13
	NodeExecute        EventKind = 14
	NodeTerminated     EventKind = 15
	PostScript         EventKind = 16
	GlobusSubmit       EventKind = 17
	GlobusSubmitFailed EventKind = 18
	GlobusResourceUp   EventKind = 19
	GlobusResourceDown EventKind = 20
	RemoteError        EventKind = 21
	JobDisconnected    EventKind = 22
	JobReconnected     EventKind = 23
	JobReconnectFailed EventKind = 24
	GridResourceUp     EventKind = 25
	GridResourceDown   EventKind = 26
	GridSubmit         EventKind = 27
	JobAdInformation   EventKind = 28
	JobStatusUnknown   EventKind = 29
	JobStatusKnown     EventKind = 30
	JobStageIn         EventKind = 31
	JobStageOut        EventKind = 32
	AttributeUpdate    EventKind = 33
	PreSkip            EventKind = 34
	ClusterSubmit      EventKind = 35
	ClusterRemove      EventKind = 36
	FactoryPaused      EventKind = 37
	FactoryResumed     EventKind = 38
	FileTransfer       EventKind = 40
)

var kindNames = map[EventKind]string{
	Submit:             "SUBMIT",
	Execute:            "EXECUTE",
	ExecutableError:    "EXECUTABLE_ERROR",
	Checkpointed:       "CHECKPOINTED",
	JobEvicted:         "JOB_EVICTED",
	JobTerminated:      "JOB_TERMINATED",
	ImageSize:          "IMAGE_SIZE",
	ShadowException:    "SHADOW_EXCEPTION",
	Generic:            "GENERIC",
	JobAborted:         "JOB_ABORTED",
	JobSuspended:       "JOB_SUSPENDED",
	JobUnsuspended:     "JOB_UNSUSPENDED",
	JobHeld:            "JOB_HELD",
	JobReleased:        "JOB_RELEASED",
	NodeExecute:        "NODE_EXECUTE",
	NodeTerminated:     "NODE_TERMINATED",
	PostScript:         "POST_SCRIPT_TERMINATED",
	GlobusSubmit:       "GLOBUS_SUBMIT",
	GlobusSubmitFailed: "GLOBUS_SUBMIT_FAILED",
	GlobusResourceUp:   "GLOBUS_RESOURCE_UP",
	GlobusResourceDown: "GLOBUS_RESOURCE_DOWN",
	RemoteError:        "REMOTE_ERROR",
	JobDisconnected:    "JOB_DISCONNECTED",
	JobReconnected:     "JOB_RECONNECTED",
	JobReconnectFailed: "JOB_RECONNECT_FAILED",
	GridResourceUp:     "GRID_RESOURCE_UP",
	GridResourceDown:   "GRID_RESOURCE_DOWN",
	GridSubmit:         "GRID_SUBMIT",
	JobAdInformation:   "JOB_AD_INFORMATION",
	JobStatusUnknown:   "JOB_STATUS_UNKNOWN",
	JobStatusKnown:     "JOB_STATUS_KNOWN",
	JobStageIn:         "JOB_STAGE_IN",
	JobStageOut:        "JOB_STAGE_OUT",
	AttributeUpdate:    "ATTRIBUTE_UPDATE",
	PreSkip:            "PRESKIP",
	ClusterSubmit:      "CLUSTER_SUBMIT",
	ClusterRemove:      "CLUSTER_REMOVE",
	FactoryPaused:      "FACTORY_PAUSED",
	FactoryResumed:     "FACTORY_RESUMED",
	FileTransfer:       "FILE_TRANSFER",
}

func (k EventKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EVENT_%d", int(k))
}

// Event is one parsed lifecycle event. Immutable once returned by a Cursor.
type Event struct {
	Path      string // event log the event was read from
	Cluster   int
	Proc      int
	SubProc   int
	Kind      EventKind
	Timestamp time.Time
}
