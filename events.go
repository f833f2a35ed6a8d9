package omp

import "time"

// EventKind identifies a region or worker lifecycle transition.
type EventKind int

const (
	// EventRegionEntered fires on the originator once the team size is
	// resolved and the budget reserved, before workers are started.
	EventRegionEntered EventKind = iota
	// EventWorkerStarted fires on a worker before its body runs.
	EventWorkerStarted
	// EventWorkerDone fires when a worker body returns nil.
	EventWorkerDone
	// EventWorkerFailed fires when a worker body returns an error.
	EventWorkerFailed
	// EventWorkerPanicked fires when a worker body panics.
	EventWorkerPanicked
	// EventRegionExited fires on the originator after all children are
	// reaped.
	EventRegionExited
)

func (k EventKind) String() string {
	switch k {
	case EventRegionEntered:
		return "region-entered"
	case EventWorkerStarted:
		return "worker-started"
	case EventWorkerDone:
		return "worker-done"
	case EventWorkerFailed:
		return "worker-failed"
	case EventWorkerPanicked:
		return "worker-panicked"
	case EventRegionExited:
		return "region-exited"
	default:
		return "unknown"
	}
}

// RegionInfo describes an entered region.
type RegionInfo struct {
	ID   string
	Name string
	// Level is the nesting level the region was entered at.
	Level int
	// Workers is the effective team size.
	Workers int
}

// Event is passed to the hook registered with [WithOnEvent].
type Event struct {
	Kind   EventKind
	Region RegionInfo
	// Worker is the member the event refers to; 0 for region events.
	Worker int
	// Err is the worker's failure, or the error returned by Exit.
	Err error
	// Duration is the worker's or the region's wall-clock time, for
	// completion events.
	Duration time.Duration
}

// Stats is a point-in-time snapshot of a [Runtime].
type Stats struct {
	ActiveWorkers  int   // extra workers currently reserved in the budget
	RegionsEntered int64 // regions successfully entered
	RegionsActive  int64 // regions entered and not yet exited
	WorkersSpawned int64 // workers started, originators excluded
	WorkersFailed  int64 // workers whose body failed or panicked
}
