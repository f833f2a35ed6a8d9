package omp

import (
	"context"
	"runtime"
)

// Role tells the originator of a region apart from the workers it started.
type Role int

const (
	// Originator is the member that entered the region; it is worker 0
	// and the only one holding children.
	Originator Role = iota
	// Worker is a member started by the originator.
	Worker
)

func (r Role) String() string {
	if r == Worker {
		return "worker"
	}
	return "originator"
}

// Handle is one team member's view of an active region.
type Handle struct {
	region   *Region
	ctx      context.Context
	index    int
	role     Role
	children []Child
}

// WorkerIndex returns the member's index in [0, NumWorkers()).
func (h *Handle) WorkerIndex() int {
	return h.index
}

// NumWorkers returns the effective team size.
func (h *Handle) NumWorkers() int {
	return h.region.info.Workers
}

// Level returns the nesting level the region was entered at; 0 for a
// top-level region. Inside the body, [Level] of [Handle.Context] is one
// higher.
func (h *Handle) Level() int {
	return h.region.info.Level
}

// Role reports whether the member is the originator or a worker.
func (h *Handle) Role() Role {
	return h.role
}

// IsWorker reports whether the member was started by the originator.
func (h *Handle) IsWorker() bool {
	return h.role == Worker
}

// Context returns the member's context. Pass it to nested regions and to
// [shared.ReentrantLock] calls.
func (h *Handle) Context() context.Context {
	return h.ctx
}

// RegionID returns the identifier of the region the member belongs to.
func (h *Handle) RegionID() string {
	return h.region.id
}

// Children returns the workers started by the originator, in index order.
// It is empty for workers.
func (h *Handle) Children() []Child {
	return append([]Child(nil), h.children...)
}

// Range returns the member's static share of [0, stop).
func (h *Handle) Range(stop int) Range {
	return h.Partition(0, stop, 1)
}

// Partition returns the member's static share of the sequence
// start, start+step, ... up to but excluding stop. Panics if step is zero.
func (h *Handle) Partition(start, stop, step int) Range {
	return Partition(NewRange(start, stop, step), h.NumWorkers(), h.index)
}

// Region returns a new region whose runtime is the member's. Enter it with
// [Handle.Context] to nest it under the current one.
func (h *Handle) Region(workers int, opts ...RegionOption) *Region {
	return h.region.rt.Region(workers, opts...)
}

// Parallel runs a nested region from inside the member's body.
func (h *Handle) Parallel(workers int, body Body, opts ...RegionOption) error {
	return h.Region(workers, opts...).Run(h.ctx, body)
}

// Exit ends the member's participation in the region.
//
// On the originator it blocks until every worker has terminated, releases
// their budget slots and returns the region's exit error; further calls
// return the same result.
//
// On a worker it terminates the calling goroutine with runtime.Goexit and
// never returns. It must only be called from the worker's own body.
func (h *Handle) Exit() error {
	if h.role == Worker {
		runtime.Goexit()
	}
	return h.region.exit()
}
