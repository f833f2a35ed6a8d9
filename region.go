package omp

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/baxromumarov/omp/shared"
	"github.com/baxromumarov/omp/tracing"
)

// State is the lifecycle stage of a [Region].
type State int32

const (
	// Unentered regions have been created but not entered.
	Unentered State = iota
	// Active regions have been entered and their team is running.
	Active
	// Closed regions have been exited; they cannot be entered again.
	Closed

	// entering is held while Enter negotiates the team. It reads as
	// Unentered from outside.
	entering State = -1
)

func (s State) String() string {
	switch s {
	case Unentered, entering:
		return "unentered"
	case Active:
		return "active"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Region is one parallel block. Entering it starts a team of workers that
// each run the same [Body]; exiting it joins them. A Region is single-use.
type Region struct {
	rt        *Runtime
	id        string
	requested int
	opts      regionOptions

	state atomic.Int32

	// Set by Enter on the originator; read by exit.
	origin  *Handle
	info    RegionInfo
	cancel  context.CancelCauseFunc
	span    *tracing.Span
	started time.Time

	errMu sync.Mutex
	errs  []error

	exitOnce sync.Once
	exitErr  error
}

func newRegion(rt *Runtime, workers int, opts ...RegionOption) *Region {
	r := &Region{
		rt:        rt,
		id:        uuid.New().String(),
		requested: workers,
	}
	for _, opt := range opts {
		opt(&r.opts)
	}
	return r
}

// ID returns the region's unique identifier.
func (r *Region) ID() string {
	return r.id
}

// State returns the region's current lifecycle stage.
func (r *Region) State() State {
	s := State(r.state.Load())
	if s == entering {
		return Unentered
	}
	return s
}

// Run enters the region, runs body as the originator (worker 0), and exits,
// joining every worker. Exit runs on every path; a panic in the
// originator's body is re-raised after the team has been joined.
//
// Run returns the originator's body error, or the Exit error (see
// [WithWorkerErrors] and [WithJoiner]), or both joined.
func (r *Region) Run(ctx context.Context, body Body) (err error) {
	h, err := r.Enter(ctx, body)
	if err != nil {
		return err
	}

	defer func() {
		runPanic := recover()
		exitErr := h.Exit()
		if runPanic != nil {
			panic(runPanic)
		}
		if err == nil {
			err = exitErr
		} else if exitErr != nil {
			err = errors.Join(err, exitErr)
		}
	}()

	return body(h.Context(), h)
}

// Enter resolves the team size, reserves it in the runtime's worker budget,
// and starts workers 1..n-1, each running body on its own [Handle]. It
// returns the originator's handle (worker 0); the caller runs its share of
// the work and must then call [Handle.Exit].
//
// Enter fails with [*ReuseError], [*ConfigError], [*NestingError] or
// [*SpawnError]. A region whose Enter failed with a config or nesting error
// may be entered again.
func (r *Region) Enter(ctx context.Context, body Body) (*Handle, error) {
	if body == nil {
		panic("omp: Enter requires a non-nil body")
	}
	if !r.state.CompareAndSwap(int32(Unentered), int32(entering)) {
		return nil, &ReuseError{RegionID: r.id}
	}

	rt := r.rt
	level := Level(ctx)

	rt.mu.RLock()
	cfg := rt.cfg
	n, err := resolveWorkers(cfg, r.requested, level)
	limit := cfg.ThreadLimit
	rt.mu.RUnlock()
	if err != nil {
		r.state.Store(int32(Unentered))
		return nil, err
	}

	n = rt.budget.reserve(n, limit)
	r.info = RegionInfo{ID: r.id, Name: r.opts.name, Level: level, Workers: n}
	rt.logger.Debug("entering parallel region",
		"region", r.id, "name", r.opts.name, "level", level, "workers", n)

	ctx, r.span = tracing.StartSpan(ctx, "omp.region",
		attribute.String("omp.region.id", r.id),
		attribute.Int("omp.region.level", level),
		attribute.Int("omp.region.workers", n),
	)
	teamCtx, cancel := context.WithCancelCause(ctx)
	r.cancel = cancel
	r.started = time.Now()

	owner := shared.OwnerOf(ctx)
	if owner == 0 {
		owner = shared.NewOwner()
	}
	r.origin = &Handle{
		region: r,
		ctx:    withLevel(shared.WithOwner(teamCtx, owner), level+1),
		index:  0,
		role:   Originator,
	}
	r.state.Store(int32(Active))
	rt.regionsEntered.Add(1)
	rt.regionsActive.Add(1)
	rt.emit(Event{Kind: EventRegionEntered, Region: r.info})

	// Only the originator starts workers; a worker never starts siblings.
	for i := 1; i < n; i++ {
		wh := &Handle{
			region: r,
			ctx:    withLevel(shared.WithOwner(teamCtx, shared.NewOwner()), level+1),
			index:  i,
			role:   Worker,
		}
		child, err := rt.spawner.Spawn(wh.ctx, i, func() { r.runWorker(wh, body) })
		if err != nil {
			return nil, r.abort(&SpawnError{Index: i, Err: err})
		}
		r.origin.children = append(r.origin.children, child)
		rt.workersSpawned.Add(1)
	}

	r.span.SetInt("omp.region.spawned", len(r.origin.children))
	rt.logger.Debug("forked workers", "region", r.id, "workers", len(r.origin.children))
	return r.origin, nil
}

// abort unwinds a partially started team after a spawn failure: started
// workers see a cancelled context and are joined, the unused reservation is
// returned and the region is closed.
func (r *Region) abort(err *SpawnError) error {
	r.cancel(err)
	r.exitWith(err)
	return err
}

// exit is the originator's half of the exit protocol.
func (r *Region) exit() error {
	return r.exitWith(nil)
}

func (r *Region) exitWith(cause error) error {
	r.exitOnce.Do(func() {
		rt := r.rt
		children := r.origin.children
		rt.logger.Debug("waiting for workers", "region", r.id, "workers", len(children))

		reaped, joinErr := rt.joiner.Join(r.origin.ctx, children)
		reaped = min(max(reaped, 0), len(children))
		r.span.AddEvent("workers joined", attribute.Int("omp.region.reaped", reaped))

		// Slots reserved for workers that were never started go back too.
		unstarted := r.info.Workers - 1 - len(children)
		rt.budget.release(reaped + unstarted)

		r.cancel(nil)
		r.state.Store(int32(Closed))
		rt.regionsActive.Add(-1)

		err := cause
		if err == nil {
			err = joinErr
			if r.opts.workerErrors {
				r.errMu.Lock()
				err = errors.Join(append([]error{joinErr}, r.errs...)...)
				r.errMu.Unlock()
			}
		}
		r.exitErr = err

		elapsed := time.Since(r.started)
		r.span.End(err)
		rt.emit(Event{Kind: EventRegionExited, Region: r.info, Err: err, Duration: elapsed})
		rt.logger.Debug("parallel region left", "region", r.id, "level", r.info.Level, "elapsed", elapsed)
	})
	return r.exitErr
}

// runWorker is the whole life of worker h: run the body, then terminate.
// It never returns into the code that entered the region.
func (r *Region) runWorker(h *Handle, body Body) {
	rt := r.rt
	ctx, span := tracing.StartSpan(h.ctx, "omp.worker",
		attribute.String("omp.region.id", r.id),
		attribute.Int("omp.worker.index", h.index),
	)
	h.ctx = ctx
	rt.emit(Event{Kind: EventWorkerStarted, Region: r.info, Worker: h.index})

	start := time.Now()
	var err error
	returned := false
	defer func() {
		// A body that called Exit unwinds through here via runtime.Goexit,
		// which recover does not report.
		if !returned {
			if v := recover(); v != nil {
				err = recovered(v)
			}
		}
		span.End(err)
		r.finishWorker(h, err, time.Since(start))
	}()

	err = body(h.ctx, h)
	returned = true
}

func (r *Region) finishWorker(h *Handle, err error, elapsed time.Duration) {
	rt := r.rt
	if err == nil {
		rt.emit(Event{Kind: EventWorkerDone, Region: r.info, Worker: h.index, Duration: elapsed})
		return
	}

	rt.workersFailed.Add(1)
	kind := EventWorkerFailed
	var pe *PanicError
	if errors.As(err, &pe) {
		kind = EventWorkerPanicked
	}
	rt.logger.Warn("parallel worker failed",
		"region", r.id, "worker", h.index, "panicked", kind == EventWorkerPanicked, "error", err)

	we := &WorkerError{Worker: WorkerInfo{Region: r.info, Index: h.index}, Err: err}
	r.errMu.Lock()
	r.errs = append(r.errs, we)
	r.errMu.Unlock()

	rt.emit(Event{Kind: kind, Region: r.info, Worker: h.index, Err: err, Duration: elapsed})
}
