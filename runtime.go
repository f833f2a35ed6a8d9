package omp

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/baxromumarov/omp/config"
)

// Body is the code run by every member of a region's team. ctx carries the
// member's nesting level and lock ownership; h exposes its worker index and
// static iteration share.
type Body func(ctx context.Context, h *Handle) error

// Runtime owns the configuration surface and the global worker budget
// shared by every region created from it, at every nesting depth.
type Runtime struct {
	mu  sync.RWMutex
	cfg *config.Config

	budget  Budget
	logger  *slog.Logger
	spawner Spawner
	joiner  Joiner
	onEvent func(Event)

	regionsEntered atomic.Int64
	regionsActive  atomic.Int64
	workersSpawned atomic.Int64
	workersFailed  atomic.Int64
}

// New creates a Runtime. Without options it uses [config.Default].
func New(opts ...Option) (*Runtime, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Runtime{
		cfg:     o.cfg,
		logger:  o.logger,
		spawner: o.spawner,
		joiner:  o.joiner,
		onEvent: o.onEvent,
	}, nil
}

var (
	defaultOnce    sync.Once
	defaultRuntime *Runtime
)

// Default returns the process-wide Runtime configured from the environment
// (see [config.FromEnv]). An invalid environment is logged and ignored.
func Default() *Runtime {
	defaultOnce.Do(func() {
		cfg, err := config.FromEnv()
		defaultRuntime = fromEnv(cfg, err, slog.Default())
	})
	return defaultRuntime
}

func fromEnv(cfg *config.Config, envErr error, logger *slog.Logger) *Runtime {
	if envErr != nil {
		logger.Warn("ignoring invalid parallel runtime environment", "error", envErr)
		cfg = config.Default()
	}
	rt, err := New(WithConfig(cfg), WithLogger(logger))
	if err != nil {
		// FromEnv validates what it returns and Default is always valid.
		panic("omp: invalid default configuration: " + err.Error())
	}
	return rt
}

// Parallel runs body on a team of workers members of the [Default] runtime.
// See [Region.Run].
func Parallel(ctx context.Context, workers int, body Body, opts ...RegionOption) error {
	return Default().Parallel(ctx, workers, body, opts...)
}

// Region returns a new, not yet entered region. workers <= 0 selects the
// configured team size for the nesting level the region is entered at.
func (rt *Runtime) Region(workers int, opts ...RegionOption) *Region {
	return newRegion(rt, workers, opts...)
}

// Parallel runs body on a team of workers members. See [Region.Run].
func (rt *Runtime) Parallel(ctx context.Context, workers int, body Body, opts ...RegionOption) error {
	return rt.Region(workers, opts...).Run(ctx, body)
}

// Config returns a copy of the current configuration.
func (rt *Runtime) Config() *config.Config {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.cfg.Clone()
}

// SetConfig replaces the configuration. Regions already entered keep the
// settings they were entered with; the next Enter reads the new ones.
func (rt *Runtime) SetConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	rt.mu.Lock()
	rt.cfg = cfg.Clone()
	rt.mu.Unlock()
	return nil
}

// ActiveWorkers returns the number of workers currently reserved beyond
// the coordinating member.
func (rt *Runtime) ActiveWorkers() int {
	return rt.budget.Active()
}

// Stats returns a point-in-time snapshot of the runtime's counters.
func (rt *Runtime) Stats() Stats {
	return Stats{
		ActiveWorkers:  rt.budget.Active(),
		RegionsEntered: rt.regionsEntered.Load(),
		RegionsActive:  rt.regionsActive.Load(),
		WorkersSpawned: rt.workersSpawned.Load(),
		WorkersFailed:  rt.workersFailed.Load(),
	}
}

func (rt *Runtime) emit(e Event) {
	if rt.onEvent != nil {
		rt.onEvent(e)
	}
}
