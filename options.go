package omp

import (
	"log/slog"

	"github.com/baxromumarov/omp/config"
)

type options struct {
	cfg     *config.Config
	logger  *slog.Logger
	spawner Spawner
	joiner  Joiner
	onEvent func(Event)
}

// Option configures a [Runtime].
type Option func(*options)

func defaultOptions() options {
	return options{
		cfg:     config.Default(),
		spawner: GoroutineSpawner{},
		joiner:  BlockingJoin,
	}
}

// WithConfig replaces the whole configuration. Options applied after it
// refine the copy. Panics if cfg is nil.
func WithConfig(cfg *config.Config) Option {
	if cfg == nil {
		panic("omp: WithConfig requires non-nil config")
	}
	return func(o *options) {
		o.cfg = cfg.Clone()
	}
}

// WithNumThreads sets the default team size, either one value for every
// nesting level or one value per level.
// Panics if no value is given or any value is not positive.
func WithNumThreads(n ...int) Option {
	if len(n) == 0 {
		panic("omp: WithNumThreads requires at least one value")
	}
	for _, v := range n {
		if v <= 0 {
			panic("omp: WithNumThreads requires positive values")
		}
	}
	n = append([]int(nil), n...)
	return func(o *options) {
		o.cfg.NumThreads = n
	}
}

// WithNested allows or forbids entering a region from inside another one.
func WithNested(nested bool) Option {
	return func(o *options) {
		o.cfg.Nested = nested
	}
}

// WithThreadLimit caps the number of live team members across all regions.
// Zero removes the cap. Panics if n is negative.
func WithThreadLimit(n int) Option {
	if n < 0 {
		panic("omp: WithThreadLimit requires n >= 0")
	}
	return func(o *options) {
		o.cfg.ThreadLimit = n
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
// Panics if l is nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("omp: WithLogger requires non-nil logger")
	}
	return func(o *options) {
		o.logger = l
	}
}

// WithSpawner replaces the primitive used to start workers.
// Panics if s is nil.
func WithSpawner(s Spawner) Option {
	if s == nil {
		panic("omp: WithSpawner requires non-nil spawner")
	}
	return func(o *options) {
		o.spawner = s
	}
}

// WithJoiner replaces the strategy the originator uses to reap its children
// on Exit. The default, [BlockingJoin], waits without timeout.
// Panics if j is nil.
func WithJoiner(j Joiner) Option {
	if j == nil {
		panic("omp: WithJoiner requires non-nil joiner")
	}
	return func(o *options) {
		o.joiner = j
	}
}

// WithOnEvent registers a hook receiving every region and worker lifecycle
// [Event]. Worker events are delivered from the worker itself, so the hook
// must be safe for concurrent use.
func WithOnEvent(fn func(Event)) Option {
	return func(o *options) {
		o.onEvent = fn
	}
}

type regionOptions struct {
	name         string
	workerErrors bool
}

// RegionOption configures a single [Region].
type RegionOption func(*regionOptions)

// WithName labels the region in logs, events, spans and errors.
func WithName(name string) RegionOption {
	return func(o *regionOptions) {
		o.name = name
	}
}

// WithWorkerErrors makes the originator's Exit return the failures of its
// workers, each wrapped in a [*WorkerError] and joined with [errors.Join].
// Without it a failing worker is only logged and reported through events.
func WithWorkerErrors() RegionOption {
	return func(o *regionOptions) {
		o.workerErrors = true
	}
}
