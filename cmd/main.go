// Command omp runs a parallel sum of 0..n-1 on a team of workers, optionally
// splitting every member's share again in a nested region, and prints the
// result together with the runtime's counters.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/baxromumarov/omp"
	"github.com/baxromumarov/omp/config"
	"github.com/baxromumarov/omp/shared"
	"github.com/baxromumarov/omp/tracing"
)

type options struct {
	workers int
	n       int
	nested  int
	limit   int
	config  string
	trace   string
}

func main() {
	var opts options
	flag.IntVar(&opts.workers, "workers", 0, "team size of the outer region; 0 uses the configured size")
	flag.IntVar(&opts.n, "n", 1_000_000, "number of terms to sum")
	flag.IntVar(&opts.nested, "nested", 0, "team size of the nested region run by every member; 0 runs no nested region")
	flag.IntVar(&opts.limit, "limit", -1, "thread limit; -1 keeps the configured limit, 0 removes it")
	flag.StringVar(&opts.config, "config", "", "configuration URL (YAML); the environment is used when empty")
	flag.StringVar(&opts.trace, "trace", "", "write spans to this file, or - for stdout")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(context.Background(), logger, opts); err != nil {
		logger.Error("parallel sum failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, opts options) error {
	if opts.n < 0 {
		return fmt.Errorf("-n must be >= 0, got %d", opts.n)
	}
	cfg, err := loadConfig(ctx, opts.config)
	if err != nil {
		return err
	}
	if opts.limit >= 0 {
		cfg.ThreadLimit = opts.limit
	}
	if opts.nested > 0 {
		cfg.Nested = true
	}

	if opts.trace != "" {
		out := opts.trace
		if out == "-" {
			out = ""
		}
		if err := tracing.Init("omp", "dev", out); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
		defer func() {
			if err := tracing.Shutdown(ctx); err != nil {
				logger.Warn("failed to flush spans", "error", err)
			}
		}()
	}

	rt, err := omp.New(omp.WithConfig(cfg), omp.WithLogger(logger))
	if err != nil {
		return err
	}

	sum := shared.NewArray()
	start := time.Now()
	err = rt.Parallel(ctx, opts.workers, func(ctx context.Context, h *omp.Handle) error {
		share := h.Range(opts.n)
		if opts.nested <= 0 {
			sum.Add(sumRange(share))
			return nil
		}
		return h.Parallel(opts.nested, func(ctx context.Context, ih *omp.Handle) error {
			sum.Add(sumRange(omp.Partition(share, ih.NumWorkers(), ih.WorkerIndex())))
			return nil
		}, omp.WithName("sum-inner"), omp.WithWorkerErrors())
	}, omp.WithName("sum"), omp.WithWorkerErrors())
	if err != nil {
		return err
	}

	want := float64(opts.n) * float64(opts.n-1) / 2
	stats := rt.Stats()
	fmt.Printf("sum=%.0f expected=%.0f elapsed=%v regions=%d workers=%d failed=%d\n",
		sum.At(), want, time.Since(start).Round(time.Microsecond),
		stats.RegionsEntered, stats.WorkersSpawned, stats.WorkersFailed)
	if sum.At() != want {
		return fmt.Errorf("sum mismatch: got %.0f, want %.0f", sum.At(), want)
	}
	return nil
}

func loadConfig(ctx context.Context, URL string) (*config.Config, error) {
	if URL == "" {
		return config.FromEnv()
	}
	return config.Load(ctx, URL)
}

func sumRange(r omp.Range) float64 {
	var s float64
	for i := range r.All() {
		s += float64(i)
	}
	return s
}
