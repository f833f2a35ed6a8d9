package omp

import (
	"context"

	"github.com/baxromumarov/omp/config"
)

type levelKey struct{}

// Level returns the nesting level carried by ctx: 0 outside any region, 1
// inside the body of a top-level region and so on. Each team member carries
// its own level, so leaving a region never affects a sibling.
func Level(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	l, _ := ctx.Value(levelKey{}).(int)
	return l
}

func withLevel(ctx context.Context, level int) context.Context {
	return context.WithValue(ctx, levelKey{}, level)
}

// resolveWorkers applies the nesting rules for a region entered at level:
// an explicit request wins, otherwise the per-level list is consulted.
func resolveWorkers(cfg *config.Config, requested, level int) (int, error) {
	n := requested
	if n <= 0 {
		var ok bool
		if n, ok = cfg.WorkersFor(level); !ok {
			return 0, &ConfigError{Level: level, NumThreads: append([]int(nil), cfg.NumThreads...)}
		}
	}
	if !cfg.Nested && level > 0 {
		return 0, &NestingError{Level: level}
	}
	return n, nil
}
