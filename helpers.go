package omp

import "context"

// For runs fn for every element of r on a team of workers members. Each
// member handles its static share of r. Failures of workers are returned
// as [*WorkerError]s; a member stops at its first failure.
//
//	err := omp.For(ctx, rt, 4, omp.NewRange(0, len(rows), 1), func(ctx context.Context, i int) error {
//	    return process(rows[i])
//	})
func For(ctx context.Context, rt *Runtime, workers int, r Range, fn func(ctx context.Context, i int) error) error {
	return rt.Parallel(ctx, workers, func(ctx context.Context, h *Handle) error {
		for i := range Partition(r, h.NumWorkers(), h.WorkerIndex()).All() {
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}, WithName("for"), WithWorkerErrors())
}

// Map applies fn to every item on a team of workers members and returns the
// results in input order. On error, Map returns nil and the error.
func Map[T, R any](ctx context.Context, rt *Runtime, workers int, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	err := For(ctx, rt, workers, NewRange(0, len(items), 1), func(ctx context.Context, i int) error {
		r, err := fn(ctx, items[i])
		if err != nil {
			return err
		}
		results[i] = r // each index has exactly one owner; Exit joins before results is read
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
