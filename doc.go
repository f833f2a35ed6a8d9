// Package omp provides OpenMP-style parallel regions for Go.
//
// A parallel region starts a bounded team of workers that all run the same
// body concurrently, hands each of them a static, contiguous share of an
// iteration space, and joins them when the region is left. Regions nest,
// and a [Runtime] enforces a global cap on the number of live team members
// across all regions it created.
//
// # Running Regions
//
// The primary entry point is [Runtime.Parallel] (or [Region.Run]), which
// enters a region, runs the body as worker 0 on the calling goroutine and as
// workers 1..n-1 on members started by the runtime's [Spawner], then joins
// them:
//
//	rt, _ := omp.New(omp.WithNested(true), omp.WithThreadLimit(8))
//	sum := shared.NewArray()
//	err := rt.Parallel(ctx, 4, func(ctx context.Context, h *omp.Handle) error {
//	    local := 0.0
//	    for i := range h.Range(1000).All() {
//	        local += float64(i)
//	    }
//	    sum.Add(local)
//	    return nil
//	})
//
// For manual lifecycle control, [Region.Enter] returns the originator's
// [Handle]; the caller must call [Handle.Exit] on every path.
//
// # Team Size
//
// A region asks for an explicit team size, or for none (workers <= 0), in
// which case the runtime's configured per-level list decides (see
// [config.Config]). With a thread limit, the team is shrunk so that the
// live members of all regions, each region's coordinating member included,
// stay within the limit; a region always gets at least its caller.
//
// # Nesting
//
// Every member carries its nesting level in its context (see [Level]).
// Entering a region with [Handle.Context], or via [Handle.Parallel], nests
// it. With nesting disabled such an Enter fails with [*NestingError].
//
// # Static Schedule
//
// [Handle.Range] and [Handle.Partition] split a sequence into NumWorkers
// contiguous blocks whose sizes differ by at most one, the larger blocks
// going to the lower indices. [Partition] and [Bounds] expose the same
// split as pure functions.
//
// # Errors
//
// Enter fails synchronously with [*ReuseError], [*ConfigError],
// [*NestingError] or [*SpawnError]. A failing or panicking worker only
// ends itself: it is logged and reported through [WithOnEvent], and
// invisible to the originator unless the region was created with
// [WithWorkerErrors], in which case Exit returns every failure wrapped in a
// [*WorkerError]. Use [IsWorkerError], [WorkerOf], [CauseOf] and
// [AllWorkerErrors] to inspect them.
//
// # Shared State
//
// Team members must coordinate through the containers of the
// [github.com/baxromumarov/omp/shared] package, constructed before the
// region is entered. Exit's join makes every worker's writes visible to the
// originator.
//
// # Joining
//
// The originator's Exit waits for every worker without timeout
// ([BlockingJoin]). [WithJoiner] replaces that strategy.
package omp
