// Package shared provides the containers team members of a parallel region
// use to coordinate: [Lock], [ReentrantLock], [Semaphore], [List], [Map],
// [Queue] and [Array].
//
// Every container serialises its own mutations and is safe for concurrent use
// by all members of a team. Containers must be constructed before the region
// that uses them is entered and handed to the region body by closure:
//
//	hits := shared.NewArray(len(items))
//	lock := shared.NewLock()
//	err := rt.Parallel(ctx, 4, func(ctx context.Context, h *omp.Handle) error {
//	    for i := range h.Range(len(items)).All() {
//	        lock.Do(func() { hits.Add(1, i) })
//	    }
//	    return nil
//	})
//
// Ordinary variables captured by a region body are not synchronised between
// members; only the containers in this package are.
//
// # Ownership
//
// A [ReentrantLock] must tell team members apart. Each member of a region
// carries an [Owner] in its context (see [WithOwner] and [OwnerOf]); the same
// owner may re-acquire a reentrant lock it already holds.
package shared
