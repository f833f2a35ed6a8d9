package omp

import (
	"errors"
	"fmt"
	"slices"
)

// WorkerInfo names a region member: the region it belongs to and its
// worker index (always >= 1, the originator never fails as a worker).
type WorkerInfo struct {
	Region RegionInfo
	Index  int
}

// WorkerError is what a failed worker leaves behind for the originator.
// Exit collects one per worker whose body returned an error or panicked;
// they are joined into Exit's result only under [WithWorkerErrors].
type WorkerError struct {
	Worker WorkerInfo
	Err    error
}

func (e *WorkerError) Error() string {
	region := e.Worker.Region.Name
	if region == "" {
		region = e.Worker.Region.ID
	}
	return fmt.Sprintf("worker %d of region %q failed: %v", e.Worker.Index, region, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }

// IsWorkerError reports whether the result of Exit or Run came from a
// failed worker rather than from the originator.
func IsWorkerError(err error) bool {
	return firstWorkerError(err) != nil
}

// WorkerOf tells which member produced err. With several failed workers
// it reports the first one to fail.
func WorkerOf(err error) (WorkerInfo, bool) {
	if we := firstWorkerError(err); we != nil {
		return we.Worker, true
	}
	return WorkerInfo{}, false
}

// CauseOf strips the worker attribution from err and returns what the body
// itself returned (or the [*PanicError] it died with). Errors that did not
// come from a worker pass through unchanged.
func CauseOf(err error) error {
	if we := firstWorkerError(err); we != nil {
		return we.Err
	}
	return err
}

// AllWorkerErrors lists every worker failure joined into err, in the order
// the workers failed. Nil when no worker failed.
func AllWorkerErrors(err error) []*WorkerError {
	var found []*WorkerError
	pending := []error{err}
	for len(pending) > 0 {
		e := pending[0]
		pending = pending[1:]
		switch x := e.(type) {
		case nil:
		case *WorkerError:
			found = append(found, x)
		case interface{ Unwrap() []error }:
			pending = slices.Concat(x.Unwrap(), pending)
		case interface{ Unwrap() error }:
			pending = append([]error{x.Unwrap()}, pending...)
		}
	}
	return found
}

func firstWorkerError(err error) *WorkerError {
	var we *WorkerError
	if errors.As(err, &we) {
		return we
	}
	return nil
}
