package omp

import "fmt"

// ReuseError is returned by [Region.Enter] when the region has already been
// entered. A Region is single-use.
type ReuseError struct {
	RegionID string
}

func (e *ReuseError) Error() string {
	return fmt.Sprintf("omp: region %s may only be entered once", e.RegionID)
}

// ConfigError is returned by [Region.Enter] when no team size was requested
// and the configured per-level list has no entry for the current level.
type ConfigError struct {
	Level      int
	NumThreads []int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("omp: num threads %v must be either a single positive number or have an entry for nesting level %d",
		e.NumThreads, e.Level)
}

// NestingError is returned by [Region.Enter] when a region is entered from
// inside another region while nesting is disabled. No worker is started and
// the worker budget is left untouched.
type NestingError struct {
	Level int
}

func (e *NestingError) Error() string {
	return fmt.Sprintf("omp: nested parallel region at level %d is not allowed", e.Level)
}

// SpawnError is returned by [Region.Enter] when the [Spawner] fails to start
// a worker. Workers started before the failure have been joined by the time
// the error is returned.
type SpawnError struct {
	// Index is the worker index that could not be started.
	Index int
	Err   error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("omp: failed to start worker %d: %v", e.Index, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
