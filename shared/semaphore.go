package shared

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Semaphore is a weighted counting semaphore shared by the members of a
// team.
type Semaphore struct {
	w    *semaphore.Weighted
	size int
	used atomic.Int64
}

// NewSemaphore returns a semaphore with n slots. Panics if n <= 0.
func NewSemaphore(n int) *Semaphore {
	if n <= 0 {
		panic("shared: NewSemaphore requires n > 0")
	}
	return &Semaphore{w: semaphore.NewWeighted(int64(n)), size: n}
}

// Acquire takes n slots, blocking until they are free or ctx is cancelled.
// Panics if n is not in [1, capacity].
func (s *Semaphore) Acquire(ctx context.Context, n int) error {
	s.check(n)
	if err := s.w.Acquire(ctx, int64(n)); err != nil {
		return err
	}
	s.used.Add(int64(n))
	return nil
}

// TryAcquire takes n slots if they are free and reports whether it did.
func (s *Semaphore) TryAcquire(n int) bool {
	s.check(n)
	if !s.w.TryAcquire(int64(n)) {
		return false
	}
	s.used.Add(int64(n))
	return true
}

// Release returns n slots. Panics if more slots are released than held.
func (s *Semaphore) Release(n int) {
	if n <= 0 {
		panic(fmt.Sprintf("shared: Semaphore released %d slots", n))
	}
	if held := s.used.Add(-int64(n)) + int64(n); held < int64(n) {
		s.used.Add(int64(n))
		panic(fmt.Sprintf("shared: Semaphore released %d slots with %d held", n, held))
	}
	s.w.Release(int64(n))
}

// Available returns the number of free slots. The value may be stale by the
// time the caller acts on it.
func (s *Semaphore) Available() int {
	return s.size - int(s.used.Load())
}

func (s *Semaphore) check(n int) {
	if n <= 0 || n > s.size {
		panic(fmt.Sprintf("shared: Semaphore of %d slots cannot acquire %d", s.size, n))
	}
}
