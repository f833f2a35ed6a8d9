package shared

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed is returned by [Queue.Put] and [Queue.GetContext] once the
// queue has been closed and, for gets, drained.
var ErrQueueClosed = errors.New("shared: queue is closed")

// Queue is an unbounded FIFO queue safe for concurrent use. Get blocks while
// the queue is empty.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	ready  chan struct{} // closed and replaced whenever items are added
	closed bool
}

// NewQueue returns an empty Queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{ready: make(chan struct{})}
}

// Put appends v. It returns [ErrQueueClosed] after Close.
func (q *Queue[T]) Put(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	q.items = append(q.items, v)
	q.wake()
	return nil
}

// Get removes and returns the oldest item, blocking until one is available.
// ok is false if the queue was closed and drained.
func (q *Queue[T]) Get() (v T, ok bool) {
	v, err := q.GetContext(context.Background())
	return v, err == nil
}

// GetContext is like Get but unblocks when ctx is cancelled.
func (q *Queue[T]) GetContext(ctx context.Context) (T, error) {
	for {
		q.mu.Lock()
		if v, ok := q.pop(); ok {
			q.mu.Unlock()
			return v, nil
		}
		if q.closed {
			q.mu.Unlock()
			var zero T
			return zero, ErrQueueClosed
		}
		ready := q.ready
		q.mu.Unlock()

		select {
		case <-ready:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// TryGet removes and returns the oldest item without blocking.
func (q *Queue[T]) TryGet() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pop()
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops the queue from accepting items and wakes blocked getters.
// Items already queued can still be drained. Safe to call multiple times.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.wake()
}

// pop must be called with q.mu held.
func (q *Queue[T]) pop() (v T, ok bool) {
	if len(q.items) == 0 {
		return v, false
	}
	v = q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true
}

// wake must be called with q.mu held.
func (q *Queue[T]) wake() {
	close(q.ready)
	q.ready = make(chan struct{})
}
