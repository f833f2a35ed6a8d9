package shared

import (
	"fmt"
	"iter"
	"sync"
)

// List is a growable list safe for concurrent use.
type List[T any] struct {
	mu    sync.RWMutex
	items []T
}

// NewList returns a List holding a copy of items.
func NewList[T any](items ...T) *List[T] {
	return &List[T]{items: append([]T(nil), items...)}
}

// Append adds v to the end of the list.
func (l *List[T]) Append(v T) {
	l.mu.Lock()
	l.items = append(l.items, v)
	l.mu.Unlock()
}

// Extend appends every value in vs, atomically with respect to other calls.
func (l *List[T]) Extend(vs ...T) {
	l.mu.Lock()
	l.items = append(l.items, vs...)
	l.mu.Unlock()
}

// Get returns the element at i. Negative indices count from the end.
// Panics if i is out of range.
func (l *List[T]) Get(i int) T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.items[l.index(i)]
}

// Set replaces the element at i. Negative indices count from the end.
// Panics if i is out of range.
func (l *List[T]) Set(i int, v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[l.index(i)] = v
}

// Pop removes and returns the last element. ok is false when the list is
// empty.
func (l *List[T]) Pop() (v T, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.items) == 0 {
		return v, false
	}
	last := len(l.items) - 1
	v = l.items[last]
	var zero T
	l.items[last] = zero
	l.items = l.items[:last]
	return v, true
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Snapshot returns a copy of the current contents.
func (l *List[T]) Snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.items...)
}

// All iterates over a snapshot taken when iteration starts.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range l.Snapshot() {
			if !yield(i, v) {
				return
			}
		}
	}
}

func (l *List[T]) index(i int) int {
	n := len(l.items)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		panic(fmt.Sprintf("shared: list index %d out of range [0:%d]", i, n))
	}
	return i
}
