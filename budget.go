package omp

import "sync"

// Budget counts the workers alive beyond the coordinating member across
// every region of a [Runtime], at every nesting depth.
type Budget struct {
	mu     sync.Mutex
	active int
}

// Active returns the number of extra workers currently reserved.
func (b *Budget) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// reserve clamps requested so that the live members, the coordinating one
// included, stay within limit, then records the extra members. A limit <= 0
// means unlimited. At least one member (the caller) is always granted.
func (b *Budget) reserve(requested, limit int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := requested
	if limit > 0 {
		allowed := max(1, limit-b.active)
		n = min(n, allowed)
	}
	b.active += n - 1
	return n
}

func (b *Budget) release(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active -= n
	if b.active < 0 {
		panic("omp: worker budget released more than reserved")
	}
}
