package shared

import "context"

// Lock is a non-reentrant mutual exclusion lock. Acquiring a Lock already
// held by the caller blocks forever; use [ReentrantLock] for that pattern.
type Lock struct {
	ch chan struct{}
}

// NewLock returns an unlocked Lock.
func NewLock() *Lock {
	return &Lock{ch: make(chan struct{}, 1)}
}

// Lock blocks until the lock is acquired.
func (l *Lock) Lock() {
	l.ch <- struct{}{}
}

// LockContext blocks until the lock is acquired or ctx is cancelled.
func (l *Lock) LockContext(ctx context.Context) error {
	select {
	case l.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryLock acquires the lock if it is free and reports whether it did.
func (l *Lock) TryLock() bool {
	select {
	case l.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Unlock releases the lock. Panics if the lock is not held.
func (l *Lock) Unlock() {
	select {
	case <-l.ch:
	default:
		panic("shared: Unlock of unlocked Lock")
	}
}

// Locked reports whether the lock is currently held by anyone.
func (l *Lock) Locked() bool {
	return len(l.ch) == 1
}

// Do runs fn while holding the lock.
func (l *Lock) Do(fn func()) {
	l.Lock()
	defer l.Unlock()
	fn()
}
