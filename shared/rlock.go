package shared

import (
	"context"
	"sync"
)

// ReentrantLock is a lock that the owning team member may acquire again
// without blocking. Another member can acquire it only once the owner has
// released it as many times as it acquired it.
//
// Ownership is taken from the context passed to each call (see [OwnerOf]).
// Calls made with an anonymous owner never re-enter, and all of them share
// one identity for Unlock: like a [sync.Mutex], a lock taken anonymously
// may be released by any anonymous caller. Owned and anonymous holds never
// release each other.
type ReentrantLock struct {
	mu    sync.Mutex
	owner Owner
	count int
	held  *Lock
}

// NewReentrantLock returns an unlocked ReentrantLock.
func NewReentrantLock() *ReentrantLock {
	return &ReentrantLock{held: NewLock()}
}

// Lock acquires the lock for the owner carried by ctx, blocking until it is
// available or ctx is cancelled.
func (l *ReentrantLock) Lock(ctx context.Context) error {
	o := OwnerOf(ctx)
	if l.reenter(o) {
		return nil
	}
	if err := l.held.LockContext(ctx); err != nil {
		return err
	}
	l.claim(o)
	return nil
}

// TryLock acquires the lock without blocking and reports whether it did.
func (l *ReentrantLock) TryLock(ctx context.Context) bool {
	o := OwnerOf(ctx)
	if l.reenter(o) {
		return true
	}
	if !l.held.TryLock() {
		return false
	}
	l.claim(o)
	return true
}

// Unlock releases one level of ownership. Panics if the owner carried by ctx
// does not hold the lock, or if ctx is anonymous and the lock is held by
// an owner.
func (l *ReentrantLock) Unlock(ctx context.Context) {
	o := OwnerOf(ctx)
	l.mu.Lock()
	if l.count == 0 || l.owner != o {
		l.mu.Unlock()
		panic("shared: Unlock of ReentrantLock not held by caller")
	}
	l.count--
	release := l.count == 0
	if release {
		l.owner = 0
	}
	l.mu.Unlock()
	if release {
		l.held.Unlock()
	}
}

// Do runs fn while holding the lock.
func (l *ReentrantLock) Do(ctx context.Context, fn func()) error {
	if err := l.Lock(ctx); err != nil {
		return err
	}
	defer l.Unlock(ctx)
	fn()
	return nil
}

// HeldBy reports whether the owner carried by ctx holds the lock, and how
// many times.
func (l *ReentrantLock) HeldBy(ctx context.Context) (bool, int) {
	o := OwnerOf(ctx)
	l.mu.Lock()
	defer l.mu.Unlock()
	if o == 0 || l.owner != o {
		return false, 0
	}
	return true, l.count
}

func (l *ReentrantLock) reenter(o Owner) bool {
	if o == 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.count > 0 && l.owner == o {
		l.count++
		return true
	}
	return false
}

func (l *ReentrantLock) claim(o Owner) {
	l.mu.Lock()
	l.owner = o
	l.count = 1
	l.mu.Unlock()
}
