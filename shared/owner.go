package shared

import (
	"context"
	"sync/atomic"
)

// Owner identifies one team member for the purpose of lock ownership.
// The zero Owner is anonymous: it never re-enters a lock or reports one
// as held. See [ReentrantLock] for how anonymous holds are released.
type Owner uint64

type ownerKey struct{}

var lastOwner atomic.Uint64

// NewOwner returns an Owner distinct from every other Owner returned in this
// process.
func NewOwner() Owner {
	return Owner(lastOwner.Add(1))
}

// WithOwner returns a copy of ctx carrying o.
func WithOwner(ctx context.Context, o Owner) context.Context {
	return context.WithValue(ctx, ownerKey{}, o)
}

// OwnerOf returns the Owner carried by ctx, or the zero Owner.
func OwnerOf(ctx context.Context) Owner {
	if ctx == nil {
		return 0
	}
	o, _ := ctx.Value(ownerKey{}).(Owner)
	return o
}
