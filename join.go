package omp

import "context"

// Joiner reaps the children of a region on the originator's Exit. It
// returns how many children terminated; only that many budget slots are
// released.
type Joiner interface {
	Join(ctx context.Context, children []Child) (reaped int, err error)
}

// JoinerFunc adapts a function to the [Joiner] interface.
type JoinerFunc func(ctx context.Context, children []Child) (int, error)

// Join implements Joiner.Join.
func (f JoinerFunc) Join(ctx context.Context, children []Child) (int, error) {
	return f(ctx, children)
}

// BlockingJoin waits for every child in order, with no timeout, ignoring
// ctx. A child that never terminates blocks it forever. It is the default
// [Joiner].
var BlockingJoin Joiner = JoinerFunc(func(_ context.Context, children []Child) (int, error) {
	for _, c := range children {
		c.Wait()
	}
	return len(children), nil
})
