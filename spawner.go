package omp

import "context"

// Child is a started team member as seen by the originator.
type Child interface {
	// Index is the worker index of the member.
	Index() int
	// Wait blocks until the member has terminated.
	Wait()
	// Done is closed once the member has terminated.
	Done() <-chan struct{}
}

// Spawner starts team members. It is the runtime's fork primitive: Spawn
// must start run concurrently with the caller and return immediately.
type Spawner interface {
	Spawn(ctx context.Context, index int, run func()) (Child, error)
}

// SpawnerFunc adapts a function to the [Spawner] interface.
type SpawnerFunc func(ctx context.Context, index int, run func()) (Child, error)

// Spawn implements Spawner.Spawn.
func (f SpawnerFunc) Spawn(ctx context.Context, index int, run func()) (Child, error) {
	return f(ctx, index, run)
}

// GoroutineSpawner runs every team member on its own goroutine. It is the
// default [Spawner] and never fails.
type GoroutineSpawner struct{}

// Spawn implements Spawner.Spawn.
func (GoroutineSpawner) Spawn(_ context.Context, index int, run func()) (Child, error) {
	c := &goroutineChild{index: index, done: make(chan struct{})}
	go func() {
		defer close(c.done)
		run()
	}()
	return c, nil
}

type goroutineChild struct {
	index int
	done  chan struct{}
}

func (c *goroutineChild) Index() int            { return c.index }
func (c *goroutineChild) Wait()                 { <-c.done }
func (c *goroutineChild) Done() <-chan struct{} { return c.done }
