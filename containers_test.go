package omp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/omp"
	"github.com/baxromumarov/omp/shared"
)

// Team members coordinate only through shared containers.

func TestSharedArrayAcrossTeam(t *testing.T) {
	rt := newRuntime(t)
	arr := shared.NewArray(5)
	require.NoError(t, rt.Parallel(context.Background(), 2, func(ctx context.Context, h *omp.Handle) error {
		for i := range h.Range(5).All() {
			arr.Set(1, i)
		}
		return nil
	}))
	assert.Equal(t, []float64{1, 1, 1, 1, 1}, arr.Snapshot())
}

func TestSharedListAcrossTeam(t *testing.T) {
	rt := newRuntime(t)
	list := shared.NewList[int]()
	require.NoError(t, rt.Parallel(context.Background(), 3, func(ctx context.Context, h *omp.Handle) error {
		for i := range h.Range(1000).All() {
			list.Append(i)
		}
		return nil
	}))
	assert.Equal(t, 1000, list.Len())
	got := sorted(list)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestSharedMapAcrossTeam(t *testing.T) {
	rt := newRuntime(t)
	m := shared.NewMap[int, int]()
	require.NoError(t, rt.Parallel(context.Background(), 4, func(ctx context.Context, h *omp.Handle) error {
		for i := range h.Range(400).All() {
			m.Set(i, i*i)
		}
		return nil
	}))
	assert.Equal(t, 400, m.Len())
	v, ok := m.Get(20)
	assert.True(t, ok)
	assert.Equal(t, 400, v)
}

func TestSharedQueueAcrossTeam(t *testing.T) {
	rt := newRuntime(t)
	q := shared.NewQueue[int]()
	require.NoError(t, rt.Parallel(context.Background(), 4, func(ctx context.Context, h *omp.Handle) error {
		for i := range h.Range(400).All() {
			if err := q.Put(i); err != nil {
				return err
			}
		}
		return nil
	}))
	assert.Equal(t, 400, q.Len())

	q.Close()
	seen := map[int]bool{}
	for {
		v, ok := q.Get()
		if !ok {
			break
		}
		seen[v] = true
	}
	assert.Len(t, seen, 400)
}

func TestSharedLockAcrossTeam(t *testing.T) {
	rt := newRuntime(t)
	counter := shared.NewArray()
	lock := shared.NewLock()
	require.NoError(t, rt.Parallel(context.Background(), 4, func(ctx context.Context, h *omp.Handle) error {
		for range h.Range(1000).All() {
			lock.Do(func() {
				counter.Update(func(data []float64) { data[0]++ })
			})
		}
		return nil
	}))
	assert.Equal(t, 1000.0, counter.At())
}

func TestReentrantLockAcrossTeam(t *testing.T) {
	rt := newRuntime(t)
	lock := shared.NewReentrantLock()
	entries := shared.NewList[int]()
	require.NoError(t, rt.Parallel(context.Background(), 2, func(ctx context.Context, h *omp.Handle) error {
		for range h.Range(1).All() {
			if err := lock.Lock(ctx); err != nil {
				return err
			}
			entries.Append(1)
			// Re-acquiring from the same member must not deadlock.
			err := lock.Do(ctx, func() {
				held, depth := lock.HeldBy(ctx)
				assert.True(t, held)
				assert.Equal(t, 2, depth)
				entries.Append(2)
			})
			lock.Unlock(ctx)
			if err != nil {
				return err
			}
		}
		return nil
	}))
	assert.Equal(t, []int{1, 2}, entries.Snapshot())
}

func TestReentrantLockSeparatesMembers(t *testing.T) {
	rt := newRuntime(t)
	lock := shared.NewReentrantLock()
	held := make(chan struct{})
	release := make(chan struct{})
	contended := make(chan bool, 1)

	require.NoError(t, rt.Parallel(context.Background(), 2, func(ctx context.Context, h *omp.Handle) error {
		if h.WorkerIndex() == 0 {
			if err := lock.Lock(ctx); err != nil {
				return err
			}
			close(held)
			<-release
			lock.Unlock(ctx)
			return nil
		}
		<-held
		contended <- !lock.TryLock(ctx)
		close(release)
		return lock.Do(ctx, func() {})
	}, omp.WithWorkerErrors()))
	assert.True(t, <-contended, "a sibling must not enter another member's lock")
}
