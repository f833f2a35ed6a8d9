package shared

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPanic(t *testing.T, contains string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		require.Contains(t, fmt.Sprint(r), contains)
	}()
	fn()
}

func TestLock(t *testing.T) {
	l := NewLock()
	assert.False(t, l.Locked())
	l.Lock()
	assert.True(t, l.Locked())
	assert.False(t, l.TryLock())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.LockContext(ctx), context.DeadlineExceeded)

	l.Unlock()
	assert.True(t, l.TryLock())
	l.Unlock()

	mustPanic(t, "unlocked Lock", l.Unlock)
}

func TestLockCounter(t *testing.T) {
	l := NewLock()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				l.Do(func() { counter++ })
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 4000, counter)
}

func TestReentrantLock(t *testing.T) {
	l := NewReentrantLock()
	a := WithOwner(context.Background(), NewOwner())
	b := WithOwner(context.Background(), NewOwner())

	require.NoError(t, l.Lock(a))
	require.NoError(t, l.Lock(a))
	held, n := l.HeldBy(a)
	assert.True(t, held)
	assert.Equal(t, 2, n)

	assert.False(t, l.TryLock(b), "other owner must not acquire a held lock")

	l.Unlock(a)
	assert.False(t, l.TryLock(b), "one release is not enough")

	// The third acquire by the holder must not block.
	assert.True(t, l.TryLock(a))
	l.Unlock(a)
	l.Unlock(a)

	held, _ = l.HeldBy(a)
	assert.False(t, held)
	assert.True(t, l.TryLock(b))
	mustPanic(t, "not held by caller", func() { l.Unlock(a) })
	l.Unlock(b)
}

func TestReentrantLockBlocksOtherOwner(t *testing.T) {
	l := NewReentrantLock()
	a := WithOwner(context.Background(), NewOwner())
	b := WithOwner(context.Background(), NewOwner())

	require.NoError(t, l.Lock(a))

	acquired := make(chan struct{})
	go func() {
		_ = l.Do(b, func() {})
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("lock acquired while held by another owner")
	case <-time.After(20 * time.Millisecond):
	}

	l.Unlock(a)
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock not handed over after release")
	}
}

func TestReentrantLockAnonymous(t *testing.T) {
	l := NewReentrantLock()
	ctx := context.Background()
	assert.Equal(t, Owner(0), OwnerOf(ctx))

	require.NoError(t, l.Lock(ctx))
	assert.False(t, l.TryLock(ctx), "anonymous owners never re-enter")

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, l.Lock(cctx), context.Canceled)
	l.Unlock(ctx)
}

func TestReentrantLockAnonymousRelease(t *testing.T) {
	anon := context.Background()
	owned := WithOwner(anon, NewOwner())

	t.Run("any anonymous caller releases an anonymous hold", func(t *testing.T) {
		l := NewReentrantLock()
		require.NoError(t, l.Lock(anon))
		done := make(chan struct{})
		go func() {
			defer close(done)
			l.Unlock(context.Background())
		}()
		<-done
		assert.True(t, l.TryLock(owned), "lock must be free after the anonymous release")
		l.Unlock(owned)
	})

	t.Run("owned context cannot release an anonymous hold", func(t *testing.T) {
		l := NewReentrantLock()
		require.NoError(t, l.Lock(anon))
		mustPanic(t, "not held by caller", func() { l.Unlock(owned) })
		l.Unlock(anon)
	})

	t.Run("anonymous context cannot release an owned hold", func(t *testing.T) {
		l := NewReentrantLock()
		require.NoError(t, l.Lock(owned))
		mustPanic(t, "not held by caller", func() { l.Unlock(anon) })
		held, depth := l.HeldBy(owned)
		assert.True(t, held)
		assert.Equal(t, 1, depth)
		l.Unlock(owned)
	})

	t.Run("anonymous unlock of a free lock", func(t *testing.T) {
		mustPanic(t, "not held by caller", func() { NewReentrantLock().Unlock(anon) })
	})
}

func TestOwner(t *testing.T) {
	a, b := NewOwner(), NewOwner()
	assert.NotEqual(t, a, b)
	assert.NotZero(t, a)
	assert.Equal(t, a, OwnerOf(WithOwner(context.Background(), a)))
}

func TestSemaphore(t *testing.T) {
	sem := NewSemaphore(3)
	assert.Equal(t, 3, sem.Available())
	require.NoError(t, sem.Acquire(context.Background(), 2))
	assert.True(t, sem.TryAcquire(1))
	assert.False(t, sem.TryAcquire(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sem.Acquire(ctx, 1), context.Canceled)

	sem.Release(1)
	sem.Release(2)
	assert.Equal(t, 3, sem.Available())
	mustPanic(t, "released 1 slots with 0 held", func() { sem.Release(1) })
	mustPanic(t, "cannot acquire 4", func() { sem.TryAcquire(4) })
	mustPanic(t, "requires n > 0", func() { NewSemaphore(0) })
}

func TestSemaphoreWakesWaiter(t *testing.T) {
	sem := NewSemaphore(2)
	require.NoError(t, sem.Acquire(context.Background(), 2))

	acquired := make(chan error, 1)
	go func() {
		acquired <- sem.Acquire(context.Background(), 2)
	}()

	sem.Release(1)
	select {
	case <-acquired:
		t.Fatal("waiter acquired 2 slots with only 1 free")
	case <-time.After(20 * time.Millisecond):
	}

	sem.Release(1)
	select {
	case err := <-acquired:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiter not woken by release")
	}
	assert.Zero(t, sem.Available())
}

func TestList(t *testing.T) {
	l := NewList(1, 2)
	l.Append(3)
	l.Extend(4, 5)
	assert.Equal(t, 5, l.Len())
	assert.Equal(t, 1, l.Get(0))
	assert.Equal(t, 5, l.Get(-1))

	l.Set(-2, 40)
	assert.Equal(t, []int{1, 2, 3, 40, 5}, l.Snapshot())

	v, ok := l.Pop()
	assert.True(t, ok)
	assert.Equal(t, 5, v)

	var seen []int
	for i, v := range l.All() {
		assert.Equal(t, l.Get(i), v)
		seen = append(seen, v)
	}
	assert.Equal(t, []int{1, 2, 3, 40}, seen)

	mustPanic(t, "out of range", func() { l.Get(10) })

	empty := NewList[string]()
	_, ok = empty.Pop()
	assert.False(t, ok)
}

func TestListConcurrentAppend(t *testing.T) {
	l := NewList[float64]()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 250; j++ {
				l.Append(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000, l.Len())
}

func TestMap(t *testing.T) {
	m := NewMap[int, float64]()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w * 100; i < (w+1)*100; i++ {
				m.Set(i, 1)
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, 400, m.Len())

	v, ok := m.Get(42)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	assert.True(t, m.Delete(42))
	assert.False(t, m.Delete(42))
	_, ok = m.Get(42)
	assert.False(t, ok)

	assert.Equal(t, 2.0, m.Update(1, func(old float64, present bool) float64 {
		assert.True(t, present)
		return old + 1
	}))
	assert.Equal(t, 5.0, m.Update(1000, func(old float64, present bool) float64 {
		assert.False(t, present)
		return 5
	}))

	keys := m.Keys()
	sort.Ints(keys)
	assert.Len(t, keys, 400)
	assert.Equal(t, 0, keys[0])
	assert.Equal(t, 1000, keys[len(keys)-1])

	snap := m.Snapshot()
	snap[1] = 100
	v, _ = m.Get(1)
	assert.Equal(t, 2.0, v)
}

func TestQueue(t *testing.T) {
	q := NewQueue[int]()
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Put(i))
	}
	assert.Equal(t, 3, q.Len())

	for i := 0; i < 3; i++ {
		v, ok := q.Get()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	_, ok := q.TryGet()
	assert.False(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := q.GetContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueBlockingGet(t *testing.T) {
	q := NewQueue[string]()
	got := make(chan string)
	go func() {
		v, _ := q.Get()
		got <- v
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, q.Put("hello"))

	select {
	case v := <-got:
		assert.Equal(t, "hello", v)
	case <-time.After(time.Second):
		t.Fatal("Get did not unblock after Put")
	}
}

func TestQueueClose(t *testing.T) {
	q := NewQueue[int]()
	require.NoError(t, q.Put(1))

	done := make(chan error)
	q2 := NewQueue[int]()
	go func() {
		_, err := q2.GetContext(context.Background())
		done <- err
	}()

	q.Close()
	q.Close()
	q2.Close()

	assert.True(t, errors.Is(q.Put(2), ErrQueueClosed))
	v, ok := q.Get()
	assert.True(t, ok, "queued items survive Close")
	assert.Equal(t, 1, v)
	_, ok = q.Get()
	assert.False(t, ok)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(time.Second):
		t.Fatal("Close did not wake blocked getter")
	}
}

func TestArray(t *testing.T) {
	a := NewArray(5, 2)
	assert.Equal(t, []int{5, 2}, a.Shape())
	assert.Equal(t, 10, a.Len())

	a.Set(3, 4, 1)
	assert.Equal(t, 3.0, a.At(4, 1))
	assert.Equal(t, 3.0, a.Snapshot()[9])
	assert.Equal(t, 5.0, a.Add(2, 4, 1))

	a.Fill(1)
	assert.Equal(t, 10.0, a.Sum())

	a.Update(func(data []float64) {
		for i := range data {
			data[i] = float64(i)
		}
	})
	assert.Equal(t, 45.0, a.Sum())

	mustPanic(t, "out of range", func() { a.At(5, 0) })
	mustPanic(t, "rank 2", func() { a.At(1) })
	mustPanic(t, "negative", func() { NewArray(-1) })

	scalar := NewArray()
	scalar.Add(2)
	assert.Equal(t, 2.0, scalar.At())
}

func TestArrayWithLock(t *testing.T) {
	a := NewArray(1, 1)
	l := NewLock()
	var wg sync.WaitGroup
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				l.Do(func() { a.Set(a.At(0, 0)+1, 0, 0) })
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000.0, a.At(0, 0))
}
