package osal

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newTestPool[T any](t *testing.T, capacity int, heap *Heap) *Pool[T] {
	t.Helper()
	pool := NewPool[T](capacity, heap, new(sync.Mutex))
	require.True(t, pool.IsConstructed())
	t.Cleanup(pool.Close)
	return pool
}

func TestNewPool_notConstructed(t *testing.T) {
	for _, tc := range [...]struct {
		name     string
		capacity int
		heap     *Heap
		mu       sync.Locker
	}{
		{`negative capacity`, -1, newHeap(HeapDynamic, nil), new(sync.Mutex)},
		{`nil mutex`, 1, newHeap(HeapDynamic, nil), nil},
		{`nil heap`, 1, nil, new(sync.Mutex)},
		{`invalid heap`, 1, newHeap(HeapMode(9), nil), new(sync.Mutex)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			pool := NewPool[int](tc.capacity, tc.heap, tc.mu)
			require.NotNil(t, pool)
			require.False(t, pool.IsConstructed())

			h, err := pool.Acquire(nil)
			require.ErrorIs(t, err, ErrNotConstructed)
			require.False(t, h.Valid())
			require.ErrorIs(t, pool.Release(h), ErrNotConstructed)
			require.Equal(t, 0, pool.Len())

			pool.Close()
			pool.Close()
		})
	}
}

func TestPool_fixedCapacity(t *testing.T) {
	const capacity = 3
	heap := newTestHeap(t, HeapDynamic)
	pool := newTestPool[int](t, capacity, heap)
	require.Equal(t, capacity, pool.Cap())

	var handles []Handle[int]
	for i := 0; i < capacity; i++ {
		h, err := pool.Acquire(func(v *int) bool {
			*v = i + 1
			return true
		})
		require.NoError(t, err)
		require.Equal(t, i, h.Index(), `lowest free index first`)
		handles = append(handles, h)
	}
	require.Equal(t, capacity, pool.Len())

	_, err := pool.Acquire(nil)
	require.ErrorIs(t, err, ErrPoolExhausted)
	require.Equal(t, capacity, pool.Len())

	for i, h := range handles {
		v, err := h.Value()
		require.NoError(t, err)
		require.Equal(t, i+1, *v)
	}

	// preallocated, the heap is never touched
	require.Equal(t, HeapStats{}, heap.Stats())

	require.NoError(t, pool.Release(handles[1]))
	require.Equal(t, capacity-1, pool.Len())

	h, err := pool.Acquire(nil)
	require.NoError(t, err)
	require.Equal(t, 1, h.Index())
	v, err := h.Value()
	require.NoError(t, err)
	require.Equal(t, 0, *v, `reused slot is reset`)
}

func TestPool_Release_stale(t *testing.T) {
	pool := newTestPool[string](t, 1, newTestHeap(t, HeapDynamic))

	h1, err := pool.Acquire(func(v *string) bool {
		*v = `first`
		return true
	})
	require.NoError(t, err)
	copied := h1
	p1, err := h1.Value()
	require.NoError(t, err)
	require.NoError(t, pool.Release(h1))
	require.Equal(t, `first`, *p1, `left intact until reissued`)
	require.ErrorIs(t, pool.Release(h1), ErrReleased)
	require.ErrorIs(t, pool.Release(copied), ErrReleased)
	require.False(t, copied.Valid())

	h2, err := pool.Acquire(func(v *string) bool {
		*v = `second`
		return true
	})
	require.NoError(t, err)
	require.Equal(t, h1.Index(), h2.Index())

	// the old handle must not alias the new issue of the slot
	_, err = h1.Value()
	require.ErrorIs(t, err, ErrReleased)
	require.ErrorIs(t, pool.Release(h1), ErrReleased)
	v, err := h2.Value()
	require.NoError(t, err)
	require.Equal(t, `second`, *v)
	require.Equal(t, 1, pool.Len())
}

func TestPool_Release_foreignHandle(t *testing.T) {
	heap := newTestHeap(t, HeapDynamic)
	a := newTestPool[int](t, 1, heap)
	b := newTestPool[int](t, 1, heap)

	h, err := a.Acquire(nil)
	require.NoError(t, err)
	require.ErrorIs(t, b.Release(h), ErrReleased)
	require.True(t, h.Valid())
	require.ErrorIs(t, b.Release(Handle[int]{}), ErrReleased)
}

func TestHandle_zero(t *testing.T) {
	var h Handle[int]
	require.False(t, h.Valid())
	_, err := h.Value()
	require.ErrorIs(t, err, ErrReleased)
}

func TestPool_Acquire_initFailure(t *testing.T) {
	pool := newTestPool[int](t, 1, newTestHeap(t, HeapDynamic))

	_, err := pool.Acquire(func(v *int) bool {
		*v = 5
		return false
	})
	require.ErrorIs(t, err, ErrResourceNotConstructed)
	require.Equal(t, 0, pool.Len())

	h, err := pool.Acquire(nil)
	require.NoError(t, err, `slot returned to the pool`)
	v, err := h.Value()
	require.NoError(t, err)
	require.Equal(t, 0, *v)
}

func TestPool_heapBacked(t *testing.T) {
	const n = 100
	heap := newTestHeap(t, HeapDynamic)
	pool := NewPool[int](0, heap, new(sync.Mutex))
	require.True(t, pool.IsConstructed())
	require.Equal(t, 0, pool.Cap())

	handles := make([]Handle[int], 0, n)
	for i := 0; i < n; i++ {
		h, err := pool.Acquire(nil)
		require.NoError(t, err)
		handles = append(handles, h)
	}
	require.Equal(t, n, pool.Len())
	require.Equal(t, int64(n), heap.Stats().Blocks)

	for _, h := range handles {
		require.NoError(t, pool.Release(h))
	}
	for i := 0; i < n; i++ {
		_, err := pool.Acquire(nil)
		require.NoError(t, err)
	}
	require.Equal(t, int64(n), heap.Stats().Blocks, `free slots are reused`)

	pool.Close()
	require.Equal(t, HeapStats{}, heap.Stats())
	for _, h := range handles {
		require.False(t, h.Valid())
	}
}

func TestPool_noHeap(t *testing.T) {
	heap := newTestHeap(t, HeapNone)

	t.Run(`zero capacity`, func(t *testing.T) {
		pool := newTestPool[int](t, 0, heap)
		_, aborted := catchAbort(func() {
			for i := 0; i < 3; i++ {
				_, err := pool.Acquire(nil)
				require.ErrorIs(t, err, ErrPoolExhausted)
			}
		})
		require.False(t, aborted)
	})

	t.Run(`fixed capacity`, func(t *testing.T) {
		pool := newTestPool[int](t, 2, heap)
		_, aborted := catchAbort(func() {
			a, err := pool.Acquire(nil)
			require.NoError(t, err)
			_, err = pool.Acquire(nil)
			require.NoError(t, err)
			_, err = pool.Acquire(nil)
			require.ErrorIs(t, err, ErrPoolExhausted)
			require.NoError(t, pool.Release(a))
			_, err = pool.Acquire(nil)
			require.NoError(t, err)
		})
		require.False(t, aborted)
	})
}

func TestPool_Close(t *testing.T) {
	pool := NewPool[int](2, newTestHeap(t, HeapDynamic), new(sync.Mutex))
	h, err := pool.Acquire(nil)
	require.NoError(t, err)

	pool.Close()
	require.False(t, h.Valid())
	require.ErrorIs(t, pool.Release(h), ErrReleased)
	_, err = pool.Acquire(nil)
	require.ErrorIs(t, err, ErrNotConstructed)
	require.Equal(t, 0, pool.Len())
	pool.Close()
}

func TestPool_concurrentAcquire(t *testing.T) {
	const (
		capacity = 8
		extra    = 8
	)
	pool := newTestPool[int](t, capacity, newTestHeap(t, HeapDynamic))

	var (
		mu        sync.Mutex
		indices   = make(map[int]struct{})
		exhausted atomic.Int32
		start     = make(chan struct{})
		g         errgroup.Group
	)
	for i := 0; i < capacity+extra; i++ {
		g.Go(func() error {
			<-start
			h, err := pool.Acquire(nil)
			if errors.Is(err, ErrPoolExhausted) {
				exhausted.Add(1)
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			indices[h.Index()] = struct{}{}
			return nil
		})
	}
	close(start)
	require.NoError(t, g.Wait())

	assert.Len(t, indices, capacity, `every success has a distinct slot`)
	assert.Equal(t, int32(extra), exhausted.Load())
	assert.Equal(t, capacity, pool.Len())
}
