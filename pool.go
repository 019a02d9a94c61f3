package osal

import (
	"sync"
)

type (
	// Pool is a fixed-capacity store, issuing at most N concurrently live
	// values of one resource type. Slots are addressed by index, and each
	// issue of a slot is identified by a generation, so a [Handle] that
	// outlives its release is detected rather than aliasing the next owner.
	//
	// With a capacity of zero, slots are drawn from the heap on demand, unless
	// the heap is [HeapNone], in which case the pool is valid but empty.
	//
	// Instances must be initialized using the NewPool factory.
	Pool[T any] struct {
		constructed
		heap     *Heap
		mu       sync.Locker
		slots    []*poolSlot[T]
		free     []int // stack of free slot indices
		capacity int
		live     int
		closed   bool
	}

	// Handle identifies one live value issued by a [Pool]. The zero value is
	// not valid. Handles are small values, copies refer to the same issue,
	// and all of them are invalidated by the release.
	Handle[T any] struct {
		pool  *Pool[T]
		index int
		gen   uint64
	}

	poolSlot[T any] struct {
		value  T
		gen    uint64
		live   bool
		onHeap bool
	}
)

// NewPool initializes a pool of the given capacity, serialized by mu. The
// returned pool is never nil, but it must be checked using IsConstructed,
// which is false if capacity is negative, or mu or heap are unusable.
func NewPool[T any](capacity int, heap *Heap, mu sync.Locker) *Pool[T] {
	x := Pool[T]{
		heap:     heap,
		mu:       mu,
		capacity: capacity,
	}
	if capacity < 0 || mu == nil || !heap.IsConstructed() {
		return &x
	}
	if capacity > 0 {
		// one contiguous region, never grown
		region := make([]poolSlot[T], capacity)
		x.slots = make([]*poolSlot[T], capacity)
		x.free = make([]int, capacity)
		for i := range region {
			x.slots[i] = &region[i]
			// lowest index on top
			x.free[capacity-1-i] = i
		}
	}
	x.setConstructed(true)
	return &x
}

// IsConstructed implements [Object].
func (x *Pool[T]) IsConstructed() bool {
	return x != nil && x.constructed.IsConstructed()
}

// Cap returns the configured capacity, zero meaning heap backed (or none).
func (x *Pool[T]) Cap() int {
	if x == nil {
		return 0
	}
	return x.capacity
}

// Len returns the number of live values.
func (x *Pool[T]) Len() int {
	if !x.IsConstructed() {
		return 0
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.live
}

// Acquire takes a free slot, resets it to the zero value, and runs init on
// it, all while holding the pool lock. If init is nil, the zero value is
// used. If init returns false, the slot is returned to the pool, and
// ErrResourceNotConstructed is returned.
func (x *Pool[T]) Acquire(init func(v *T) bool) (Handle[T], error) {
	if !x.IsConstructed() {
		return Handle[T]{}, ErrNotConstructed
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return Handle[T]{}, ErrNotConstructed
	}

	index, ok := x.takeSlot()
	if !ok {
		return Handle[T]{}, ErrPoolExhausted
	}

	slot := x.slots[index]
	var zero T
	slot.value = zero
	if init != nil && !init(&slot.value) {
		slot.value = zero
		x.free = append(x.free, index)
		return Handle[T]{}, ErrResourceNotConstructed
	}

	slot.gen++
	slot.live = true
	x.live++

	return Handle[T]{pool: x, index: index, gen: slot.gen}, nil
}

// Release returns the value identified by h to the pool. The value is left
// as is, it is reset by the Acquire that next issues the slot. Releasing a
// stale handle (including releasing twice) returns ErrReleased, without side
// effects.
func (x *Pool[T]) Release(h Handle[T]) error {
	if !x.IsConstructed() {
		return ErrNotConstructed
	}
	if h.pool != x {
		return ErrReleased
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return ErrReleased
	}

	slot := x.slotOf(h)
	if slot == nil {
		return ErrReleased
	}

	slot.live = false
	x.live--
	x.free = append(x.free, h.index)

	return nil
}

// Close invalidates all outstanding handles, and returns heap-backed slots
// to the heap. Values that were not released are leaked, from the
// perspective of their owners. It is safe to call on a pool that failed to
// construct, and more than once.
func (x *Pool[T]) Close() {
	if !x.IsConstructed() {
		return
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return
	}
	x.closed = true

	for _, slot := range x.slots {
		slot.gen++
		slot.live = false
		if slot.onHeap {
			heapDelete(x.heap, slot)
		}
	}
	x.slots = nil
	x.free = nil
	x.live = 0
}

// takeSlot must be called with the lock held.
func (x *Pool[T]) takeSlot() (int, bool) {
	if n := len(x.free); n != 0 {
		index := x.free[n-1]
		x.free = x.free[:n-1]
		return index, true
	}
	if x.capacity != 0 || x.heap.Mode() == HeapNone {
		return 0, false
	}
	slot := heapNew[poolSlot[T]](x.heap)
	if slot == nil {
		return 0, false
	}
	slot.onHeap = true
	x.slots = append(x.slots, slot)
	return len(x.slots) - 1, true
}

// slotOf must be called with the lock held.
func (x *Pool[T]) slotOf(h Handle[T]) *poolSlot[T] {
	if h.index < 0 || h.index >= len(x.slots) {
		return nil
	}
	slot := x.slots[h.index]
	if !slot.live || slot.gen != h.gen {
		return nil
	}
	return slot
}

// value returns the live value, or ErrReleased.
func (x *Pool[T]) value(h Handle[T]) (v *T, err error) {
	err = x.with(h, func(p *T) { v = p })
	return
}

// with runs fn on the live value while holding the pool lock, which orders
// it against the reset performed when the slot is next acquired.
func (x *Pool[T]) with(h Handle[T], fn func(v *T)) error {
	if !x.IsConstructed() {
		return ErrReleased
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.closed {
		return ErrReleased
	}
	slot := x.slotOf(h)
	if slot == nil {
		return ErrReleased
	}
	fn(&slot.value)
	return nil
}

// Valid reports whether h still identifies a live value.
func (x Handle[T]) Valid() bool {
	_, err := x.Value()
	return err == nil
}

// Value returns a pointer to the live value, or ErrReleased if the handle is
// zero, stale, or its pool was closed.
//
// The pointer must not be retained past the release of the handle.
func (x Handle[T]) Value() (*T, error) {
	if x.pool == nil {
		return nil, ErrReleased
	}
	return x.pool.value(x)
}

// with runs fn on the live value, see Pool.with.
func (x Handle[T]) with(fn func(v *T)) error {
	if x.pool == nil {
		return ErrReleased
	}
	return x.pool.with(x, fn)
}

// Index returns the slot index, which identifies the value among all those
// live in the same pool.
func (x Handle[T]) Index() int {
	return x.index
}
