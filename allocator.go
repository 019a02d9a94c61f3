package osal

import (
	"sync"
)

// allocator is the process-wide allocation entry point for one resource
// type. The subsystem manager for that type registers its pool at
// construction, and clears the registration at teardown. Resources are only
// ever allocated through it, so a resource can't silently be allocated
// from an unintended pool.
type allocator[T any] struct {
	mu   sync.Mutex
	pool *Pool[T]
}

// the static allocators, one per resource type
var (
	threadAllocator    allocator[threadState]
	mutexAllocator     allocator[mutexState]
	semaphoreAllocator allocator[semaphoreState]
)

// initialize registers pool, returning false if any pool is already
// registered (first registration wins).
func (x *allocator[T]) initialize(pool *Pool[T]) bool {
	if pool == nil {
		return false
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.pool != nil {
		return false
	}
	x.pool = pool
	return true
}

// deinitialize clears the registration, if pool is the registered one.
func (x *allocator[T]) deinitialize(pool *Pool[T]) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.pool == pool {
		x.pool = nil
	}
}

func (x *allocator[T]) registered() *Pool[T] {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.pool
}

// allocate acquires from the registered pool. Without a registration it
// fails visibly: an abort in debug builds, ErrNotRegistered otherwise.
func (x *allocator[T]) allocate(logger *Logger, init func(v *T) bool) (Handle[T], error) {
	pool := x.registered()
	if pool == nil {
		if debugAssertions {
			abort(logger, `allocation without a registered allocator`)
		}
		return Handle[T]{}, ErrNotRegistered
	}
	return pool.Acquire(init)
}

// free releases to the registered pool, which must be the one h was
// issued by.
func (x *allocator[T]) free(h Handle[T]) error {
	pool := x.registered()
	if pool == nil {
		return ErrNotRegistered
	}
	if h.pool != pool {
		return ErrReleased
	}
	return pool.Release(h)
}
