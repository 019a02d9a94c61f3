package osal

import (
	"context"
	"math"

	"golang.org/x/sync/semaphore"
)

type (
	// SemaphoreManager manages the counting semaphore resources of a
	// [System].
	SemaphoreManager struct {
		manager[semaphoreState]
	}

	// Semaphore is a handle to a counting semaphore resource, issued by
	// [SemaphoreManager.Create]. Copies refer to the same semaphore.
	Semaphore struct {
		handle Handle[semaphoreState]
	}

	semaphoreState struct {
		// weighted has a size of MaxInt64, with all but the available
		// permits held, so releases may exceed the initial count
		weighted *semaphore.Weighted
	}
)

func newSemaphoreManager(cfg *config, heap *Heap) *SemaphoreManager {
	var x SemaphoreManager
	x.construct(`semaphore`, cfg.semaphoreCapacity, heap, &semaphoreAllocator, cfg.logger)
	return &x
}

// IsConstructed implements [Object].
func (x *SemaphoreManager) IsConstructed() bool {
	return x != nil && x.constructed.IsConstructed()
}

// Create allocates a new semaphore with permits available. Negative permits
// fail with ErrResourceNotConstructed.
func (x *SemaphoreManager) Create(permits int32) (Semaphore, error) {
	if !x.IsConstructed() {
		return Semaphore{}, ErrNotConstructed
	}
	h, err := x.create(func(v *semaphoreState) bool {
		return v.init(permits)
	})
	if err != nil {
		return Semaphore{}, err
	}
	return Semaphore{handle: h}, nil
}

// Len returns the number of live semaphores.
func (x *SemaphoreManager) Len() int {
	if x == nil {
		return 0
	}
	return x.pool.memory.Len()
}

func (x *semaphoreState) init(permits int32) bool {
	if permits < 0 {
		return false
	}
	x.weighted = semaphore.NewWeighted(math.MaxInt64)
	return x.weighted.TryAcquire(math.MaxInt64 - int64(permits))
}

// IsConstructed implements [Object], it is false once the semaphore is
// closed.
func (x Semaphore) IsConstructed() bool {
	return x.handle.Valid()
}

// Acquire blocks until a permit is available, or ctx is done.
func (x Semaphore) Acquire(ctx context.Context) error {
	w, err := x.load()
	if err != nil {
		return err
	}
	return w.Acquire(ctx, 1)
}

// TryAcquire takes a permit if one is available, without blocking.
func (x Semaphore) TryAcquire() (bool, error) {
	w, err := x.load()
	if err != nil {
		return false, err
	}
	return w.TryAcquire(1), nil
}

// Release returns a permit, waking a waiter if any.
func (x Semaphore) Release() error {
	w, err := x.load()
	if err != nil {
		return err
	}
	w.Release(1)
	return nil
}

// Close releases the semaphore resource. Blocked acquirers must be unblocked
// first, e.g. via their context.
func (x Semaphore) Close() error {
	return semaphoreAllocator.free(x.handle)
}

func (x Semaphore) load() (w *semaphore.Weighted, err error) {
	err = x.handle.with(func(v *semaphoreState) { w = v.weighted })
	return
}
