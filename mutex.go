package osal

import (
	"sync"
)

type (
	// MutexManager manages the mutex resources of a [System].
	MutexManager struct {
		manager[mutexState]
	}

	// Mutex is a handle to a mutex resource, issued by
	// [MutexManager.Create]. Copies refer to the same mutex.
	Mutex struct {
		handle Handle[mutexState]
	}

	mutexState struct {
		mu sync.Mutex
	}
)

func newMutexManager(cfg *config, heap *Heap) *MutexManager {
	var x MutexManager
	x.construct(`mutex`, cfg.mutexCapacity, heap, &mutexAllocator, cfg.logger)
	return &x
}

// IsConstructed implements [Object].
func (x *MutexManager) IsConstructed() bool {
	return x != nil && x.constructed.IsConstructed()
}

// Create allocates a new, unlocked mutex.
func (x *MutexManager) Create() (Mutex, error) {
	if !x.IsConstructed() {
		return Mutex{}, ErrNotConstructed
	}
	h, err := x.create(nil)
	if err != nil {
		return Mutex{}, err
	}
	return Mutex{handle: h}, nil
}

// Len returns the number of live mutexes.
func (x *MutexManager) Len() int {
	if x == nil {
		return 0
	}
	return x.pool.memory.Len()
}

// IsConstructed implements [Object], it is false once the mutex is closed.
func (x Mutex) IsConstructed() bool {
	return x.handle.Valid()
}

// Lock blocks until the mutex is acquired.
func (x Mutex) Lock() error {
	v, err := x.handle.Value()
	if err != nil {
		return err
	}
	v.mu.Lock()
	return nil
}

// TryLock acquires the mutex if it is not held, without blocking.
func (x Mutex) TryLock() (bool, error) {
	v, err := x.handle.Value()
	if err != nil {
		return false, err
	}
	return v.mu.TryLock(), nil
}

// Unlock releases the mutex. As with [sync.Mutex], unlocking a mutex that is
// not locked is a fatal runtime error.
func (x Mutex) Unlock() error {
	v, err := x.handle.Value()
	if err != nil {
		return err
	}
	v.mu.Unlock()
	return nil
}

// Close releases the mutex resource. It must not be held.
func (x Mutex) Close() error {
	return mutexAllocator.free(x.handle)
}
