package osal

import (
	"errors"
	"sync"
	"time"

	"github.com/joeycumines/go-catrate"
)

type (
	// manager implements the subsystem manager pattern, shared by the
	// Scheduler, MutexManager and SemaphoreManager: one bounded pool of a
	// single resource type, registered as that type's static allocator.
	manager[T any] struct {
		constructed
		logger    *Logger
		allocator *allocator[T]
		pool      resourcePool[T]
		kind      string
	}

	// resourcePool pairs the pool with the mutex it requires.
	resourcePool[T any] struct {
		mu     sync.Mutex
		memory *Pool[T]
	}
)

// exhaustionLimiter rate limits the pool exhaustion warnings, per kind.
var exhaustionLimiter = catrate.NewLimiter(map[time.Duration]int{
	time.Second: 1,
	time.Minute: 10,
})

// construct initializes the manager in place, it must be called exactly once,
// and only by the owning constructor.
func (x *manager[T]) construct(kind string, capacity int, heap *Heap, alloc *allocator[T], logger *Logger) bool {
	x.kind = kind
	x.logger = logger
	x.allocator = alloc
	x.pool.memory = NewPool[T](capacity, heap, &x.pool.mu)

	ok := x.pool.memory.IsConstructed()
	if !ok {
		x.logger.Err().
			Str(`resource`, kind).
			Int(`capacity`, capacity).
			Log(`osal: resource pool failed to construct`)
	} else if ok = x.allocator.initialize(x.pool.memory); !ok {
		x.logger.Err().
			Str(`resource`, kind).
			Log(`osal: resource allocator already registered`)
	}

	x.setConstructed(ok)
	return ok
}

// create allocates a resource through the static allocator, running init as
// the placement constructor.
func (x *manager[T]) create(init func(v *T) bool) (Handle[T], error) {
	if !x.constructed.IsConstructed() {
		return Handle[T]{}, ErrNotConstructed
	}
	h, err := x.allocator.allocate(x.logger, init)
	if err != nil {
		if errors.Is(err, ErrPoolExhausted) {
			if _, ok := exhaustionLimiter.Allow(x.kind); ok {
				x.logger.Warning().
					Str(`resource`, x.kind).
					Int(`capacity`, x.pool.memory.Cap()).
					Log(`osal: resource pool exhausted`)
			}
		} else {
			x.logger.Debug().
				Str(`resource`, x.kind).
				Err(err).
				Log(`osal: resource creation failed`)
		}
		return Handle[T]{}, err
	}
	return h, nil
}

// destroy releases a resource through the static allocator.
func (x *manager[T]) destroy(h Handle[T]) error {
	return x.allocator.free(h)
}

// close tears down the manager, tolerating a failed construction.
func (x *manager[T]) close() {
	if x.allocator != nil {
		x.allocator.deinitialize(x.pool.memory)
	}
	x.pool.memory.Close()
	x.setConstructed(false)
}
