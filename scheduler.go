package osal

import (
	"sync/atomic"
)

// Scheduler manages the thread resources of a [System], and binds them to
// the host scheduler.
type Scheduler struct {
	manager[threadState]
	host Host
	ids  atomic.Uint64
}

// newScheduler constructs the scheduler on the calling OS thread, which
// must be locked, as the host configuration applies to it.
func newScheduler(cfg *config, heap *Heap) *Scheduler {
	x := Scheduler{host: cfg.host}

	ok := x.construct(`thread`, cfg.threadCapacity, heap, &threadAllocator, cfg.logger)

	// disabled features are treated as having succeeded
	if ok && cfg.threadAffinity {
		if err := x.host.PinCurrentCPU(); err != nil {
			x.logger.Err().
				Err(err).
				Log(`osal: failed to pin cpu affinity`)
			ok = false
		}
	}
	if ok && cfg.realtimePolicy {
		if err := x.host.SetRoundRobinPolicy(); err != nil {
			x.logger.Err().
				Err(err).
				Log(`osal: failed to set round-robin policy`)
			ok = false
		}
	}

	x.setConstructed(ok)
	return &x
}

// IsConstructed implements [Object].
func (x *Scheduler) IsConstructed() bool {
	return x != nil && x.constructed.IsConstructed()
}

// CreateThread allocates a new thread for task. The thread is not started.
// A nil task fails with ErrResourceNotConstructed.
func (x *Scheduler) CreateThread(task Task) (Thread, error) {
	if !x.IsConstructed() {
		return Thread{}, ErrNotConstructed
	}
	id := x.ids.Add(1)
	h, err := x.create(func(v *threadState) bool {
		if !validTask(task) {
			return false
		}
		v.run = &threadRun{
			task:   task,
			host:   x.host,
			logger: x.logger,
			done:   make(chan struct{}),
			id:     id,
		}
		return true
	})
	if err != nil {
		return Thread{}, err
	}
	return Thread{handle: h}, nil
}

// Sleep blocks the calling thread for ms milliseconds, returning false if ms
// is negative, or the sleep failed. Whole seconds are slept first, resuming
// on interruption until none remain, then the sub-second remainder.
func (x *Scheduler) Sleep(ms int32) bool {
	if !x.IsConstructed() || ms < 0 {
		return false
	}
	for s := uint32(ms / 1000); s != 0; s = x.host.SleepSeconds(s) {
	}
	r := uint32(ms % 1000)
	if r == 0 {
		return true
	}
	if err := x.host.SleepMillis(r); err != nil {
		x.logger.Debug().
			Err(err).
			Log(`osal: sleep failed`)
		return false
	}
	return true
}

// Yield relinquishes the current timeslice of the calling thread.
func (x *Scheduler) Yield() bool {
	if !x.IsConstructed() {
		return false
	}
	return x.host.Yield() == nil
}

// Len returns the number of live threads.
func (x *Scheduler) Len() int {
	if x == nil {
		return 0
	}
	return x.pool.memory.Len()
}
