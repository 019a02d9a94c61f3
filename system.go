package osal

import (
	"runtime"
	"sync/atomic"
)

// System aggregates the subsystems. At most one is active per process,
// published by [Run] for the duration of the task, and reachable via
// [GetSystem].
type System struct {
	constructed
	logger           *Logger
	heap             *Heap
	scheduler        *Scheduler
	mutexManager     *MutexManager
	semaphoreManager *SemaphoreManager
	streamManager    *StreamManager
	published        bool
}

// active is the process-wide system, set and cleared only by its owner
var active atomic.Pointer[System]

// for testing purposes
var (
	unlockOSThread = runtime.UnlockOSThread
)

// Run constructs the system, runs task on the calling goroutine, locked to
// its OS thread (the primary thread), then tears the system down. It returns
// ExitSuccess, or ExitFailure if the options are invalid, task is nil, or
// the system failed to construct, in which case task is not started.
//
// If [WithThreadAffinity] or [WithRealtimePolicy] are enabled, the calling
// goroutine is left locked to the primary thread, as the host may have
// reconfigured it. The thread is terminated when the goroutine exits,
// instead of being returned to the Go scheduler.
//
// The result is intended to be passed to os.Exit.
func Run(task Task, opts ...Option) int {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return ExitFailure
	}

	if !validTask(task) {
		cfg.logger.Err().
			Log(`osal: nil task`)
		return ExitFailure
	}

	runtime.LockOSThread()
	if !cfg.threadAffinity && !cfg.realtimePolicy {
		defer unlockOSThread()
	}

	x := newSystem(cfg)
	defer x.close()

	if !x.IsConstructed() {
		cfg.logger.Err().
			Log(`osal: system failed to construct`)
		return ExitFailure
	}

	cfg.logger.Info().
		Str(`heap`, cfg.heapMode.String()).
		Int(`threads`, cfg.threadCapacity).
		Int(`mutexes`, cfg.mutexCapacity).
		Int(`semaphores`, cfg.semaphoreCapacity).
		Log(`osal: system started`)

	task.Start()

	return ExitSuccess
}

// GetSystem returns the active system.
//
// WARNING: Calling it outside of [Run] aborts the process.
func GetSystem() *System {
	x := active.Load()
	if x == nil {
		abort(nil, `no active system`)
		return nil
	}
	return x
}

func newSystem(cfg *config) *System {
	x := System{logger: cfg.logger}

	x.heap = newHeap(cfg.heapMode, cfg.logger)
	x.scheduler = newScheduler(cfg, x.heap)
	x.mutexManager = newMutexManager(cfg, x.heap)
	x.semaphoreManager = newSemaphoreManager(cfg, x.heap)
	x.streamManager = newStreamManager(cfg.out, cfg.err)

	ok := allConstructed(
		x.heap,
		x.scheduler,
		x.mutexManager,
		x.semaphoreManager,
		x.streamManager,
	)

	if ok {
		if active.CompareAndSwap(nil, &x) {
			x.published = true
		} else {
			x.logger.Err().
				Log(`osal: another system is active`)
			ok = false
		}
	}

	x.setConstructed(ok)
	return &x
}

// IsConstructed implements [Object].
func (x *System) IsConstructed() bool {
	return x != nil && x.constructed.IsConstructed()
}

// Heap returns the heap.
func (x *System) Heap() *Heap {
	return x.heap
}

// Scheduler returns the scheduler.
func (x *System) Scheduler() *Scheduler {
	return x.scheduler
}

// MutexManager returns the mutex manager.
func (x *System) MutexManager() *MutexManager {
	return x.mutexManager
}

// SemaphoreManager returns the semaphore manager.
func (x *System) SemaphoreManager() *SemaphoreManager {
	return x.semaphoreManager
}

// StreamManager returns the stream manager.
func (x *System) StreamManager() *StreamManager {
	return x.streamManager
}

// close tears down in reverse order of construction.
func (x *System) close() {
	if x.published {
		active.CompareAndSwap(x, nil)
		x.published = false
	}
	x.semaphoreManager.close()
	x.mutexManager.close()
	x.scheduler.close()
	x.setConstructed(false)
	x.logger.Debug().
		Log(`osal: system torn down`)
}
