package osal

import (
	"context"
	"runtime"
	"sync/atomic"
)

// ThreadStatus is the lifecycle state of a [Thread].
type ThreadStatus uint32

const (
	// ThreadCreated indicates the thread has not been started.
	ThreadCreated ThreadStatus = iota
	// ThreadRunning indicates the task is running (or about to).
	ThreadRunning
	// ThreadFinished indicates the task returned.
	ThreadFinished
	// ThreadFailed indicates the thread could not be configured, the task
	// was not run.
	ThreadFailed
)

// String returns a human-readable representation of the status.
func (s ThreadStatus) String() string {
	switch s {
	case ThreadCreated:
		return `created`
	case ThreadRunning:
		return `running`
	case ThreadFinished:
		return `finished`
	case ThreadFailed:
		return `failed`
	default:
		return `unknown`
	}
}

type (
	// Task is the unit of work run by a [Thread], or by [Run] on the primary
	// thread.
	Task interface {
		Start()
	}

	// TaskFunc adapts a function to [Task].
	TaskFunc func()

	// Thread is a handle to a thread resource, issued by
	// [Scheduler.CreateThread]. Copies refer to the same thread. It must be
	// closed, to return the resource to the pool.
	Thread struct {
		handle Handle[threadState]
	}

	// threadState is the pooled thread resource.
	threadState struct {
		run *threadRun
	}

	// threadRun is allocated per thread, so that it outlives the slot, which
	// may be reissued while a Join is still waiting on done.
	threadRun struct {
		task   Task
		host   Host
		logger *Logger
		done   chan struct{}
		err    error // written before done is closed
		id     uint64
		status atomic.Uint32
		start  atomic.Bool
	}
)

// Start calls f.
func (f TaskFunc) Start() {
	f()
}

func validTask(task Task) bool {
	if task == nil {
		return false
	}
	if f, ok := task.(TaskFunc); ok && f == nil {
		return false
	}
	return true
}

// IsConstructed implements [Object], it is false once the thread is closed.
func (x Thread) IsConstructed() bool {
	return x.handle.Valid()
}

// ID returns the scheduler-assigned identifier, or zero if the handle is not
// valid.
func (x Thread) ID() uint64 {
	r, err := x.load()
	if err != nil {
		return 0
	}
	return r.id
}

// Status returns the lifecycle state of the thread.
func (x Thread) Status() (ThreadStatus, error) {
	r, err := x.load()
	if err != nil {
		return 0, err
	}
	return ThreadStatus(r.status.Load()), nil
}

// Start runs the task on a new goroutine, locked to its own OS thread, which
// is configured by the host before the task runs. A thread may only be
// started once.
func (x Thread) Start() error {
	r, err := x.load()
	if err != nil {
		return err
	}
	if !r.start.CompareAndSwap(false, true) {
		return ErrThreadStarted
	}
	r.status.Store(uint32(ThreadRunning))
	go r.run()
	return nil
}

// Join waits for the started task to return, or ctx to be done. The error is
// non-nil if the host failed to configure the thread. Joining concurrently
// with Close returns either the result of the thread, or ErrReleased.
func (x Thread) Join(ctx context.Context) error {
	r, err := x.load()
	if err != nil {
		return err
	}
	if !r.start.Load() {
		return ErrThreadNotStarted
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return r.err
	}
}

// Close waits for a started task to return, then releases the thread.
func (x Thread) Close() error {
	r, err := x.load()
	if err != nil {
		return err
	}
	if r.start.Load() {
		<-r.done
	}
	return threadAllocator.free(x.handle)
}

func (x Thread) load() (r *threadRun, err error) {
	err = x.handle.with(func(v *threadState) { r = v.run })
	return
}

func (x *threadRun) run() {
	defer close(x.done)

	// never unlocked: exiting terminates the OS thread, discarding any
	// affinity or policy the host applied
	runtime.LockOSThread()

	if err := x.host.ConfigureThread(); err != nil {
		x.logger.Err().
			Uint64(`thread`, x.id).
			Err(err).
			Log(`osal: thread configuration failed`)
		x.err = err
		x.status.Store(uint32(ThreadFailed))
		return
	}

	x.task.Start()
	x.status.Store(uint32(ThreadFinished))
}
