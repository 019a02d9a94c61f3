package osal

import (
	"github.com/joeycumines/go-osal/internal/host"
)

// Host is the binding to the concrete operating system, used by the
// [Scheduler]. The default is POSIX on linux, and a portable native host
// elsewhere.
//
// Implementations must be safe for concurrent use.
type Host interface {
	// PinCurrentCPU pins the calling OS thread to the CPU it is currently
	// running on, and records that affinity for ConfigureThread.
	PinCurrentCPU() error

	// SetRoundRobinPolicy sets the round-robin real-time policy, at the
	// midpoint of the allowed priority range, on the calling OS thread,
	// verifying it by reading it back, and records it for ConfigureThread.
	SetRoundRobinPolicy() error

	// ConfigureThread applies any recorded affinity and policy to the
	// calling OS thread, which must be locked to its goroutine.
	ConfigureThread() error

	// SleepSeconds blocks for up to s seconds, returning the number of
	// whole seconds not slept, e.g. if interrupted.
	SleepSeconds(s uint32) uint32

	// SleepMillis blocks for ms milliseconds, ms is less than 1000.
	SleepMillis(ms uint32) error

	// Yield relinquishes the current timeslice.
	Yield() error
}

// DefaultHost returns the host binding for the current platform.
func DefaultHost() Host {
	return host.Default()
}
