package osal

import (
	"errors"
)

// Exit codes returned by [Run].
const (
	ExitSuccess = 0
	ExitFailure = -1
)

// Standard errors.
var (
	// ErrNotConstructed is returned by operations on an object that failed
	// to construct, or has been torn down.
	ErrNotConstructed = errors.New(`osal: object is not constructed`)

	// ErrPoolExhausted is returned when a resource pool has no free slot.
	ErrPoolExhausted = errors.New(`osal: resource pool exhausted`)

	// ErrResourceNotConstructed is returned when a resource was allocated,
	// but its own construction failed. The slot is returned to the pool.
	ErrResourceNotConstructed = errors.New(`osal: resource failed to construct`)

	// ErrReleased is returned when a handle is used after it was released,
	// including attempts to release it twice.
	ErrReleased = errors.New(`osal: resource handle released`)

	// ErrNotRegistered is returned by the static allocation entry points
	// when no pool is registered for the resource type.
	ErrNotRegistered = errors.New(`osal: no allocator registered`)

	// ErrThreadStarted is returned when starting a thread more than once.
	ErrThreadStarted = errors.New(`osal: thread already started`)

	// ErrThreadNotStarted is returned when joining a thread that was never
	// started.
	ErrThreadNotStarted = errors.New(`osal: thread not started`)
)
