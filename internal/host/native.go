// Package host implements the bindings to concrete operating systems, for
// the scheduler. POSIX is the linux binding, Native is the portable minimal
// binding, used where nothing better is available.
package host

import (
	"errors"
	"runtime"
	"time"
)

// Native is the portable host, which relies only on the Go runtime. It
// cannot pin affinity or change the scheduling policy.
type Native struct{}

// for testing purposes
var (
	timeSleep = time.Sleep
)

// PinCurrentCPU is unsupported.
func (*Native) PinCurrentCPU() error {
	return errors.ErrUnsupported
}

// SetRoundRobinPolicy is unsupported.
func (*Native) SetRoundRobinPolicy() error {
	return errors.ErrUnsupported
}

// ConfigureThread has nothing to apply.
func (*Native) ConfigureThread() error {
	return nil
}

// SleepSeconds sleeps for s seconds, it is never interrupted.
func (*Native) SleepSeconds(s uint32) uint32 {
	timeSleep(time.Duration(s) * time.Second)
	return 0
}

// SleepMillis sleeps for ms milliseconds.
func (*Native) SleepMillis(ms uint32) error {
	timeSleep(time.Duration(ms) * time.Millisecond)
	return nil
}

// Yield yields the processor, allowing other goroutines to run.
func (*Native) Yield() error {
	runtime.Gosched()
	return nil
}
