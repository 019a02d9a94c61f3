//go:build linux

package host

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	// SCHED_RR, from sched.h
	schedRR = 2
	// SCHED_RESET_ON_FORK may be or'd into the policy read back
	schedResetOnFork = 0x40000000
)

type (
	// POSIX is the linux host. The affinity and policy are applied to the
	// calling OS thread, and recorded, to be applied to each thread started
	// afterwards, via ConfigureThread.
	POSIX struct {
		mu       sync.Mutex
		affinity *unix.CPUSet
		priority int32
		realtime bool
	}

	// schedParam mirrors struct sched_param
	schedParam struct {
		priority int32
	}
)

// PinCurrentCPU implements the scheduler Host interface.
func (x *POSIX) PinCurrentCPU() error {
	cpu, err := getcpu()
	if err != nil {
		return fmt.Errorf(`host: getcpu: %w`, err)
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf(`host: sched_setaffinity: %w`, err)
	}

	var actual unix.CPUSet
	if err := unix.SchedGetaffinity(0, &actual); err != nil {
		return fmt.Errorf(`host: sched_getaffinity: %w`, err)
	}
	if actual.Count() != 1 || !actual.IsSet(cpu) {
		return fmt.Errorf(`host: affinity not pinned to cpu %d`, cpu)
	}

	x.mu.Lock()
	x.affinity = &set
	x.mu.Unlock()

	return nil
}

// SetRoundRobinPolicy implements the scheduler Host interface.
func (x *POSIX) SetRoundRobinPolicy() error {
	lo, _, errno := unix.RawSyscall(unix.SYS_SCHED_GET_PRIORITY_MIN, schedRR, 0, 0)
	if errno != 0 {
		return fmt.Errorf(`host: sched_get_priority_min: %w`, errno)
	}
	hi, _, errno := unix.RawSyscall(unix.SYS_SCHED_GET_PRIORITY_MAX, schedRR, 0, 0)
	if errno != 0 {
		return fmt.Errorf(`host: sched_get_priority_max: %w`, errno)
	}

	priority := (int32(lo) + int32(hi)) / 2
	if err := setRoundRobin(priority); err != nil {
		return err
	}

	x.mu.Lock()
	x.priority = priority
	x.realtime = true
	x.mu.Unlock()

	return nil
}

// ConfigureThread implements the scheduler Host interface.
func (x *POSIX) ConfigureThread() error {
	x.mu.Lock()
	affinity, priority, realtime := x.affinity, x.priority, x.realtime
	x.mu.Unlock()

	if affinity != nil {
		set := *affinity
		if err := unix.SchedSetaffinity(0, &set); err != nil {
			return fmt.Errorf(`host: sched_setaffinity: %w`, err)
		}
	}
	if realtime {
		if err := setRoundRobin(priority); err != nil {
			return err
		}
	}
	return nil
}

// SleepSeconds implements the scheduler Host interface. Like sleep(3), an
// interrupted sleep returns the seconds remaining, rounded up.
func (*POSIX) SleepSeconds(s uint32) uint32 {
	req := unix.NsecToTimespec(int64(time.Duration(s) * time.Second))
	var rem unix.Timespec
	if err := unix.Nanosleep(&req, &rem); err != unix.EINTR {
		return 0
	}
	sec, nsec := rem.Unix()
	if nsec > 0 {
		sec++
	}
	return uint32(sec)
}

// SleepMillis implements the scheduler Host interface. Interruptions are
// resumed with the remaining time, as the Go runtime itself delivers signals
// to its threads.
func (*POSIX) SleepMillis(ms uint32) error {
	req := unix.NsecToTimespec(int64(time.Duration(ms) * time.Millisecond))
	for {
		var rem unix.Timespec
		err := unix.Nanosleep(&req, &rem)
		if err == nil {
			return nil
		}
		if err != unix.EINTR {
			return fmt.Errorf(`host: nanosleep: %w`, err)
		}
		req = rem
	}
}

// Yield implements the scheduler Host interface.
func (*POSIX) Yield() error {
	if _, _, errno := unix.Syscall(unix.SYS_SCHED_YIELD, 0, 0, 0); errno != 0 {
		return fmt.Errorf(`host: sched_yield: %w`, errno)
	}
	return nil
}

func getcpu() (int, error) {
	var cpu, node uint32
	_, _, errno := unix.RawSyscall(unix.SYS_GETCPU, uintptr(unsafe.Pointer(&cpu)), uintptr(unsafe.Pointer(&node)), 0)
	if errno != 0 {
		return 0, errno
	}
	return int(cpu), nil
}

// setRoundRobin sets and verifies the policy of the calling thread.
func setRoundRobin(priority int32) error {
	param := schedParam{priority: priority}
	if _, _, errno := unix.RawSyscall(unix.SYS_SCHED_SETSCHEDULER, 0, schedRR, uintptr(unsafe.Pointer(&param))); errno != 0 {
		return fmt.Errorf(`host: sched_setscheduler: %w`, errno)
	}
	policy, _, errno := unix.RawSyscall(unix.SYS_SCHED_GETSCHEDULER, 0, 0, 0)
	if errno != 0 {
		return fmt.Errorf(`host: sched_getscheduler: %w`, errno)
	}
	if policy&^schedResetOnFork != schedRR {
		return fmt.Errorf(`host: unexpected policy %d`, policy)
	}
	return nil
}
