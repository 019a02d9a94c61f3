// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package osal

import (
	"errors"
	"io"
	"os"
)

// Default capacities, zero meaning "allocate from the heap".
const (
	DefaultThreadCapacity    = 0
	DefaultMutexCapacity     = 0
	DefaultSemaphoreCapacity = 0
)

// config holds configuration options for System creation.
type config struct {
	host              Host
	logger            *Logger
	out               io.Writer
	err               io.Writer
	threadCapacity    int
	mutexCapacity     int
	semaphoreCapacity int
	heapMode          HeapMode
	threadAffinity    bool
	realtimePolicy    bool
}

// Option configures the [System] constructed by [Run].
type Option interface {
	applyOption(*config) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyOptionFunc func(*config) error
}

func (o *optionImpl) applyOption(c *config) error {
	return o.applyOptionFunc(c)
}

// WithThreadCapacity sets the number of threads that may be live at once.
// Zero allocates threads from the heap, and none at all with [HeapNone].
// A negative capacity causes the scheduler to fail construction.
func WithThreadCapacity(capacity int) Option {
	return &optionImpl{func(c *config) error {
		c.threadCapacity = capacity
		return nil
	}}
}

// WithMutexCapacity sets the number of mutexes that may be live at once.
// See also [WithThreadCapacity].
func WithMutexCapacity(capacity int) Option {
	return &optionImpl{func(c *config) error {
		c.mutexCapacity = capacity
		return nil
	}}
}

// WithSemaphoreCapacity sets the number of semaphores that may be live at
// once. See also [WithThreadCapacity].
func WithSemaphoreCapacity(capacity int) Option {
	return &optionImpl{func(c *config) error {
		c.semaphoreCapacity = capacity
		return nil
	}}
}

// WithHeapMode sets the heap mode, [HeapDynamic] by default.
func WithHeapMode(mode HeapMode) Option {
	return &optionImpl{func(c *config) error {
		c.heapMode = mode
		return nil
	}}
}

// WithThreadAffinity enables pinning threads to the CPU of the primary
// thread. When disabled (default), it is as if pinning trivially succeeded.
func WithThreadAffinity(enabled bool) Option {
	return &optionImpl{func(c *config) error {
		c.threadAffinity = enabled
		return nil
	}}
}

// WithRealtimePolicy enables the round-robin real-time scheduling policy.
// When disabled (default), it is as if setting the policy trivially
// succeeded. Typically requires elevated privileges.
func WithRealtimePolicy(enabled bool) Option {
	return &optionImpl{func(c *config) error {
		c.realtimePolicy = enabled
		return nil
	}}
}

// WithHost overrides the host binding, see [DefaultHost].
func WithHost(host Host) Option {
	return &optionImpl{func(c *config) error {
		if host == nil {
			return errors.New(`osal: nil host`)
		}
		c.host = host
		return nil
	}}
}

// WithLogger sets the structured logger. A nil logger disables logging,
// which is the default.
func WithLogger(logger *Logger) Option {
	return &optionImpl{func(c *config) error {
		c.logger = logger
		return nil
	}}
}

// WithStreams sets the initial output and error streams, of the
// [StreamManager]. Defaults to os.Stdout and os.Stderr. A nil stream causes
// the stream manager to fail construction.
func WithStreams(out, err io.Writer) Option {
	return &optionImpl{func(c *config) error {
		c.out = out
		c.err = err
		return nil
	}}
}

// resolveOptions applies Option instances to config.
func resolveOptions(opts []Option) (*config, error) {
	c := &config{
		threadCapacity:    DefaultThreadCapacity,
		mutexCapacity:     DefaultMutexCapacity,
		semaphoreCapacity: DefaultSemaphoreCapacity,
		heapMode:          HeapDynamic,
		out:               os.Stdout,
		err:               os.Stderr,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyOption(c); err != nil {
			return nil, err
		}
	}
	if c.host == nil {
		c.host = DefaultHost()
	}
	return c, nil
}
