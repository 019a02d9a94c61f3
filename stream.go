package osal

import (
	"io"
	"sync"
)

// StreamManager holds the output and error streams of a [System]. The
// initial streams, set via [WithStreams], are the defaults restored by
// ResetOut and ResetErr.
type StreamManager struct {
	constructed
	mu     sync.RWMutex
	out    io.Writer
	err    io.Writer
	defOut io.Writer
	defErr io.Writer
}

func newStreamManager(out, err io.Writer) *StreamManager {
	x := StreamManager{
		out:    out,
		err:    err,
		defOut: out,
		defErr: err,
	}
	x.setConstructed(out != nil && err != nil)
	return &x
}

// IsConstructed implements [Object].
func (x *StreamManager) IsConstructed() bool {
	return x != nil && x.constructed.IsConstructed()
}

// Out returns the current output stream, or io.Discard if not constructed.
func (x *StreamManager) Out() io.Writer {
	if !x.IsConstructed() {
		return io.Discard
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.out
}

// Err returns the current error stream, or io.Discard if not constructed.
func (x *StreamManager) Err() io.Writer {
	if !x.IsConstructed() {
		return io.Discard
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.err
}

// SetOut replaces the output stream, returning false if w is nil.
func (x *StreamManager) SetOut(w io.Writer) bool {
	if !x.IsConstructed() || w == nil {
		return false
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.out = w
	return true
}

// SetErr replaces the error stream, returning false if w is nil.
func (x *StreamManager) SetErr(w io.Writer) bool {
	if !x.IsConstructed() || w == nil {
		return false
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.err = w
	return true
}

// ResetOut restores the initial output stream.
func (x *StreamManager) ResetOut() {
	if !x.IsConstructed() {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.out = x.defOut
}

// ResetErr restores the initial error stream.
func (x *StreamManager) ResetErr() {
	if !x.IsConstructed() {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.err = x.defErr
}
