package osal

import (
	"fmt"
	"sync/atomic"
)

// HeapMode selects the allocation strategy of a [Heap].
type HeapMode uint8

const (
	// HeapDynamic backs allocations by the runtime allocator. Pools with a
	// capacity of zero draw their slots from the heap.
	HeapDynamic HeapMode = iota

	// HeapNone forbids dynamic allocation. All resource storage must come
	// from statically sized pools, and reaching an allocation is fatal.
	HeapNone
)

// String returns a human-readable representation of the mode.
func (m HeapMode) String() string {
	switch m {
	case HeapDynamic:
		return `dynamic`
	case HeapNone:
		return `none`
	default:
		return fmt.Sprintf(`HeapMode(%d)`, uint8(m))
	}
}

func (m HeapMode) valid() bool {
	return m == HeapDynamic || m == HeapNone
}

type (
	// Heap is the single indirection point between a request for memory and
	// the allocation strategy. Exactly one exists per [System].
	Heap struct {
		constructed
		logger *Logger
		mode   HeapMode
		blocks atomic.Int64
		bytes  atomic.Int64
	}

	// HeapStats is a snapshot of live heap allocations.
	HeapStats struct {
		// Blocks is the number of live allocations.
		Blocks int64
		// Bytes is the total size of live byte allocations. Typed allocations
		// made on behalf of pools are counted in Blocks only.
		Bytes int64
	}
)

func newHeap(mode HeapMode, logger *Logger) *Heap {
	x := Heap{
		logger: logger,
		mode:   mode,
	}
	x.setConstructed(mode.valid())
	return &x
}

// IsConstructed implements [Object].
func (x *Heap) IsConstructed() bool {
	return x != nil && x.constructed.IsConstructed()
}

// Mode returns the configured allocation strategy.
func (x *Heap) Mode() HeapMode {
	return x.mode
}

// Allocate returns a zeroed block of size bytes, or nil if the heap is not
// constructed, or size is negative.
//
// WARNING: In [HeapNone] mode, this call aborts the process. Reaching it
// means the build is misconfigured, returning nil would leave callers that
// assume success with undefined behavior.
func (x *Heap) Allocate(size int) []byte {
	if !x.IsConstructed() {
		return nil
	}
	if x.mode == HeapNone {
		abort(x.logger, `heap allocation in no-heap mode`)
		return nil
	}
	if size < 0 {
		return nil
	}
	block := make([]byte, size)
	x.blocks.Add(1)
	x.bytes.Add(int64(size))
	return block
}

// Free releases a block returned by Allocate. It is a no-op in [HeapNone]
// mode, as there is nothing to free, and for nil blocks.
func (x *Heap) Free(block []byte) {
	if !x.IsConstructed() || x.mode == HeapNone || block == nil {
		return
	}
	x.blocks.Add(-1)
	x.bytes.Add(-int64(len(block)))
}

// Stats returns a snapshot of the live allocations.
func (x *Heap) Stats() HeapStats {
	if x == nil {
		return HeapStats{}
	}
	return HeapStats{
		Blocks: x.blocks.Load(),
		Bytes:  x.bytes.Load(),
	}
}

// heapNew is the typed form of Heap.Allocate, used for heap-backed pool
// slots. It follows the same rules.
func heapNew[T any](x *Heap) *T {
	if !x.IsConstructed() {
		return nil
	}
	if x.mode == HeapNone {
		abort(x.logger, `heap allocation in no-heap mode`)
		return nil
	}
	x.blocks.Add(1)
	return new(T)
}

// heapDelete is the typed form of Heap.Free.
func heapDelete[T any](x *Heap, v *T) {
	if !x.IsConstructed() || x.mode == HeapNone || v == nil {
		return
	}
	x.blocks.Add(-1)
}
