package osal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapMode_String(t *testing.T) {
	for _, tc := range [...]struct {
		mode HeapMode
		want string
	}{
		{HeapDynamic, `dynamic`},
		{HeapNone, `none`},
		{HeapMode(7), `HeapMode(7)`},
	} {
		assert.Equal(t, tc.want, tc.mode.String())
	}
}

func TestNewHeap_invalidMode(t *testing.T) {
	heap := newHeap(HeapMode(7), nil)
	require.False(t, heap.IsConstructed())
	require.Nil(t, heap.Allocate(8))
	heap.Free(make([]byte, 8))
	require.Equal(t, HeapStats{}, heap.Stats())
	require.Nil(t, heapNew[int](heap))
}

func TestHeap_nil(t *testing.T) {
	var heap *Heap
	require.False(t, heap.IsConstructed())
	require.Nil(t, heap.Allocate(8))
	require.Equal(t, HeapStats{}, heap.Stats())
}

func TestHeap_dynamic(t *testing.T) {
	heap := newTestHeap(t, HeapDynamic)
	require.Equal(t, HeapDynamic, heap.Mode())

	a := heap.Allocate(16)
	require.Len(t, a, 16)
	require.Equal(t, make([]byte, 16), a)
	b := heap.Allocate(0)
	require.NotNil(t, b)
	require.Equal(t, HeapStats{Blocks: 2, Bytes: 16}, heap.Stats())

	require.Nil(t, heap.Allocate(-1))
	require.Equal(t, HeapStats{Blocks: 2, Bytes: 16}, heap.Stats())

	heap.Free(a)
	heap.Free(b)
	heap.Free(nil)
	require.Equal(t, HeapStats{}, heap.Stats())

	v := heapNew[int64](heap)
	require.NotNil(t, v)
	require.Equal(t, HeapStats{Blocks: 1}, heap.Stats())
	heapDelete(heap, v)
	require.Equal(t, HeapStats{}, heap.Stats())
}

func TestHeap_none_aborts(t *testing.T) {
	var buf bytes.Buffer
	heap := newHeap(HeapNone, newTestLogger(&buf))
	require.True(t, heap.IsConstructed())

	code, aborted := catchAbort(func() { heap.Allocate(8) })
	require.True(t, aborted)
	require.Equal(t, ExitFailure, code)
	require.Contains(t, buf.String(), `"lvl":"crit"`)
	require.Contains(t, buf.String(), `"reason":"heap allocation in no-heap mode"`)
	require.Contains(t, buf.String(), `"msg":"osal: fatal"`)

	_, aborted = catchAbort(func() { heapNew[int](heap) })
	require.True(t, aborted)

	// freeing is never fatal
	_, aborted = catchAbort(func() {
		heap.Free(make([]byte, 8))
		heapDelete(heap, new(int))
	})
	require.False(t, aborted)
	require.Equal(t, HeapStats{}, heap.Stats())
}
