package osal

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveOptions_defaults(t *testing.T) {
	cfg, err := resolveOptions(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultThreadCapacity, cfg.threadCapacity)
	require.Equal(t, DefaultMutexCapacity, cfg.mutexCapacity)
	require.Equal(t, DefaultSemaphoreCapacity, cfg.semaphoreCapacity)
	require.Equal(t, HeapDynamic, cfg.heapMode)
	require.False(t, cfg.threadAffinity)
	require.False(t, cfg.realtimePolicy)
	require.NotNil(t, cfg.host)
	require.Nil(t, cfg.logger)
	require.Same(t, os.Stdout, cfg.out)
	require.Same(t, os.Stderr, cfg.err)
}

func TestResolveOptions(t *testing.T) {
	var (
		out, errOut bytes.Buffer
		host        fakeHost
	)
	logger := newTestLogger(&out)
	cfg, err := resolveOptions([]Option{
		nil,
		WithThreadCapacity(1),
		WithMutexCapacity(2),
		WithSemaphoreCapacity(3),
		WithHeapMode(HeapNone),
		WithThreadAffinity(true),
		WithRealtimePolicy(true),
		WithHost(&host),
		WithLogger(logger),
		WithStreams(&out, &errOut),
		nil,
	})
	require.NoError(t, err)
	require.Equal(t, 1, cfg.threadCapacity)
	require.Equal(t, 2, cfg.mutexCapacity)
	require.Equal(t, 3, cfg.semaphoreCapacity)
	require.Equal(t, HeapNone, cfg.heapMode)
	require.True(t, cfg.threadAffinity)
	require.True(t, cfg.realtimePolicy)
	require.Same(t, &host, cfg.host)
	require.Same(t, logger, cfg.logger)
	require.Same(t, &out, cfg.out)
	require.Same(t, &errOut, cfg.err)
}

func TestWithHost_nil(t *testing.T) {
	_, err := resolveOptions([]Option{WithHost(nil)})
	require.EqualError(t, err, `osal: nil host`)
}

func TestDefaultHost(t *testing.T) {
	require.NotNil(t, DefaultHost())
}
