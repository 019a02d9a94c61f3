package osal

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStreamManager_notConstructed(t *testing.T) {
	var buf bytes.Buffer
	for _, x := range []*StreamManager{
		newStreamManager(nil, &buf),
		newStreamManager(&buf, nil),
		nil,
	} {
		require.False(t, x.IsConstructed())
		require.Equal(t, io.Discard, x.Out())
		require.Equal(t, io.Discard, x.Err())
		require.False(t, x.SetOut(&buf))
		require.False(t, x.SetErr(&buf))
		x.ResetOut()
		x.ResetErr()
	}
}

func TestStreamManager(t *testing.T) {
	var out, errOut, other bytes.Buffer
	x := newStreamManager(&out, &errOut)
	require.True(t, x.IsConstructed())
	require.Same(t, &out, x.Out())
	require.Same(t, &errOut, x.Err())

	require.False(t, x.SetOut(nil))
	require.False(t, x.SetErr(nil))
	require.Same(t, &out, x.Out())

	require.True(t, x.SetOut(&other))
	require.True(t, x.SetErr(&other))
	require.Same(t, &other, x.Out())
	require.Same(t, &other, x.Err())

	x.ResetOut()
	require.Same(t, &out, x.Out())
	require.Same(t, &other, x.Err())
	x.ResetErr()
	require.Same(t, &errOut, x.Err())
}
