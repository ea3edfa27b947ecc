package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandboxrt/sandboxrt/sandbox"
)

func TestClockTimeGetWritesNanoseconds(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	errno, err := ClockTimeGet(inst, sandbox.ClockMonotonic, 0, 0)
	require.NoError(t, err)
	require.Equal(t, int32(sandbox.ErrnoSuccess), errno)
	assert.Greater(t, inst.Heap.I64Load(0), uint64(0))
}

func TestClockTimeGetInvalidClock(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	errno, err := ClockTimeGet(inst, 123, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoInval), errno)
}

func TestClockResGetWritesNanoseconds(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	errno, err := ClockResGet(inst, sandbox.ClockRealtime, 0)
	require.NoError(t, err)
	require.Equal(t, int32(sandbox.ErrnoSuccess), errno)
}
