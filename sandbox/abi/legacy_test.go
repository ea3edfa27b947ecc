package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandboxrt/sandboxrt/sandbox"
)

func TestLongjmpTraps(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	err := Longjmp(inst, 0, 1)
	require.Error(t, err)
	var trapErr *sandbox.Trap
	assert.ErrorAs(t, err, &trapErr)
}

func TestSetjmpAlwaysZero(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	assert.Equal(t, int32(0), Setjmp(inst, 0))
}

func TestLegacyStubNeutralValues(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})

	assert.Equal(t, int32(1), Dlopen(inst, 0, 0))
	assert.Equal(t, int32(1), Dlclose(inst, 0))
	assert.Equal(t, int32(0), Dlsym(inst, 0, 0))
	assert.Equal(t, int32(0), Dlerror(inst))
	assert.Equal(t, int32(-1), Signal(inst, 0, 0))
	assert.Equal(t, int32(-1), System(inst, 0))
	assert.Equal(t, int32(-1), Utimes(inst, 0, 0))
	assert.Equal(t, int32(0), PthreadMutexattrInit(inst, 0))
	assert.Equal(t, int32(0), PthreadMutexattrSettype(inst, 0, 0))
	assert.Equal(t, int32(0), PthreadMutexattrDestroy(inst, 0))
	assert.Equal(t, int32(-1), PthreadCreate(inst, 0, 0, 0, 0))
	assert.Equal(t, int32(-1), PthreadJoin(inst, 0, 0))
	assert.Equal(t, int32(-1), CxaThreadAtexit(inst, 0, 0, 0))
}
