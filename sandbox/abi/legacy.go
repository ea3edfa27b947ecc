package abi

import (
	"github.com/sandboxrt/sandboxrt/sandbox"
)

// Longjmp traps unconditionally: a sandboxed guest's non-local control
// transfer has no host-side stack to unwind to, so this is an
// unsupported-operation trap rather than a recoverable error.
func Longjmp(inst *sandbox.Instance, envPtr uint32, val int32) (err error) {
	defer sandbox.Recover("longjmp", &err)
	sandbox.TrapUnsupported("longjmp not supported")
	return err
}

// Setjmp always returns 0, equivalent to never having been set — this
// runtime never resumes a saved jump target, so the only observable
// behavior a caller can see is the initial call's return value.
func Setjmp(inst *sandbox.Instance, envPtr uint32) int32 {
	return 0
}

// The remaining legacy compatibility stubs satisfy link-time references
// from guest programs built against a POSIX-shaped libc without granting
// any of the capabilities those calls would otherwise imply. Each returns
// the same neutral constant or access-denied error the symbol would need
// to fail safely.

// Dlopen always reports success opening a handle that is never usable:
// there is no dynamic loader in this runtime.
func Dlopen(inst *sandbox.Instance, pathPtr, flags uint32) int32 { return 1 }

// Dlclose always reports success.
func Dlclose(inst *sandbox.Instance, handle uint32) int32 { return 1 }

// Dlsym always reports a null symbol.
func Dlsym(inst *sandbox.Instance, handle, namePtr uint32) int32 { return 0 }

// Dlerror always reports no pending error.
func Dlerror(inst *sandbox.Instance) int32 { return 0 }

// Signal always fails: there is no signal delivery mechanism to install a
// handler against.
func Signal(inst *sandbox.Instance, sig, handlerPtr uint32) int32 { return -1 }

// System always fails: shelling out is exactly the kind of host-escaping
// capability this runtime exists to deny.
func System(inst *sandbox.Instance, cmdPtr uint32) int32 { return -1 }

// Utimes always fails: see PathFilestatSetTimes for the same decision on
// the ABI's own path_filestat_set_times.
func Utimes(inst *sandbox.Instance, pathPtr, timesPtr uint32) int32 { return -1 }

// PthreadMutexattrInit, PthreadMutexattrSettype and PthreadMutexattrDestroy
// always succeed: an instance is single-threaded, so mutex attribute
// bookkeeping has nothing to actually configure.
func PthreadMutexattrInit(inst *sandbox.Instance, attrPtr uint32) int32     { return 0 }
func PthreadMutexattrSettype(inst *sandbox.Instance, attrPtr, typ uint32) int32 { return 0 }
func PthreadMutexattrDestroy(inst *sandbox.Instance, attrPtr uint32) int32  { return 0 }

// PthreadCreate and PthreadJoin always fail: this runtime never starts a
// second thread of guest execution.
func PthreadCreate(inst *sandbox.Instance, threadPtr, attrPtr, startRoutinePtr, argPtr uint32) int32 {
	return -1
}
func PthreadJoin(inst *sandbox.Instance, thread uint32, retvalPtr uint32) int32 { return -1 }

// CxaThreadAtexit always fails: there is no second thread for an
// at-exit handler to ever run on.
func CxaThreadAtexit(inst *sandbox.Instance, funcPtr, objPtr, dsoHandlePtr uint32) int32 {
	return -1
}
