package abi

import (
	"github.com/sandboxrt/sandboxrt/sandbox"
)

// ArgsSizesGet writes the instance's argument count and the total byte
// length of the NUL-terminated argument strings (terminators included) to
// argcPtr and argvBufSizePtr.
func ArgsSizesGet(inst *sandbox.Instance, argcPtr, argvBufSizePtr uint32) (result int32, err error) {
	return entry("args_sizes_get", &err, func() sandbox.Errno {
		var total uint32
		for _, a := range inst.Args {
			total += uint32(len(a)) + 1
		}
		inst.Heap.I32Store(argcPtr, uint32(len(inst.Args)))
		inst.Heap.I32Store(argvBufSizePtr, total)
		return sandbox.ErrnoSuccess
	}), err
}

// ArgsGet writes argc guest pointers at argvPtr (one u32 per argument,
// in order) and the NUL-terminated argument bytes themselves into the
// buffer at argvBufPtr, consistent with whatever ArgsSizesGet most
// recently reported.
func ArgsGet(inst *sandbox.Instance, argvPtr, argvBufPtr uint32) (result int32, err error) {
	return entry("args_get", &err, func() sandbox.Errno {
		bufOff := argvBufPtr
		for i, a := range inst.Args {
			inst.Heap.I32Store(argvPtr+uint32(i)*4, bufOff)
			inst.Heap.WriteBytes(bufOff, []byte(a))
			inst.Heap.U8Store(bufOff+uint32(len(a)), 0)
			bufOff += uint32(len(a)) + 1
		}
		return sandbox.ErrnoSuccess
	}), err
}

// EnvironSizesGet always reports zero entries and zero bytes. The
// instance's real environment vector is retained on sandbox.Instance for
// a future revision, but this entry point keeps the documented
// empty-environment behavior rather than silently starting to expose it.
func EnvironSizesGet(inst *sandbox.Instance, envcPtr, envBufSizePtr uint32) (result int32, err error) {
	return entry("environ_sizes_get", &err, func() sandbox.Errno {
		inst.Heap.I32Store(envcPtr, 0)
		inst.Heap.I32Store(envBufSizePtr, 0)
		return sandbox.ErrnoSuccess
	}), err
}

// EnvironGet writes nothing: see EnvironSizesGet.
func EnvironGet(inst *sandbox.Instance, environPtr, environBufPtr uint32) (result int32, err error) {
	return entry("environ_get", &err, func() sandbox.Errno {
		return sandbox.ErrnoSuccess
	}), err
}
