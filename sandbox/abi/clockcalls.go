package abi

import (
	"github.com/sandboxrt/sandboxrt/sandbox"
)

// ClockTimeGet writes the current reading of the named clock, in
// nanoseconds, to resultPtr. precision is an advisory hint the underlying
// clock service is free to ignore.
func ClockTimeGet(inst *sandbox.Instance, clockID uint32, precision uint64, resultPtr uint32) (result int32, err error) {
	return entry("clock_time_get", &err, func() sandbox.Errno {
		ns, errno := inst.Clock.TimeGet(clockID)
		if errno != sandbox.ErrnoSuccess {
			return errno
		}
		inst.Heap.I64Store(resultPtr, ns)
		return sandbox.ErrnoSuccess
	}), err
}

// ClockResGet writes the named clock's reported resolution, in
// nanoseconds, to resultPtr.
func ClockResGet(inst *sandbox.Instance, clockID uint32, resultPtr uint32) (result int32, err error) {
	return entry("clock_res_get", &err, func() sandbox.Errno {
		ns, errno := inst.Clock.ResGet(clockID)
		if errno != sandbox.ErrnoSuccess {
			return errno
		}
		inst.Heap.I64Store(resultPtr, ns)
		return sandbox.ErrnoSuccess
	}), err
}
