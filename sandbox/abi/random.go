package abi

import (
	"golang.org/x/sys/unix"

	"github.com/sandboxrt/sandboxrt/sandbox"
)

// RandomGet fills len bytes of guest memory at bufPtr from the host's OS
// random source.
func RandomGet(inst *sandbox.Instance, bufPtr, length uint32) (result int32, err error) {
	return entry("random_get", &err, func() sandbox.Errno {
		buf := inst.Heap.Bytes(bufPtr, length)
		if length == 0 {
			return sandbox.ErrnoSuccess
		}
		n, e := unix.Getrandom(buf, 0)
		if e != nil {
			return sandbox.ToGuestErrno(e)
		}
		if uint32(n) != length {
			return sandbox.ErrnoIO
		}
		return sandbox.ErrnoSuccess
	}), err
}
