package abi

import (
	"github.com/sandboxrt/sandboxrt/sandbox"
)

// FdReaddir always reports an empty directory listing: no descriptor in
// this runtime is ever a directory (the only path ever opened, the null
// device, is a character device), so there is never anything to list.
func FdReaddir(inst *sandbox.Instance, fd, bufPtr, bufLen uint32, cookie uint64, bufusedPtr uint32) (result int32, err error) {
	return entry("fd_readdir", &err, func() sandbox.Errno {
		_, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		inst.Heap.I32Store(bufusedPtr, 0)
		return sandbox.ErrnoSuccess
	}), err
}

// FdPrestatGet returns not-supported for every descriptor: no descriptor
// here is ever a pre-opened directory, and reporting bad-descriptor instead
// would wrongly suggest the descriptor itself is invalid rather than merely
// unsupported for this query.
func FdPrestatGet(inst *sandbox.Instance, fd, prestatPtr uint32) (result int32, err error) {
	return entry("fd_prestat_get", &err, func() sandbox.Errno {
		return sandbox.ErrnoNotSup
	}), err
}

// FdPrestatDirName writes a single '/' into the guest buffer: every
// instance's home directory name is reported as "/", regardless of the
// HomeDir it was configured with.
func FdPrestatDirName(inst *sandbox.Instance, fd, pathPtr, pathLen uint32) (result int32, err error) {
	return entry("fd_prestat_dir_name", &err, func() sandbox.Errno {
		if pathLen == 0 {
			return sandbox.ErrnoInval
		}
		inst.Heap.U8Store(pathPtr+pathLen-1, '/')
		return sandbox.ErrnoSuccess
	}), err
}
