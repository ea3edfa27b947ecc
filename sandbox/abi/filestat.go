package abi

import (
	"github.com/sandboxrt/sandboxrt/sandbox"
	"golang.org/x/sys/unix"
)

// writeStat packs a host unix.Stat_t into the guest's 64-byte stat
// structure at ptr: device, inode, file_type, link_count, size,
// atime_ns, mtime_ns, ctime_ns, each an 8-byte little-endian field. Time
// fields are seconds*1e9 + nanoseconds, matching the guest ABI's single
// nanosecond-resolution time encoding used everywhere else (see
// sandbox.Clock).
func writeStat(inst *sandbox.Instance, ptr uint32, st *unix.Stat_t) {
	inst.Heap.I64Store(ptr, uint64(st.Dev))
	inst.Heap.I64Store(ptr+8, st.Ino)
	inst.Heap.I64Store(ptr+16, uint64(sandbox.FiletypeFromMode(uint32(st.Mode))))
	inst.Heap.I64Store(ptr+24, uint64(st.Nlink))
	inst.Heap.I64Store(ptr+32, uint64(st.Size))
	inst.Heap.I64Store(ptr+40, nsec(st.Atim))
	inst.Heap.I64Store(ptr+48, nsec(st.Mtim))
	inst.Heap.I64Store(ptr+56, nsec(st.Ctim))
}

func nsec(ts unix.Timespec) uint64 {
	// nolint: unconvert -- Sec/Nsec widths vary across architectures.
	return uint64(ts.Sec)*1e9 + uint64(ts.Nsec)
}

// FdFilestatGet reports the full 64-byte stat structure for a
// descriptor's current backing file.
func FdFilestatGet(inst *sandbox.Instance, fd uint32, statPtr uint32) (result int32, err error) {
	return entry("fd_filestat_get", &err, func() sandbox.Errno {
		hostFD, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		var st unix.Stat_t
		if e := unix.Fstat(hostFD, &st); e != nil {
			return sandbox.ToGuestErrno(e)
		}
		writeStat(inst, statPtr, &st)
		return sandbox.ErrnoSuccess
	}), err
}

// FdFilestatSetSize truncates or extends a descriptor's backing file to
// the given size.
func FdFilestatSetSize(inst *sandbox.Instance, fd uint32, size uint64) (result int32, err error) {
	return entry("fd_filestat_set_size", &err, func() sandbox.Errno {
		hostFD, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		return sandbox.ToGuestErrno(unix.Ftruncate(hostFD, int64(size)))
	}), err
}

// FdFilestatSetTimes is resolved not-supported: see path_filestat_set_times
// in path.go for the same decision and its rationale.
func FdFilestatSetTimes(inst *sandbox.Instance, fd uint32, atime, mtime uint64, flags uint16) (result int32, err error) {
	return entry("fd_filestat_set_times", &err, func() sandbox.Errno {
		return sandbox.ErrnoNotSup
	}), err
}

// PathFilestatGet reports the 64-byte stat structure for the null device,
// the only path this runtime ever resolves.
func PathFilestatGet(inst *sandbox.Instance, dirfd, lookupFlags, pathPtr, pathLen uint32, statPtr uint32) (result int32, err error) {
	return entry("path_filestat_get", &err, func() sandbox.Errno {
		path, allowed := checkPath(inst, pathPtr, pathLen)
		if path == nil {
			return sandbox.ErrnoInval
		}
		if !allowed {
			return sandbox.ErrnoAcces
		}
		var st unix.Stat_t
		if e := unix.Stat(inst.Policy.NullDevicePath(), &st); e != nil {
			return sandbox.ToGuestErrno(e)
		}
		writeStat(inst, statPtr, &st)
		return sandbox.ErrnoSuccess
	}), err
}
