package abi

import (
	"github.com/sandboxrt/sandboxrt/sandbox"
	"golang.org/x/sys/unix"
)

// FdRead performs vectored input: it reads into the guest buffers named
// by the iovec array at iovsPtr (iovCnt entries) in order, and writes the
// total bytes actually read to nreadPtr. A short read (fewer bytes than
// the buffer offered) ends the loop without being an error — "nothing
// more to read" is a valid outcome of a single fd_read, not a fault.
func FdRead(inst *sandbox.Instance, fd, iovsPtr, iovCnt, nreadPtr uint32) (result int32, err error) {
	return entry("fd_read", &err, func() sandbox.Errno {
		hostFD, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		iovs := inst.Heap.LoadIovecs(iovsPtr, iovCnt)
		var total uint32
		for _, iov := range iovs {
			if iov.Len == 0 {
				continue
			}
			buf := inst.Heap.Bytes(iov.Ptr, iov.Len)
			n, e := unix.Read(hostFD, buf)
			if e != nil {
				return sandbox.ToGuestErrno(e)
			}
			total += uint32(n)
			if uint32(n) != iov.Len {
				break
			}
		}
		inst.Heap.I32Store(nreadPtr, total)
		return sandbox.ErrnoSuccess
	}), err
}

// FdWrite performs vectored output. Descriptors 1 and 2 (stdout/stderr)
// are written with repeated raw writes until each buffer is fully out
// (see writeBuffered); no host-side buffered stream is involved. Every
// other descriptor gets a single raw write per buffer. Unlike FdRead, a short write is treated as
// the default permission error rather than a valid partial outcome — the
// guest is never told it wrote less than it asked for.
func FdWrite(inst *sandbox.Instance, fd, iovsPtr, iovCnt, nwrittenPtr uint32) (result int32, err error) {
	return entry("fd_write", &err, func() sandbox.Errno {
		hostFD, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		iovs := inst.Heap.LoadIovecs(iovsPtr, iovCnt)
		var total uint32
		for _, iov := range iovs {
			if iov.Len == 0 {
				continue
			}
			buf := inst.Heap.Bytes(iov.Ptr, iov.Len)
			n, e := writeBuffered(hostFD, buf, fd == 1 || fd == 2)
			if e != nil {
				return sandbox.ToGuestErrno(e)
			}
			if uint32(n) != iov.Len {
				return sandbox.ErrnoPerm
			}
			total += uint32(n)
		}
		inst.Heap.I32Store(nwrittenPtr, total)
		return sandbox.ErrnoSuccess
	}), err
}

// writeBuffered writes buf to hostFD. Stdio descriptors always write in
// full before returning, matching a buffered stream's all-or-nothing
// semantics from the caller's point of view; other descriptors make a
// single raw write call.
func writeBuffered(hostFD int, buf []byte, stdio bool) (int, error) {
	if !stdio {
		return unix.Write(hostFD, buf)
	}
	total := 0
	for total < len(buf) {
		n, err := unix.Write(hostFD, buf[total:])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// FdPread reads len(buf) bytes at the given offset without moving the
// descriptor's file position.
func FdPread(inst *sandbox.Instance, fd, iovsPtr, iovCnt uint32, offset uint64, nreadPtr uint32) (result int32, err error) {
	return entry("fd_pread", &err, func() sandbox.Errno {
		hostFD, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		iovs := inst.Heap.LoadIovecs(iovsPtr, iovCnt)
		var total uint32
		pos := int64(offset)
		for _, iov := range iovs {
			if iov.Len == 0 {
				continue
			}
			buf := inst.Heap.Bytes(iov.Ptr, iov.Len)
			n, e := unix.Pread(hostFD, buf, pos)
			if e != nil {
				return sandbox.ToGuestErrno(e)
			}
			total += uint32(n)
			pos += int64(n)
			if uint32(n) != iov.Len {
				break
			}
		}
		inst.Heap.I32Store(nreadPtr, total)
		return sandbox.ErrnoSuccess
	}), err
}

// FdPwrite writes len(buf) bytes at the given offset without moving the
// descriptor's file position.
func FdPwrite(inst *sandbox.Instance, fd, iovsPtr, iovCnt uint32, offset uint64, nwrittenPtr uint32) (result int32, err error) {
	return entry("fd_pwrite", &err, func() sandbox.Errno {
		hostFD, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		iovs := inst.Heap.LoadIovecs(iovsPtr, iovCnt)
		var total uint32
		pos := int64(offset)
		for _, iov := range iovs {
			if iov.Len == 0 {
				continue
			}
			buf := inst.Heap.Bytes(iov.Ptr, iov.Len)
			n, e := unix.Pwrite(hostFD, buf, pos)
			if e != nil {
				return sandbox.ToGuestErrno(e)
			}
			if uint32(n) != iov.Len {
				return sandbox.ErrnoPerm
			}
			total += uint32(n)
			pos += int64(n)
		}
		inst.Heap.I32Store(nwrittenPtr, total)
		return sandbox.ErrnoSuccess
	}), err
}

// FdSeek rejects standard streams outright, matching the documented
// default-permission-error behavior for fd in {0,1,2}.
func FdSeek(inst *sandbox.Instance, fd uint32, offset int64, whence uint8, newoffsetPtr uint32) (result int32, err error) {
	return entry("fd_seek", &err, func() sandbox.Errno {
		if inst.FDs.IsStdio(fd) {
			return sandbox.ErrnoPerm
		}
		hostFD, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		pos, e := unix.Seek(hostFD, offset, sandbox.ToHostSeekWhence(whence))
		if e != nil {
			return sandbox.ToGuestErrno(e)
		}
		inst.Heap.I64Store(newoffsetPtr, uint64(pos))
		return sandbox.ErrnoSuccess
	}), err
}

// FdTell reports the descriptor's current file position without moving it.
func FdTell(inst *sandbox.Instance, fd uint32, offsetPtr uint32) (result int32, err error) {
	return entry("fd_tell", &err, func() sandbox.Errno {
		hostFD, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		pos, e := unix.Seek(hostFD, 0, unix.SEEK_CUR)
		if e != nil {
			return sandbox.ToGuestErrno(e)
		}
		inst.Heap.I64Store(offsetPtr, uint64(pos))
		return sandbox.ErrnoSuccess
	}), err
}

// FdClose rejects standard streams, matching fd_seek. A closed or
// unassigned descriptor returns bad-descriptor rather than being a no-op.
func FdClose(inst *sandbox.Instance, fd uint32) (result int32, err error) {
	return entry("fd_close", &err, func() sandbox.Errno {
		if inst.FDs.IsStdio(fd) {
			return sandbox.ErrnoPerm
		}
		hostFD, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		if e := unix.Close(hostFD); e != nil {
			return sandbox.ToGuestErrno(e)
		}
		inst.FDs.Close(fd)
		return sandbox.ErrnoSuccess
	}), err
}

// FdSync flushes a descriptor's data and metadata to the backing store.
func FdSync(inst *sandbox.Instance, fd uint32) (result int32, err error) {
	return entry("fd_sync", &err, func() sandbox.Errno {
		hostFD, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		return sandbox.ToGuestErrno(unix.Fsync(hostFD))
	}), err
}

// FdDatasync flushes a descriptor's data, but not necessarily its
// metadata, to the backing store.
func FdDatasync(inst *sandbox.Instance, fd uint32) (result int32, err error) {
	return entry("fd_datasync", &err, func() sandbox.Errno {
		hostFD, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		return sandbox.ToGuestErrno(unix.Fdatasync(hostFD))
	}), err
}

// FdAdvise hints at future access patterns for a descriptor's data.
func FdAdvise(inst *sandbox.Instance, fd uint32, offset, length uint64, advice uint8) (result int32, err error) {
	return entry("fd_advise", &err, func() sandbox.Errno {
		hostFD, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		e := unix.Fadvise(hostFD, int64(offset), int64(length), sandbox.ToHostAdvice(advice))
		return sandbox.ToGuestErrno(e)
	}), err
}

// FdAllocate ensures length bytes are allocated for the descriptor,
// starting at offset, falling back across the flag combinations a given
// filesystem may or may not support.
func FdAllocate(inst *sandbox.Instance, fd uint32, offset, length uint64) (result int32, err error) {
	return entry("fd_allocate", &err, func() sandbox.Errno {
		hostFD, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		var lastErr error
		for _, mode := range []int{0, unix.FALLOC_FL_KEEP_SIZE} {
			lastErr = unix.Fallocate(hostFD, mode, int64(offset), int64(length))
			if lastErr != unix.ENOTSUP {
				break
			}
		}
		return sandbox.ToGuestErrno(lastErr)
	}), err
}

// FdFdstatGet reports a descriptor's filetype and flags to the guest: the
// filetype byte at statPtr and a u16 flags field at statPtr+2, always
// zero. The rights fields are not written.
func FdFdstatGet(inst *sandbox.Instance, fd uint32, statPtr uint32) (result int32, err error) {
	return entry("fd_fdstat_get", &err, func() sandbox.Errno {
		_, filetype, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		inst.Heap.U8Store(statPtr, filetype)
		inst.Heap.U16Store(statPtr+2, 0) // flags: none of the fdflags are tracked per-descriptor in this runtime
		return sandbox.ErrnoSuccess
	}), err
}

// FdFdstatSetFlags is accepted but has no effect: this runtime does not
// track guest-settable descriptor flags separately from the host
// descriptor's own state.
func FdFdstatSetFlags(inst *sandbox.Instance, fd uint32, flags uint16) (result int32, err error) {
	return entry("fd_fdstat_set_flags", &err, func() sandbox.Errno {
		_, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		return sandbox.ErrnoSuccess
	}), err
}

// FdFdstatSetRights is accepted but has no effect: this runtime has no
// rights-based access control to narrow — the capability policy already
// fixes what a descriptor may be used for at the point it was opened.
func FdFdstatSetRights(inst *sandbox.Instance, fd uint32, rightsBase, rightsInheriting uint64) (result int32, err error) {
	return entry("fd_fdstat_set_rights", &err, func() sandbox.Errno {
		_, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		return sandbox.ErrnoSuccess
	}), err
}

// FdRenumber aliases guest descriptor `to` onto `from`'s host backing and
// retires `from`, closing whatever host descriptor `to` previously named.
func FdRenumber(inst *sandbox.Instance, from, to uint32) (result int32, err error) {
	return entry("fd_renumber", &err, func() sandbox.Errno {
		closeHost, hadClose, ok := inst.FDs.Renumber(from, to)
		if !ok {
			return sandbox.ErrnoBadf
		}
		if hadClose {
			_ = unix.Close(closeHost)
		}
		return sandbox.ErrnoSuccess
	}), err
}
