package abi

import (
	"github.com/sandboxrt/sandboxrt/sandbox"
	"golang.org/x/sys/unix"
)

// requireNullDevice reads a path argument and maps it onto a guest errno:
// ErrnoInval for a zero-length path, ErrnoAcces for anything other than
// the null device, ErrnoSuccess once it is confirmed to be the one path
// this runtime ever resolves.
func requireNullDevice(inst *sandbox.Instance, pathPtr, pathLen uint32) sandbox.Errno {
	path, allowed := checkPath(inst, pathPtr, pathLen)
	if path == nil {
		return sandbox.ErrnoInval
	}
	if !allowed {
		return sandbox.ErrnoAcces
	}
	return sandbox.ErrnoSuccess
}

// PathOpen opens the null device — the only path this runtime will ever
// resolve — using a fixed, conservative flag/mode pair regardless of what
// the guest asked for, and hands back a guest descriptor for it.
func PathOpen(inst *sandbox.Instance, dirfd, dirflags, pathPtr, pathLen, oflags uint32, rightsBase, rightsInheriting uint64, fdflags uint16, fdOutPtr uint32) (result int32, err error) {
	return entry("path_open", &err, func() sandbox.Errno {
		if errno := requireNullDevice(inst, pathPtr, pathLen); errno != sandbox.ErrnoSuccess {
			return errno
		}
		// A descriptor already open on the null device is handed back
		// instead of opening another, so repeated opens dedup to the same
		// guest descriptor.
		var want unix.Stat_t
		if e := unix.Stat(inst.Policy.NullDevicePath(), &want); e != nil {
			return sandbox.ToGuestErrno(e)
		}
		for fd := uint32(3); fd < sandbox.MaxFDs; fd++ {
			var st unix.Stat_t
			if host, _, ok := lookupFD(inst, fd); ok && unix.Fstat(host, &st) == nil && st.Dev == want.Dev && st.Ino == want.Ino {
				inst.Heap.I32Store(fdOutPtr, fd)
				return sandbox.ErrnoSuccess
			}
		}
		hostFD, e := unix.Open(inst.Policy.NullDevicePath(), sandbox.NullDeviceOpenFlags, sandbox.NullDeviceMode)
		if e != nil {
			return sandbox.ToGuestErrno(e)
		}
		guestFD := inst.FDs.Allocate(hostFD, sandbox.FiletypeCharacterDevice)
		inst.Heap.I32Store(fdOutPtr, guestFD)
		return sandbox.ErrnoSuccess
	}), err
}

// PathFilestatSetTimes always reports not-supported: rather than report
// success for a timestamp update that never touches the host filesystem,
// this runtime names the call for what it actually is.
func PathFilestatSetTimes(inst *sandbox.Instance, dirfd, lookupFlags, pathPtr, pathLen uint32, atime, mtime uint64, flags uint16) (result int32, err error) {
	return entry("path_filestat_set_times", &err, func() sandbox.Errno {
		return sandbox.ErrnoNotSup
	}), err
}

// PathLink creates a hard link. Both the existing and new paths must name
// the null device; there is no other path in the capability policy for a
// link to reasonably point at or land on.
func PathLink(inst *sandbox.Instance, oldFd, oldFlags, oldPathPtr, oldPathLen, newFd, newPathPtr, newPathLen uint32) (result int32, err error) {
	return entry("path_link", &err, func() sandbox.Errno {
		if errno := requireNullDevice(inst, oldPathPtr, oldPathLen); errno != sandbox.ErrnoSuccess {
			return errno
		}
		if errno := requireNullDevice(inst, newPathPtr, newPathLen); errno != sandbox.ErrnoSuccess {
			return errno
		}
		p := inst.Policy.NullDevicePath()
		return sandbox.ToGuestErrno(unix.Link(p, p))
	}), err
}

// PathReadlink reads a symlink's target. No path this runtime will ever
// resolve is a symlink — the null device is a character device — so this
// never writes bufPtr/nreadPtr and never reports success: a forbidden-path
// argument is access-denied, and the null device itself is invalid-argument
// rather than a symlink to read.
func PathReadlink(inst *sandbox.Instance, dirfd, pathPtr, pathLen, bufPtr, bufLen, nreadPtr uint32) (result int32, err error) {
	return entry("path_readlink", &err, func() sandbox.Errno {
		if errno := requireNullDevice(inst, pathPtr, pathLen); errno != sandbox.ErrnoSuccess {
			return errno
		}
		return sandbox.ErrnoInval
	}), err
}

// PathRename renames a path. Both the source and destination must name
// the null device.
func PathRename(inst *sandbox.Instance, oldFd, oldPathPtr, oldPathLen, newFd, newPathPtr, newPathLen uint32) (result int32, err error) {
	return entry("path_rename", &err, func() sandbox.Errno {
		if errno := requireNullDevice(inst, oldPathPtr, oldPathLen); errno != sandbox.ErrnoSuccess {
			return errno
		}
		if errno := requireNullDevice(inst, newPathPtr, newPathLen); errno != sandbox.ErrnoSuccess {
			return errno
		}
		p := inst.Policy.NullDevicePath()
		return sandbox.ToGuestErrno(unix.Rename(p, p))
	}), err
}

// PathSymlink creates a symlink at newPath whose target text is oldPath.
// Only newPath is a real filesystem location subject to the capability
// policy — oldPath, minus the NUL terminator ReadPath writes into its last
// byte, is stored verbatim as the link's target text and is never itself
// opened or resolved.
func PathSymlink(inst *sandbox.Instance, oldPathPtr, oldPathLen, dirfd, newPathPtr, newPathLen uint32) (result int32, err error) {
	return entry("path_symlink", &err, func() sandbox.Errno {
		if oldPathLen == 0 {
			return sandbox.ErrnoInval
		}
		target := inst.Heap.ReadPath(oldPathPtr, oldPathLen)
		if errno := requireNullDevice(inst, newPathPtr, newPathLen); errno != sandbox.ErrnoSuccess {
			return errno
		}
		return sandbox.ToGuestErrno(unix.Symlink(string(target[:len(target)-1]), inst.Policy.NullDevicePath()))
	}), err
}

// PathCreateDirectory always fails: access-denied for a forbidden path,
// invalid-argument for a zero-length one, and not-a-directory for the null
// device itself. The null device is a character device, never a directory, so there is
// no path in this runtime's capability policy a directory could validly
// be created at.
func PathCreateDirectory(inst *sandbox.Instance, dirfd, pathPtr, pathLen uint32) (result int32, err error) {
	return entry("path_create_directory", &err, func() sandbox.Errno {
		if errno := requireNullDevice(inst, pathPtr, pathLen); errno != sandbox.ErrnoSuccess {
			return errno
		}
		return sandbox.ErrnoNotDir
	}), err
}

// PathRemoveDirectory always reports access-denied, invalid-argument, or
// not-a-directory for the same reason as PathCreateDirectory.
func PathRemoveDirectory(inst *sandbox.Instance, dirfd, pathPtr, pathLen uint32) (result int32, err error) {
	return entry("path_remove_directory", &err, func() sandbox.Errno {
		if errno := requireNullDevice(inst, pathPtr, pathLen); errno != sandbox.ErrnoSuccess {
			return errno
		}
		return sandbox.ErrnoNotDir
	}), err
}

// PathUnlinkFile removes the null device's directory entry. This is
// forwarded for real, unlike the directory operations above, since the
// null device is a legitimate unlink target on most hosts.
func PathUnlinkFile(inst *sandbox.Instance, dirfd, pathPtr, pathLen uint32) (result int32, err error) {
	return entry("path_unlink_file", &err, func() sandbox.Errno {
		if errno := requireNullDevice(inst, pathPtr, pathLen); errno != sandbox.ErrnoSuccess {
			return errno
		}
		return sandbox.ToGuestErrno(unix.Unlink(inst.Policy.NullDevicePath()))
	}), err
}
