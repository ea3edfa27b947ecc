// Package abi implements the guest-callable system-call surface: the
// entry points a sandboxed guest reaches through its standard call table.
// Every exported function here has the same shape as the guest ABI
// itself — an *sandbox.Instance first argument, scalar/guest-pointer
// arguments after it, and a guest error code as its result — so that a
// guest loader can wire them up by name with no further adaptation.
package abi

import (
	"github.com/sandboxrt/sandboxrt/sandbox"
)

// entry runs fn with trap recovery, matching every exported function
// below. It exists so each entry point's body can be a single call to
// entry(subject, &err, func() sandbox.Errno { ... }) instead of repeating
// the defer/recover boilerplate forty times over.
func entry(subject string, err *error, fn func() sandbox.Errno) int32 {
	var errno sandbox.Errno
	defer sandbox.Recover(subject, err)
	errno = fn()
	return int32(errno)
}

// lookupFD resolves a guest descriptor, returning ErrnoBadf through ok=false
// when it is unassigned or closed — the uniform "operations on a closed
// descriptor return bad-file-descriptor" rule every fd_* call applies
// first, before doing anything else.
func lookupFD(inst *sandbox.Instance, fd uint32) (hostFD int, filetype uint8, ok bool) {
	return inst.FDs.Lookup(fd)
}

// checkPath resolves a guest path argument against the capability policy,
// reading it through the heap (which also writes the required trailing
// NUL terminator back into guest memory) and reporting whether it names
// the null device. A path_len of zero is itself a policy violation: there
// is nothing a zero-length path could validly name.
func checkPath(inst *sandbox.Instance, pathPtr, pathLen uint32) (path []byte, allowed bool) {
	if pathLen == 0 {
		return nil, false
	}
	path = inst.Heap.ReadPath(pathPtr, pathLen)
	return path, inst.Policy.IsNullDevice(path)
}
