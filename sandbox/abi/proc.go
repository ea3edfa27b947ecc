package abi

import (
	"os"

	"github.com/sandboxrt/sandboxrt/sandbox"
)

// ProcExit marks the instance as exited and records the guest's exit
// code. By default this is the whole effect — proc_exit is a no-op as
// far as the host process is concerned, because in library sandboxing a
// misbehaving guest must never be able to take the embedding host down
// with it. Only when the instance's policy was constructed with
// ExitTerminatesHost set does this call actually terminate the host
// process, for a standalone/CLI-style embedding where that is the
// desired behavior.
func ProcExit(inst *sandbox.Instance, code int32) {
	inst.Exited = true
	inst.ExitCode = code
	sandbox.Debugf(inst.HomeDir, "guest proc_exit code=%d", code)
	if inst.Policy.ExitTerminatesHost() {
		os.Exit(int(code))
	}
}

// ProcRaise is a no-op that always reports success: this runtime has no
// signal delivery mechanism for a guest to raise.
func ProcRaise(inst *sandbox.Instance, sig uint32) (result int32, err error) {
	return entry("proc_raise", &err, func() sandbox.Errno {
		return sandbox.ErrnoSuccess
	}), err
}

// SchedYield is a no-op that always reports success: a single-threaded
// instance with no internal worker threads has nothing to yield to.
func SchedYield(inst *sandbox.Instance) (result int32, err error) {
	return entry("sched_yield", &err, func() sandbox.Errno {
		return sandbox.ErrnoSuccess
	}), err
}

// PollOneoff always reports not-supported: this runtime exposes no
// suspension points or asynchronous readiness notification.
func PollOneoff(inst *sandbox.Instance, subscriptionsPtr, eventsPtr, nsubscriptions uint32, neventsPtr uint32) (result int32, err error) {
	return entry("poll_oneoff", &err, func() sandbox.Errno {
		return sandbox.ErrnoNotSup
	}), err
}
