// Package sandbox implements the host-side state backing a single sandboxed
// guest instance: its linear memory accessor, descriptor table, capability
// policy and clock service.
package sandbox

import (
	"fmt"

	"github.com/pkg/errors"
)

// Trap is a non-resumable failure of the guest/host boundary: an
// out-of-bounds memory access, a resource limit hit with no recoverable
// errno to report, or a call into part of the surface that was never
// wired up. A Trap is always fatal to the instance that raised it.
type Trap struct {
	cause error
}

func (t *Trap) Error() string {
	return fmt.Sprintf("sandbox trap: %s", t.cause)
}

// Unwrap lets callers use errors.Is/errors.As against the trapping cause.
func (t *Trap) Unwrap() error {
	return t.cause
}

// trap raises a Trap by panicking. Every exported ABI entry point recovers
// exactly one of these, at its own boundary; trap never propagates between
// instances or across goroutines.
func trap(format string, args ...interface{}) {
	panic(&Trap{cause: errors.Errorf(format, args...)})
}

// TrapUnsupported raises a Trap for a call that reached a part of the ABI
// surface this runtime deliberately never implements (e.g. longjmp).
func TrapUnsupported(msg string) {
	trap("unsupported operation: %s", msg)
}

// trapIf raises a Trap wrapping err if err is non-nil.
func trapIf(err error, context string) {
	if err != nil {
		panic(&Trap{cause: errors.Wrap(err, context)})
	}
}

// Recover must be deferred at the top of every exported ABI entry point. On
// a normal return it does nothing. If the entry point (or anything it
// calls) raised a Trap, Recover logs it and stores it in *dst so the caller
// can surface it as a fatal instance failure; any other panic is
// re-raised, since it indicates a bug rather than a guest-triggered fault.
func Recover(subject string, dst *error) {
	r := recover()
	if r == nil {
		return
	}
	t, ok := r.(*Trap)
	if !ok {
		panic(r)
	}
	Errorf(subject, "trap: %s", t)
	*dst = t
}
