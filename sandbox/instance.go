package sandbox

import (
	"strings"

	"github.com/pkg/errors"
)

// InitConfig is the flat, immutable-after-init configuration a host
// driver supplies when creating an instance. It mirrors the shape the
// guest module's loader would decode from CLI flags or an embedding
// application's own config source — decoding that text into this struct
// is the loader's job, not this package's.
type InitConfig struct {
	// HomeDir is the guest's notional root path. Required, non-empty.
	HomeDir string
	// Args is the guest's argument vector (argv[0] first).
	Args []string
	// Env is the guest's environment vector, kept on the instance even
	// though environ_get/environ_sizes_get currently always report an
	// empty environment (see abi.EnvironSizesGet).
	Env []string
	// LogPath is an optional log sink path; empty means no file sink.
	LogPath string
	// Netlist is the fixed set of permitted network endpoints, at most
	// four entries.
	Netlist []NetEndpoint
	// ExitTerminatesHost selects proc_exit's behavior: by default it is
	// a no-op, matching library-sandboxing semantics where a misbehaving
	// guest must never take the host down with it. Set true only for a
	// standalone/CLI-style embedding where a guest-requested exit really
	// should end the process.
	ExitTerminatesHost bool
}

// Validate checks the required fields of an InitConfig, matching the
// create_instance precondition that home_dir be non-empty.
func (c *InitConfig) Validate() error {
	if strings.TrimSpace(c.HomeDir) == "" {
		return errors.New("init config: home_dir is required")
	}
	if len(c.Netlist) > 4 {
		return errors.New("init config: netlist accepts at most 4 entries")
	}
	return nil
}

// Instance is one sandboxed guest's complete runtime state: its memory
// accessor, descriptor table, capability policy and clock service. Two
// instances never alias any of this state — the instance pointer a guest
// call carries as its first argument is the only handle into it, and the
// runtime itself takes no locks beyond what FDTable needs for its own
// bookkeeping.
type Instance struct {
	Heap   *Heap
	FDs    *FDTable
	Policy *Policy
	Clock  *Clock

	HomeDir string
	Args    []string
	Env     []string
	LogPath string

	// Exited is set by proc_exit. The ABI entry points do not consult it:
	// calls made after proc_exit run as usual.
	Exited   bool
	ExitCode int32
}

// NewInstance validates cfg and constructs an instance bound to the given
// guest linear memory and standard stream host descriptors. It installs
// stdio at descriptors 0/1/2 and stands up the clock service before any
// guest call can run.
func NewInstance(cfg InitConfig, heap []byte, stdin, stdout, stderr int) (*Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	inst := &Instance{
		Heap:    NewHeap(heap),
		FDs:     NewFDTable(stdin, stdout, stderr),
		Policy:  NewPolicy(cfg.Netlist, cfg.ExitTerminatesHost),
		Clock:   NewClock(),
		HomeDir: cfg.HomeDir,
		Args:    append([]string(nil), cfg.Args...),
		Env:     append([]string(nil), cfg.Env...),
		LogPath: cfg.LogPath,
	}
	Debugf(inst.HomeDir, "instance created, argc=%d", len(inst.Args))
	return inst, nil
}

// Destroy logs the instance's teardown; the clock service holds no
// per-instance resources, so there is nothing further to release. Descriptors opened
// during execution are the guest's own responsibility; Destroy never
// closes them, matching the documented "process exit path reclaims them"
// teardown contract — host-level process exit, not this call, is what
// ultimately reclaims leaked descriptors.
func (inst *Instance) Destroy() {
	Debugf(inst.HomeDir, "instance destroyed")
}
