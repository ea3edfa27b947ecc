package sandbox

import (
	"bytes"
	"runtime"

	"golang.org/x/sys/unix"
)

// Protocol identifiers as they appear in a NetEndpoint and in the guest
// socket() "type" argument.
const (
	ProtocolTCP uint8 = 1
	ProtocolUDP uint8 = 2
)

// NetEndpoint is one entry of the fixed four-slot netlist: the only
// network destinations an instance is permitted to reach. A zero value
// (Protocol 0) marks an unused slot.
type NetEndpoint struct {
	Protocol uint8
	Address  [4]byte // dotted-quad IPv4, network byte order
	Port     uint16
}

func (e NetEndpoint) isZero() bool {
	return e.Protocol == 0
}

// Policy is the capability policy an instance is constructed with: the
// single path it may ever touch on the filesystem, and the fixed list of
// network endpoints it may ever connect to. Every path- and
// socket-accepting ABI call consults it before issuing a host syscall.
type Policy struct {
	nullDevicePath []byte
	netlist        [4]NetEndpoint
	exitTerminatesHost bool
}

// nullDevicePath returns the host's null-device path for the current
// platform, matching what the guest is expected to probe for.
func nullDevicePath() string {
	if runtime.GOOS == "windows" {
		return "nul"
	}
	return "/dev/null"
}

// NewPolicy builds a capability policy from a netlist (up to 4 entries;
// remaining slots are treated as unused) and the exit-policy setting
// (InitConfig.ExitTerminatesHost; see ProcExit).
func NewPolicy(netlist []NetEndpoint, exitTerminatesHost bool) *Policy {
	p := &Policy{
		nullDevicePath:     []byte(nullDevicePath()),
		exitTerminatesHost: exitTerminatesHost,
	}
	for i := 0; i < len(netlist) && i < 4; i++ {
		p.netlist[i] = netlist[i]
	}
	return p
}

// IsNullDevice reports whether the given NUL-terminated path (as read by
// Heap.ReadPath) names the host's null device. Comparison is of the full
// byte string including the terminator, so a path that merely has the
// null device as a prefix does not match.
func (p *Policy) IsNullDevice(path []byte) bool {
	want := append(append([]byte(nil), p.nullDevicePath...), 0)
	return bytes.Equal(path, want)
}

// NullDevicePath returns the host path this policy's IsNullDevice checks
// guest paths against, for callers (path_open and friends) that need to
// actually open it rather than merely compare against it.
func (p *Policy) NullDevicePath() string {
	return string(p.nullDevicePath)
}

// SetNullDevicePathForTest overrides the host path this policy treats as
// the null device. It exists so tests that need to exercise a real
// forwarded syscall (link, rename, symlink, unlink) can do so against an
// ephemeral file instead of the host's actual null device.
func (p *Policy) SetNullDevicePathForTest(path string) {
	p.nullDevicePath = []byte(path)
}

// NullDeviceOpenFlags and NullDeviceMode are the fixed flag/mode pair
// path_open always uses to open the null device, regardless of what the
// guest requested. Forwarding the guest's own oflags would let it probe
// host open() behavior through unusual flag combinations; a fixed pair
// denies that entirely.
const (
	NullDeviceOpenFlags = unix.O_RDWR | unix.O_CREAT
	NullDeviceMode      = unix.S_IRUSR | unix.S_IWUSR
)

// ExitTerminatesHost reports whether proc_exit should terminate the host
// process. It is false by default: in library sandboxing, a misbehaving
// or simply test-exercising guest must never take the embedding host down
// with it.
func (p *Policy) ExitTerminatesHost() bool {
	return p.exitTerminatesHost
}

// AllowEndpoint reports whether (protocol, address, port) appears in the
// netlist. A non-TCP/UDP protocol never matches.
func (p *Policy) AllowEndpoint(protocol uint8, address [4]byte, port uint16) bool {
	for _, e := range p.netlist {
		if e.isZero() {
			continue
		}
		if e.Protocol == protocol && e.Address == address && e.Port == port {
			return true
		}
	}
	return false
}
