package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyIsNullDevice(t *testing.T) {
	p := NewPolicy(nil, false)
	assert.True(t, p.IsNullDevice([]byte("/dev/null\x00")))
	assert.False(t, p.IsNullDevice([]byte("/etc/passwd\x00")))
	assert.False(t, p.IsNullDevice([]byte("/dev/null")), "missing terminator does not match")
	assert.False(t, p.IsNullDevice([]byte("/dev/nullx\x00")), "prefix match is not enough")
}

func TestPolicyAllowEndpoint(t *testing.T) {
	netlist := []NetEndpoint{
		{Protocol: ProtocolTCP, Address: [4]byte{127, 0, 0, 1}, Port: 8080},
	}
	p := NewPolicy(netlist, false)

	assert.True(t, p.AllowEndpoint(ProtocolTCP, [4]byte{127, 0, 0, 1}, 8080))
	assert.False(t, p.AllowEndpoint(ProtocolUDP, [4]byte{127, 0, 0, 1}, 8080), "wrong protocol")
	assert.False(t, p.AllowEndpoint(ProtocolTCP, [4]byte{127, 0, 0, 1}, 9090), "wrong port")
	assert.False(t, p.AllowEndpoint(ProtocolTCP, [4]byte{10, 0, 0, 1}, 8080), "wrong address")
}

func TestPolicyEmptyNetlistAllowsNothing(t *testing.T) {
	p := NewPolicy(nil, false)
	assert.False(t, p.AllowEndpoint(ProtocolTCP, [4]byte{127, 0, 0, 1}, 80))
}

func TestPolicyExitTerminatesHost(t *testing.T) {
	assert.False(t, NewPolicy(nil, false).ExitTerminatesHost())
	assert.True(t, NewPolicy(nil, true).ExitTerminatesHost())
}

func TestPolicyNetlistTruncatedToFour(t *testing.T) {
	var endpoints []NetEndpoint
	for i := 0; i < 6; i++ {
		endpoints = append(endpoints, NetEndpoint{Protocol: ProtocolTCP, Address: [4]byte{1, 2, 3, byte(i)}, Port: uint16(i)})
	}
	p := NewPolicy(endpoints, false)
	assert.True(t, p.AllowEndpoint(ProtocolTCP, [4]byte{1, 2, 3, 3}, 3))
	assert.False(t, p.AllowEndpoint(ProtocolTCP, [4]byte{1, 2, 3, 5}, 5), "fifth entry never makes it into the fixed four slots")
}
