package abi

import (
	"github.com/sandboxrt/sandboxrt/sandbox"
	"golang.org/x/sys/unix"
)

// Socket creates a host socket for one of the two supported wire
// protocols. protocol must be zero — the "type" argument alone (stream
// vs. datagram) selects TCP or UDP, which doubles as the protocol tag the
// netlist matches against at sock_connect time.
func Socket(inst *sandbox.Instance, domain, sockType, protocol uint32, fdOutPtr uint32) (result int32, err error) {
	return entry("socket", &err, func() sandbox.Errno {
		if protocol != 0 {
			return sandbox.ErrnoInval
		}
		var hostType int
		var filetype uint8
		switch sockType {
		case sandbox.SockTypeStream:
			hostType, filetype = unix.SOCK_STREAM, sandbox.FiletypeSocketStream
		case sandbox.SockTypeDgram:
			hostType, filetype = unix.SOCK_DGRAM, sandbox.FiletypeSocketDgram
		default:
			return sandbox.ErrnoInval
		}
		hostFD, e := unix.Socket(unix.AF_INET, hostType, 0)
		if e != nil {
			return sandbox.ToGuestErrno(e)
		}
		guestFD := inst.FDs.Allocate(hostFD, filetype)
		inst.Heap.I32Store(fdOutPtr, guestFD)
		return sandbox.ErrnoSuccess
	}), err
}

// readSockaddr reads the guest ABI's fixed sockaddr layout — family(2) |
// port_be(2) | ipv4_addr(4) — at ptr, bounds-checked through the heap.
func readSockaddr(inst *sandbox.Instance, ptr uint32) (port uint16, addr [4]byte) {
	raw := inst.Heap.Bytes(ptr, 8)
	port = uint16(raw[2])<<8 | uint16(raw[3])
	copy(addr[:], raw[4:8])
	return port, addr
}

// sockTypeToProtocol recovers the netlist protocol tag for a descriptor
// from its cached filetype, since the descriptor table doesn't otherwise
// retain the socket() call's own arguments.
func sockTypeToProtocol(filetype uint8) (uint8, bool) {
	switch filetype {
	case sandbox.FiletypeSocketStream:
		return sandbox.ProtocolTCP, true
	case sandbox.FiletypeSocketDgram:
		return sandbox.ProtocolUDP, true
	default:
		return 0, false
	}
}

// SockConnect connects a socket descriptor to the address named by the
// guest sockaddr at addrPtr, permitting the connection only if
// (protocol, address, port) appears in the instance's netlist.
func SockConnect(inst *sandbox.Instance, fd, addrPtr, addrLen uint32) (result int32, err error) {
	return entry("sock_connect", &err, func() sandbox.Errno {
		hostFD, filetype, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		protocol, ok := sockTypeToProtocol(filetype)
		if !ok {
			return sandbox.ErrnoNotSock
		}
		port, addr := readSockaddr(inst, addrPtr)
		if !inst.Policy.AllowEndpoint(protocol, addr, port) {
			return sandbox.ErrnoAcces
		}
		sa := &unix.SockaddrInet4{Port: int(port), Addr: addr}
		return sandbox.ToGuestErrno(unix.Connect(hostFD, sa))
	}), err
}

// SockSend writes buf to a connected socket descriptor.
func SockSend(inst *sandbox.Instance, fd, iovsPtr, iovCnt uint32, flags uint16, nsentPtr uint32) (result int32, err error) {
	return entry("sock_send", &err, func() sandbox.Errno {
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
			n, e := unix.Write(hostFD, buf)
			if e != nil {
				return sandbox.ToGuestErrno(e)
			}
			if uint32(n) != iov.Len {
				return sandbox.ErrnoPerm
			}
			total += uint32(n)
		}
		inst.Heap.I32Store(nsentPtr, total)
		return sandbox.ErrnoSuccess
	}), err
}

// SockRecv reads from a connected socket descriptor into the guest
// buffers named by the iovec array, same short-read semantics as FdRead.
func SockRecv(inst *sandbox.Instance, fd, iovsPtr, iovCnt uint32, flags uint16, nreadPtr, roflagsPtr uint32) (result int32, err error) {
	return entry("sock_recv", &err, func() sandbox.Errno {
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
		inst.Heap.U16Store(roflagsPtr, 0)
		return sandbox.ErrnoSuccess
	}), err
}

// SockShutdown shuts down one or both directions of a connected socket.
func SockShutdown(inst *sandbox.Instance, fd uint32, how uint8) (result int32, err error) {
	return entry("sock_shutdown", &err, func() sandbox.Errno {
		hostFD, _, ok := lookupFD(inst, fd)
		if !ok {
			return sandbox.ErrnoBadf
		}
		hostHow, errno := sandbox.ToHostShutdown(how)
		if errno != sandbox.ErrnoSuccess {
			return errno
		}
		return sandbox.ToGuestErrno(unix.Shutdown(hostFD, hostHow))
	}), err
}
