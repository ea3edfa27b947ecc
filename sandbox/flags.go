package sandbox

import "golang.org/x/sys/unix"

// The guest ABI's own flag and constant encodings. These are the numeric
// values the guest program itself uses — a subset of the WASI preview-1
// encodings — independent of whatever the host happens to define them as.

// Open flags (path_open oflags, u16).
const (
	OFlagCreat     uint16 = 1 << 0
	OFlagDirectory uint16 = 1 << 1
	OFlagExcl      uint16 = 1 << 2
	OFlagTrunc     uint16 = 1 << 3
)

// Descriptor flags (fdflags, u16).
const (
	FDFlagAppend   uint16 = 1 << 0
	FDFlagDSync    uint16 = 1 << 1
	FDFlagNonblock uint16 = 1 << 2
	FDFlagRSync    uint16 = 1 << 3
	FDFlagSync     uint16 = 1 << 4
)

// Lookup flags (u32).
const (
	LookupSymlinkFollow uint32 = 1 << 0
)

// Seek whence (u8).
const (
	WhenceSet uint8 = 0
	WhenceCur uint8 = 1
	WhenceEnd uint8 = 2
)

// Advice (fd_advise advice, u8).
const (
	AdviceNormal     uint8 = 0
	AdviceSequential uint8 = 1
	AdviceRandom     uint8 = 2
	AdviceWillNeed   uint8 = 3
	AdviceDontNeed   uint8 = 4
	AdviceNoReuse    uint8 = 5
)

// File types (u8), as reported by fd_fdstat_get/fd_filestat_get.
const (
	FiletypeUnknown         uint8 = 0
	FiletypeBlockDevice     uint8 = 1
	FiletypeCharacterDevice uint8 = 2
	FiletypeDirectory       uint8 = 3
	FiletypeRegularFile     uint8 = 4
	FiletypeSocketDgram     uint8 = 5
	FiletypeSocketStream    uint8 = 6
	FiletypeSymbolicLink    uint8 = 7
)

// Socket domain/type (u32). This runtime's socket surface is a small,
// self-contained subset invented for the capability-policy-restricted
// netlist rather than a faithful port of a POSIX socket() — there is
// exactly one address family, and the "type" argument alone selects the
// wire protocol, which also doubles as the protocol tag the netlist
// matches against.
const (
	SockDomainInet4 uint32 = 1
)
const (
	SockTypeStream uint32 = 1 // TCP
	SockTypeDgram  uint32 = 2 // UDP
)

// Shutdown directions (sdflags, u8).
const (
	ShutRD uint8 = 1 << 0
	ShutWR uint8 = 1 << 1
)

// ToHostSeekWhence converts a guest whence value to the host equivalent,
// trapping on a value outside the closed set — an invalid whence is a
// calling-convention violation, not a recoverable guest error.
func ToHostSeekWhence(whence uint8) int {
	switch whence {
	case WhenceSet:
		return unix.SEEK_SET
	case WhenceCur:
		return unix.SEEK_CUR
	case WhenceEnd:
		return unix.SEEK_END
	default:
		trap("invalid seek whence %d", whence)
		return 0
	}
}

// ToHostAdvice converts a guest advice value to the host fadvise constant.
// An unrecognized value falls back to FADV_NORMAL: advice is inherently
// advisory, so silently degrading is preferable to trapping the instance
// over a hint the host is always free to ignore.
func ToHostAdvice(advice uint8) int {
	switch advice {
	case AdviceSequential:
		return unix.FADV_SEQUENTIAL
	case AdviceRandom:
		return unix.FADV_RANDOM
	case AdviceWillNeed:
		return unix.FADV_WILLNEED
	case AdviceDontNeed:
		return unix.FADV_DONTNEED
	case AdviceNoReuse:
		return unix.FADV_NOREUSE
	default:
		return unix.FADV_NORMAL
	}
}

// ToHostShutdown converts guest sdflags to the host shutdown() how value.
func ToHostShutdown(how uint8) (int, Errno) {
	switch how & (ShutRD | ShutWR) {
	case ShutRD:
		return unix.SHUT_RD, ErrnoSuccess
	case ShutWR:
		return unix.SHUT_WR, ErrnoSuccess
	case ShutRD | ShutWR:
		return unix.SHUT_RDWR, ErrnoSuccess
	default:
		return 0, ErrnoInval
	}
}

// FiletypeFromMode derives a guest filetype code from a host stat mode.
func FiletypeFromMode(mode uint32) uint8 {
	switch mode & unix.S_IFMT {
	case unix.S_IFREG:
		return FiletypeRegularFile
	case unix.S_IFDIR:
		return FiletypeDirectory
	case unix.S_IFLNK:
		return FiletypeSymbolicLink
	case unix.S_IFBLK:
		return FiletypeBlockDevice
	case unix.S_IFCHR:
		return FiletypeCharacterDevice
	case unix.S_IFSOCK:
		return FiletypeSocketStream
	default:
		return FiletypeUnknown
	}
}
