package sandbox

import (
	"golang.org/x/sys/unix"
)

// Errno is the closed set of guest-visible error codes. Unlike a host
// error, an Errno never wraps a cause and never carries a string: it is
// returned to the guest as a plain integer, so the set it can take is
// fixed independent of what the host OS happens to report.
type Errno uint16

// The subset of WASI preview-1 errno values this runtime ever reports to a
// guest. Host errors outside this set collapse to ErrnoPerm, the ABI's
// catch-all "not permitted" default.
const (
	ErrnoSuccess      Errno = 0
	ErrnoTooBig       Errno = 1
	ErrnoAcces        Errno = 2
	ErrnoAddrInUse    Errno = 3
	ErrnoAddrNotAvail Errno = 4
	ErrnoAgain        Errno = 6
	ErrnoBadf         Errno = 8
	ErrnoBusy         Errno = 10
	ErrnoConnRefused  Errno = 14
	ErrnoConnReset    Errno = 15
	ErrnoExist        Errno = 20
	ErrnoFault        Errno = 21
	ErrnoFbig         Errno = 22
	ErrnoIntr         Errno = 27
	ErrnoInval        Errno = 28
	ErrnoIO           Errno = 29
	ErrnoIsDir        Errno = 31
	ErrnoLoop         Errno = 32
	ErrnoMfile        Errno = 33
	ErrnoMsgSize      Errno = 35
	ErrnoNameTooLong  Errno = 37
	ErrnoNfile        Errno = 41
	ErrnoNoBufs       Errno = 42
	ErrnoNodev        Errno = 43
	ErrnoNoent        Errno = 44
	ErrnoNomem        Errno = 48
	ErrnoNoProtoOpt   Errno = 50
	ErrnoNospc        Errno = 51
	ErrnoNosys        Errno = 52
	ErrnoNotConn      Errno = 53
	ErrnoNotDir       Errno = 54
	ErrnoNotEmpty     Errno = 55
	ErrnoNotSock      Errno = 57
	ErrnoNotSup       Errno = 58
	ErrnoNotty        Errno = 59
	ErrnoNxio         Errno = 60
	ErrnoOverflow     Errno = 61
	ErrnoPerm         Errno = 63
	ErrnoPipe         Errno = 64
	ErrnoRange        Errno = 68
	ErrnoRofs         Errno = 69
	ErrnoSpipe        Errno = 70
	ErrnoSrch         Errno = 71
	ErrnoTimedout     Errno = 73
	ErrnoXdev         Errno = 75
	ErrnoNotCapable   Errno = 76
)

var errnoNames = map[Errno]string{
	ErrnoSuccess:      "success",
	ErrnoTooBig:       "2big",
	ErrnoAcces:        "acces",
	ErrnoAddrInUse:    "addrinuse",
	ErrnoAddrNotAvail: "addrnotavail",
	ErrnoAgain:        "again",
	ErrnoBadf:         "badf",
	ErrnoBusy:         "busy",
	ErrnoConnRefused:  "connrefused",
	ErrnoConnReset:    "connreset",
	ErrnoExist:        "exist",
	ErrnoFault:        "fault",
	ErrnoFbig:         "fbig",
	ErrnoIntr:         "intr",
	ErrnoInval:        "inval",
	ErrnoIO:           "io",
	ErrnoIsDir:        "isdir",
	ErrnoLoop:         "loop",
	ErrnoMfile:        "mfile",
	ErrnoMsgSize:      "msgsize",
	ErrnoNameTooLong:  "nametoolong",
	ErrnoNfile:        "nfile",
	ErrnoNoBufs:       "nobufs",
	ErrnoNodev:        "nodev",
	ErrnoNoent:        "noent",
	ErrnoNomem:        "nomem",
	ErrnoNoProtoOpt:   "noprotoopt",
	ErrnoNospc:        "nospc",
	ErrnoNosys:        "nosys",
	ErrnoNotConn:      "notconn",
	ErrnoNotDir:       "notdir",
	ErrnoNotEmpty:     "notempty",
	ErrnoNotSock:      "notsock",
	ErrnoNotSup:       "notsup",
	ErrnoNotty:        "notty",
	ErrnoNxio:         "nxio",
	ErrnoOverflow:     "overflow",
	ErrnoPerm:         "perm",
	ErrnoPipe:         "pipe",
	ErrnoRange:        "range",
	ErrnoRofs:         "rofs",
	ErrnoSpipe:        "spipe",
	ErrnoSrch:         "srch",
	ErrnoTimedout:     "timedout",
	ErrnoXdev:         "xdev",
	ErrnoNotCapable:   "notcapable",
}

func (e Errno) String() string {
	if name, ok := errnoNames[e]; ok {
		return name
	}
	return "unknown"
}

// unixErrnoToGuest translates a host unix.Errno into the closed guest enum.
// Anything not explicitly listed collapses to ErrnoPerm: the ABI layer
// would rather under-report the precise cause than leak a host-specific
// code the guest has no way to interpret.
var unixErrnoToGuest = map[unix.Errno]Errno{
	unix.E2BIG:        ErrnoTooBig,
	unix.EACCES:       ErrnoAcces,
	unix.EADDRINUSE:   ErrnoAddrInUse,
	unix.EADDRNOTAVAIL: ErrnoAddrNotAvail,
	unix.EAGAIN:       ErrnoAgain,
	unix.EBADF:        ErrnoBadf,
	unix.EBUSY:        ErrnoBusy,
	unix.ECONNREFUSED: ErrnoConnRefused,
	unix.ECONNRESET:   ErrnoConnReset,
	unix.EEXIST:       ErrnoExist,
	unix.EFAULT:       ErrnoFault,
	unix.EFBIG:        ErrnoFbig,
	unix.EINTR:        ErrnoIntr,
	unix.EINVAL:       ErrnoInval,
	unix.EIO:          ErrnoIO,
	unix.EISDIR:       ErrnoIsDir,
	unix.ELOOP:        ErrnoLoop,
	unix.EMFILE:       ErrnoMfile,
	unix.EMSGSIZE:     ErrnoMsgSize,
	unix.ENAMETOOLONG: ErrnoNameTooLong,
	unix.ENFILE:       ErrnoNfile,
	unix.ENOBUFS:      ErrnoNoBufs,
	unix.ENODEV:       ErrnoNodev,
	unix.ENOENT:       ErrnoNoent,
	unix.ENOMEM:       ErrnoNomem,
	unix.ENOPROTOOPT:  ErrnoNoProtoOpt,
	unix.ENOSPC:       ErrnoNospc,
	unix.ENOSYS:       ErrnoNosys,
	unix.ENOTCONN:     ErrnoNotConn,
	unix.ENOTDIR:      ErrnoNotDir,
	unix.ENOTEMPTY:    ErrnoNotEmpty,
	unix.ENOTSOCK:     ErrnoNotSock,
	unix.ENOTSUP:      ErrnoNotSup,
	unix.ENOTTY:       ErrnoNotty,
	unix.ENXIO:        ErrnoNxio,
	unix.EOVERFLOW:    ErrnoOverflow,
	unix.EPERM:        ErrnoPerm,
	unix.EPIPE:        ErrnoPipe,
	unix.ERANGE:       ErrnoRange,
	unix.EROFS:        ErrnoRofs,
	unix.ESPIPE:       ErrnoSpipe,
	unix.ESRCH:        ErrnoSrch,
	unix.ETIMEDOUT:    ErrnoTimedout,
	unix.EXDEV:        ErrnoXdev,
}

// ToGuestErrno translates a host error raised by a syscall package call
// into the closed guest errno enum. A nil error becomes ErrnoSuccess; an
// error that isn't a unix.Errno, or one this runtime doesn't recognize,
// becomes ErrnoPerm.
func ToGuestErrno(err error) Errno {
	if err == nil {
		return ErrnoSuccess
	}
	var errno unix.Errno
	if e, ok := err.(unix.Errno); ok {
		errno = e
	} else if pe, ok := err.(interface{ Unwrap() error }); ok {
		return ToGuestErrno(pe.Unwrap())
	} else {
		return ErrnoPerm
	}
	if guest, ok := unixErrnoToGuest[errno]; ok {
		return guest
	}
	return ErrnoPerm
}
