//go:build linux

package evdev

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux _IOC request encoding.
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocNone  = 0
	iocWrite = 1
	iocRead  = 2
)

func ioc(dir, typ, nr, size uint32) uintptr {
	return uintptr(dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNRShift | size<<iocSizeShift)
}

// IO, IOR and IOW mirror the kernel macros of the same names.
func IO(typ, nr uint32) uintptr { return ioc(iocNone, typ, nr, 0) }
func IOR(typ, nr, size uint32) uintptr { return ioc(iocRead, typ, nr, size) }
func IOW(typ, nr, size uint32) uintptr { return ioc(iocWrite, typ, nr, size) }

// eviocgabs is EVIOCGABS(code): read struct input_absinfo.
func eviocgabs(code uint16) uintptr {
	return IOR('E', 0x40+uint32(code), uint32(unsafe.Sizeof(AbsInfo{})))
}

// eviocgbit is EVIOCGBIT(ev, size): read the code bitmap of an event type.
func eviocgbit(ev uint16, size int) uintptr {
	return IOR('E', 0x20+uint32(ev), uint32(size))
}

// Ioctl issues req on the descriptor behind rc with a pointer argument.
// It goes through Control so the descriptor stays in non-blocking mode and
// a blocked Read can still be interrupted by Close.
func Ioctl(rc syscall.RawConn, req uintptr, arg unsafe.Pointer) error {
	var errno unix.Errno
	err := rc.Control(func(fd uintptr) {
		_, _, errno = unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg))
	})
	if err != nil {
		return err
	}
	if errno != 0 {
		return errno
	}
	return nil
}

// IoctlValue is Ioctl for requests taking an integer argument.
func IoctlValue(rc syscall.RawConn, req uintptr, v uintptr) error {
	var errno unix.Errno
	err := rc.Control(func(fd uintptr) {
		_, _, errno = unix.Syscall(unix.SYS_IOCTL, fd, req, v)
	})
	if err != nil {
		return err
	}
	if errno != 0 {
		return errno
	}
	return nil
}
