package tuntap

import (
	"fmt"
	"golang.org/x/sys/unix"
	"os"
	"unicode/utf8"
)

// utunControlName is the kernel control that hands out utun devices.
const utunControlName = "com.apple.net.utun_control"

// utunOptIfname is the UTUN_OPT_IFNAME socket option from
// <net/if_utun.h>, which golang.org/x/sys/unix does not carry.
const utunOptIfname = 2

func (options *OpenOptions) open(_ int) (*os.File, string, error) {
	// There is no TAP driver in the macOS kernel.
	if options.mode == TAP {
		return nil, "", fmt.Errorf("%w: macOS has no TAP devices", ErrModeUnsupported)
	}

	// The utun control addresses devices by unit, there is no kernel
	// side auto-assignment to fall back to.
	if options.number == nil {
		return nil, "", fmt.Errorf("%w: utun devices are addressed by number", ErrNumberRequired)
	}

	fd, err := unix.Socket(unix.AF_SYSTEM, unix.SOCK_DGRAM, unix.SYSPROTO_CONTROL)
	if err != nil {
		return nil, "", os.NewSyscallError("socket", err)
	}

	// The control is addressed by an ID that differs from boot to boot,
	// resolve it from the well-known name first.
	ctlInfo := &unix.CtlInfo{}
	copy(ctlInfo.Name[:], utunControlName)

	if err := unix.IoctlCtlInfo(fd, ctlInfo); err != nil {
		unix.Close(fd)

		return nil, "", fmt.Errorf("failed to resolve the %q control: %w", utunControlName, err)
	}

	if err := unix.Connect(fd, &unix.SockaddrCtl{
		ID:   ctlInfo.Id,
		Unit: utunUnit(*options.number),
	}); err != nil {
		unix.Close(fd)

		return nil, "", os.NewSyscallError("connect", err)
	}

	// The device name is the kernel's to pick, ask for the one that the
	// connect actually produced.
	name, err := unix.GetsockoptString(fd, unix.SYSPROTO_CONTROL, utunOptIfname)
	if err != nil {
		unix.Close(fd)

		return nil, "", fmt.Errorf("failed to retrieve the device name: %w", err)
	}

	if !utf8.ValidString(name) {
		unix.Close(fd)

		return nil, "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
		unix.Close(fd)

		return nil, "", os.NewSyscallError("fcntl", err)
	}

	if options.nonblock {
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fd)

			return nil, "", os.NewSyscallError("fcntl", err)
		}
	}

	return os.NewFile(uintptr(fd), name), name, nil
}

// utunUnit maps a device number to the control unit that addresses it:
// utunN lives at unit N+1, unit 0 being the "any free device" wildcard
// that shifts the numbering. The convention has drifted across kernel
// generations, so it stays in one place here.
func utunUnit(number uint8) uint32 {
	return uint32(number) + 1
}
