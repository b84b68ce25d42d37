package tuntap

import (
	"fmt"
	"github.com/cirruslabs/tuntap/internal/ioc"
	"golang.org/x/sys/unix"
	"os"
	"unicode/utf8"
)

// clonePath is the multiplexer device that all TUN/TAP devices are
// cloned from.
const clonePath = "/dev/net/tun"

// tunSetIff attaches a descriptor cloned from clonePath to a concrete
// device, _IOW('T', 202, int) in <linux/if_tun.h>. glibc and musl carry
// the code in different C types, the bits are the same.
var tunSetIff = ioc.IOW('T', 202, 4)

func (options *OpenOptions) open(accessMode int) (*os.File, string, error) {
	flags := accessMode | unix.O_CLOEXEC
	if options.nonblock {
		flags |= unix.O_NONBLOCK
	}

	fd, err := unix.Open(clonePath, flags, 0)
	if err != nil {
		return nil, "", &os.PathError{Op: "open", Path: clonePath, Err: err}
	}

	// An empty name leaves the request zeroed and the kernel picks the
	// next free device itself.
	requestedName, _ := options.DeviceName()

	ifreq, err := unix.NewIfreq(requestedName)
	if err != nil {
		unix.Close(fd)

		return nil, "", fmt.Errorf("failed to create an interface request for %q: %w", requestedName, err)
	}

	ifreq.SetUint16(options.interfaceFlags())

	if err := unix.IoctlIfreq(fd, tunSetIff, ifreq); err != nil {
		unix.Close(fd)

		return nil, "", fmt.Errorf("failed to TUNSETIFF: %w", err)
	}

	// The kernel writes the name it settled on back into the request.
	name := ifreq.Name()
	if !utf8.ValidString(name) {
		unix.Close(fd)

		return nil, "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return os.NewFile(uintptr(fd), name), name, nil
}

// interfaceFlags encodes the mode and the packet information switch the
// way the ifr_flags field of the attach request expects them.
func (options *OpenOptions) interfaceFlags() uint16 {
	var flags uint16

	switch options.mode {
	case TUN:
		flags = unix.IFF_TUN
	case TAP:
		flags = unix.IFF_TAP
	}

	if !options.packetInfo {
		flags |= unix.IFF_NO_PI
	}

	return flags
}
