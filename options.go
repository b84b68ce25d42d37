package tuntap

import (
	"fmt"
	"os"
)

// OpenOptions describes a single TUN/TAP device to be opened. The zero
// value is not usable, use NewOpenOptions.
//
// All setters overwrite the previous value and return the options again
// so that calls can be chained.
type OpenOptions struct {
	mode       Mode
	number     *uint8
	read       bool
	write      bool
	nonblock   bool
	packetInfo bool
}

// NewOpenOptions returns options for a device of the given mode with the
// defaults in place: read and write access, blocking I/O, no device
// number and no packet information.
func NewOpenOptions(mode Mode) *OpenOptions {
	return &OpenOptions{
		mode:  mode,
		read:  true,
		write: true,
	}
}

// Mode changes the device mode set by NewOpenOptions.
func (options *OpenOptions) Mode(mode Mode) *OpenOptions {
	options.mode = mode

	return options
}

// Number requests a concrete device, e.g. 3 for "tun3". When no number
// is set, the kernel assigns a free one on platforms that support
// auto-assignment (Linux); elsewhere Open fails with ErrNumberRequired.
func (options *OpenOptions) Number(number uint8) *OpenOptions {
	options.number = &number

	return options
}

// Read sets whether the device is opened for reading. Enabled by
// default. Ignored on macOS, where the device is always read/write.
func (options *OpenOptions) Read(read bool) *OpenOptions {
	options.read = read

	return options
}

// Write sets whether the device is opened for writing. Enabled by
// default. Ignored on macOS, where the device is always read/write.
func (options *OpenOptions) Write(write bool) *OpenOptions {
	options.write = write

	return options
}

// Nonblock opens the device in non-blocking mode. Reads and writes on
// the returned file then go through the runtime poller, which also makes
// SetDeadline and friends work.
func (options *OpenOptions) Nonblock(nonblock bool) *OpenOptions {
	options.nonblock = nonblock

	return options
}

// PacketInfo asks the driver to prepend its four-byte packet information
// header to every frame, see the packetinfo package for the layout.
// Linux only, other platforms ignore it.
func (options *OpenOptions) PacketInfo(packetInfo bool) *OpenOptions {
	options.packetInfo = packetInfo

	return options
}

// DeviceName returns the device name the options would request, e.g.
// "tun3", and whether there is one at all: without a number there is no
// name to predict. The name actually assigned is reported by Open and
// may differ.
func (options *OpenOptions) DeviceName() (string, bool) {
	if options.number == nil {
		return "", false
	}

	return fmt.Sprintf("%s%d", options.mode, *options.number), true
}

// Open opens the device and returns its file together with the name the
// kernel assigned, which is authoritative. The file is not retained by
// this package in any way, closing it releases the device.
//
// Open is a single synchronous call with no retries. When two processes
// race for the same device number, the kernel arbitrates: the loser gets
// an error, typically unix.EBUSY.
func (options *OpenOptions) Open() (*os.File, string, error) {
	if options.mode != TUN && options.mode != TAP {
		return nil, "", fmt.Errorf("%w: unknown mode %d", ErrModeUnsupported, options.mode)
	}

	accessMode, err := options.accessMode()
	if err != nil {
		return nil, "", err
	}

	return options.open(accessMode)
}

func (options *OpenOptions) accessMode() (int, error) {
	switch {
	case options.read && options.write:
		return os.O_RDWR, nil
	case options.read:
		return os.O_RDONLY, nil
	case options.write:
		return os.O_WRONLY, nil
	default:
		return 0, ErrAccessRequired
	}
}
