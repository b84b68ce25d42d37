// Package tun opens TUN devices: virtual network devices that exchange
// raw IP packets with the host networking stack.
package tun

import (
	"github.com/cirruslabs/tuntap"
	"os"
)

// OpenOptions mirrors tuntap.OpenOptions with the mode pinned to TUN.
type OpenOptions struct {
	inner *tuntap.OpenOptions
}

// NewOpenOptions returns options for a TUN device with the usual
// defaults: read and write access, blocking I/O, no device number and
// no packet information.
func NewOpenOptions() *OpenOptions {
	return &OpenOptions{
		inner: tuntap.NewOpenOptions(tuntap.TUN),
	}
}

// Number requests a concrete device, e.g. 3 for "tun3".
func (options *OpenOptions) Number(number uint8) *OpenOptions {
	options.inner.Number(number)

	return options
}

// Read sets whether the device is opened for reading.
func (options *OpenOptions) Read(read bool) *OpenOptions {
	options.inner.Read(read)

	return options
}

// Write sets whether the device is opened for writing.
func (options *OpenOptions) Write(write bool) *OpenOptions {
	options.inner.Write(write)

	return options
}

// Nonblock opens the device in non-blocking mode.
func (options *OpenOptions) Nonblock(nonblock bool) *OpenOptions {
	options.inner.Nonblock(nonblock)

	return options
}

// PacketInfo asks the driver to prepend its packet information header
// to every packet. Linux only.
func (options *OpenOptions) PacketInfo(packetInfo bool) *OpenOptions {
	options.inner.PacketInfo(packetInfo)

	return options
}

// DeviceName returns the device name the options would request and
// whether there is one at all.
func (options *OpenOptions) DeviceName() (string, bool) {
	return options.inner.DeviceName()
}

// Open opens the device, see tuntap.OpenOptions.Open.
func (options *OpenOptions) Open() (*os.File, string, error) {
	return options.inner.Open()
}
