// Package tuntap opens TUN and TAP virtual network devices and hands the
// caller an *os.File for the device together with the name the kernel
// settled on.
//
// Construct an OpenOptions with NewOpenOptions, tweak it and call Open.
// The tun and tap subpackages offer the same surface with the mode fixed,
// which is what most callers want.
package tuntap

// Mode selects the layer a device operates on: TUN devices exchange raw
// IP packets, TAP devices exchange Ethernet frames.
type Mode int

const (
	TUN Mode = iota + 1
	TAP
)

// String returns the device name prefix associated with the mode,
// e.g. "tun" for TUN.
func (mode Mode) String() string {
	switch mode {
	case TUN:
		return "tun"
	case TAP:
		return "tap"
	default:
		return "unknown"
	}
}
