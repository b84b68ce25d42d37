package tuntap

import "errors"

var (
	// ErrNumberRequired is returned when the platform has no way to pick
	// a device number on its own.
	ErrNumberRequired = errors.New("device number is required on this platform")

	// ErrModeUnsupported is returned when the platform has no driver for
	// the requested mode, e.g. TAP on macOS.
	ErrModeUnsupported = errors.New("device mode is not supported")

	// ErrAccessRequired is returned when both read and write access were
	// switched off, leaving nothing to open the device for.
	ErrAccessRequired = errors.New("device needs to be opened for reading, writing or both")

	// ErrInvalidName is returned when the kernel reports a device name
	// that is not valid UTF-8.
	ErrInvalidName = errors.New("kernel returned an invalid device name")

	// ErrPlatformUnsupported is returned from Open on platforms this
	// package has no backend for.
	ErrPlatformUnsupported = errors.New("TUN/TAP devices are not supported on this platform")
)
