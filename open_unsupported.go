//go:build !linux && !darwin && !openbsd

package tuntap

import "os"

func (options *OpenOptions) open(_ int) (*os.File, string, error) {
	return nil, "", ErrPlatformUnsupported
}
