package tuntap

import (
	"fmt"
	"golang.org/x/sys/unix"
	"os"
	"path/filepath"
)

// devDir is where OpenBSD exposes its preconfigured device nodes.
const devDir = "/dev"

func (options *OpenOptions) open(accessMode int) (*os.File, string, error) {
	// Each device is a separate node under /dev, there is no clone
	// device that could hand out a free number.
	name, ok := options.DeviceName()
	if !ok {
		return nil, "", fmt.Errorf("%w: %s device nodes are addressed by number", ErrNumberRequired, options.mode)
	}

	flags := accessMode
	if options.nonblock {
		flags |= unix.O_NONBLOCK
	}

	file, err := os.OpenFile(filepath.Join(devDir, name), flags, 0)
	if err != nil {
		return nil, "", err
	}

	return file, name, nil
}
