//go:build !linux

package rawsock

import (
	"errors"
	"os"
)

var ErrNotSupported = errors.New("raw sockets are not supported on this platform")

func Open(ifindex int) (*os.File, error) {
	return nil, ErrNotSupported
}
