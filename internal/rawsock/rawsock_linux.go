package rawsock

import (
	"encoding/binary"
	"golang.org/x/sys/unix"
	"os"
)

// Packet sockets silently drop frames once the receive buffer is full,
// so give it some room.
const receiveBufferSizeBytes = 1 * 1024 * 1024

// Open returns a packet socket bound to the interface with the given
// index. The socket sees every frame that crosses the interface, in
// both directions.
func Open(ifindex int) (*os.File, error) {
	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}

	// Non-blocking so that the file integrates with the runtime poller
	// and read deadlines work.
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)

		return nil, os.NewSyscallError("fcntl", err)
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, receiveBufferSizeBytes); err != nil {
		unix.Close(fd)

		return nil, os.NewSyscallError("setsockopt", err)
	}

	if err := unix.Bind(fd, &unix.SockaddrLinklayer{
		Protocol: htons(unix.ETH_P_ALL),
		Ifindex:  ifindex,
	}); err != nil {
		unix.Close(fd)

		return nil, os.NewSyscallError("bind", err)
	}

	return os.NewFile(uintptr(fd), "raw socket"), nil
}

// htons converts a value from host to network byte order.
func htons(hostshort uint16) uint16 {
	repr := make([]byte, 2)

	binary.NativeEndian.PutUint16(repr, hostshort)

	return binary.BigEndian.Uint16(repr)
}
