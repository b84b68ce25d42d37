// Package packetinfo describes the four-byte header that the Linux
// TUN/TAP driver prepends to every frame on devices opened with packet
// information enabled.
package packetinfo

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Size is the length of the header in bytes.
const Size = 4

// FlagTruncated reports that the frame did not fit into the read buffer
// and its tail was cut off, TUN_PKT_STRIP in <linux/if_tun.h>.
const FlagTruncated = 0x0001

// Well-known EtherType values seen in the Proto field of TUN devices.
const (
	ProtoIPv4 = 0x0800
	ProtoIPv6 = 0x86dd
)

var ErrShortBuffer = errors.New("buffer too short for a packet information header")

// Header is the decoded packet information: driver flags in host byte
// order, followed by the EtherType of the carried frame in network byte
// order.
type Header struct {
	Flags uint16
	Proto uint16
}

// Parse decodes the header from the first Size bytes of buf; the frame
// itself follows it.
func Parse(buf []byte) (Header, error) {
	if len(buf) < Size {
		return Header{}, fmt.Errorf("%w: got %d bytes", ErrShortBuffer, len(buf))
	}

	return Header{
		Flags: binary.NativeEndian.Uint16(buf[0:2]),
		Proto: binary.BigEndian.Uint16(buf[2:4]),
	}, nil
}

// Marshal encodes the header the way the driver expects to see it at
// the front of written frames.
func (header Header) Marshal() [Size]byte {
	var buf [Size]byte

	binary.NativeEndian.PutUint16(buf[0:2], header.Flags)
	binary.BigEndian.PutUint16(buf[2:4], header.Proto)

	return buf
}
