//go:build integration && linux

package integration_test

import (
	"bytes"
	"github.com/cirruslabs/tuntap/internal/rawsock"
	"github.com/cirruslabs/tuntap/packetinfo"
	"github.com/cirruslabs/tuntap/tap"
	"github.com/cirruslabs/tuntap/tun"
	"github.com/klauspost/oui"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
	"gvisor.dev/gvisor/pkg/tcpip"
	"gvisor.dev/gvisor/pkg/tcpip/checksum"
	"gvisor.dev/gvisor/pkg/tcpip/header"
	"net"
	"os"
	"testing"
	"time"
)

const (
	hostPort   = 2424
	devicePort = 4242

	// An EtherType from the IEEE local experimental range, unlikely to
	// collide with the kernel's own chatter
	experimentalEtherType = 0x88b5
)

var (
	hostAddr   = tcpip.AddrFrom4([4]byte{10, 10, 10, 1})
	deviceAddr = tcpip.AddrFrom4([4]byte{10, 10, 10, 2})
)

func TestTunPacketFlow(t *testing.T) {
	requireRoot(t)

	// Open the device in non-blocking mode so that read deadlines work
	file, name, err := tun.NewOpenOptions().Number(10).Nonblock(true).Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	require.Equal(t, "tun10", name)

	configureInterface(t, name, "10.10.10.1/24")

	// The host talks from 10.10.10.1, the device side plays 10.10.10.2
	socket, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(10, 10, 10, 1), Port: hostPort})
	require.NoError(t, err)
	t.Cleanup(func() { _ = socket.Close() })

	// Host to device: send a datagram and watch it come out of the
	// device as a raw IPv4 packet
	payload := bytes.Repeat([]byte{0x01}, 10)

	_, err = socket.WriteToUDP(payload, &net.UDPAddr{IP: net.IPv4(10, 10, 10, 2), Port: devicePort})
	require.NoError(t, err)

	packet := readPacketTo(t, file, deviceAddr)

	ipv4 := header.IPv4(packet)
	require.Equal(t, hostAddr, ipv4.SourceAddress())
	require.Equal(t, deviceAddr, ipv4.DestinationAddress())
	require.Equal(t, header.UDPProtocolNumber, ipv4.TransportProtocol())

	udp := header.UDP(ipv4.Payload())
	require.EqualValues(t, hostPort, udp.SourcePort())
	require.EqualValues(t, devicePort, udp.DestinationPort())
	require.Equal(t, payload, udp.Payload())

	// 20 bytes of IPv4 header, 8 bytes of UDP header and the payload
	require.Len(t, packet, header.IPv4MinimumSize+header.UDPMinimumSize+len(payload))

	// Device to host: write a raw IPv4 packet into the device and watch
	// it arrive on the UDP socket
	reply := buildUDPPacket(deviceAddr, hostAddr, devicePort, hostPort, payload)

	_, err = file.Write(reply)
	require.NoError(t, err)

	require.NoError(t, socket.SetReadDeadline(time.Now().Add(10*time.Second)))

	received := make([]byte, 1500)
	n, addr, err := socket.ReadFromUDP(received)
	require.NoError(t, err)
	require.Equal(t, payload, received[:n])
	require.Equal(t, devicePort, addr.Port)
	require.True(t, addr.IP.Equal(net.IPv4(10, 10, 10, 2)))
}

func TestTunPacketInfo(t *testing.T) {
	requireRoot(t)

	file, name, err := tun.NewOpenOptions().Number(11).Nonblock(true).PacketInfo(true).Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	configureInterface(t, name, "10.10.11.1/24")

	socket, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(10, 10, 11, 1), Port: hostPort})
	require.NoError(t, err)
	t.Cleanup(func() { _ = socket.Close() })

	_, err = socket.WriteToUDP([]byte("knock"), &net.UDPAddr{IP: net.IPv4(10, 10, 11, 2), Port: devicePort})
	require.NoError(t, err)

	// Every frame now starts with the packet information header
	require.NoError(t, file.SetReadDeadline(time.Now().Add(10*time.Second)))

	buf := make([]byte, 1500)

	for {
		n, err := file.Read(buf)
		require.NoError(t, err)

		info, err := packetinfo.Parse(buf[:n])
		require.NoError(t, err)

		if info.Proto != packetinfo.ProtoIPv4 {
			continue
		}

		packet := header.IPv4(buf[packetinfo.Size:n])
		if packet.DestinationAddress() != tcpip.AddrFrom4([4]byte{10, 10, 11, 2}) {
			continue
		}

		require.Zero(t, info.Flags)

		return
	}
}

func TestTapFrameFlow(t *testing.T) {
	requireRoot(t)

	file, name, err := tap.NewOpenOptions().Number(2).Nonblock(true).Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	require.Equal(t, "tap2", name)

	link := bringUp(t, name)

	// The kernel assigns TAP devices a random unicast MAC with the
	// locally administered bit set
	ouiHwAddr, err := oui.ParseMac(link.Attrs().HardwareAddr.String())
	require.NoError(t, err)
	require.True(t, ouiHwAddr.Local())
	require.False(t, ouiHwAddr.Multicast())

	observer, err := rawsock.Open(link.Attrs().Index)
	require.NoError(t, err)
	t.Cleanup(func() { _ = observer.Close() })

	// Inject a broadcast frame through the TAP device and watch it
	// arrive on a packet socket attached to the same interface
	frame := buildEthernetFrame(tcpip.LinkAddress(link.Attrs().HardwareAddr),
		header.EthernetBroadcastAddress, bytes.Repeat([]byte{0xab}, 46))

	_, err = file.Write(frame)
	require.NoError(t, err)

	require.NoError(t, observer.SetReadDeadline(time.Now().Add(10*time.Second)))

	buf := make([]byte, 1500)

	for {
		n, err := observer.Read(buf)
		require.NoError(t, err)

		eth := header.Ethernet(buf[:n])
		if eth.Type() != experimentalEtherType {
			continue
		}

		require.Equal(t, header.EthernetBroadcastAddress, eth.DestinationAddress())
		require.Equal(t, frame, buf[:n])

		return
	}
}

func TestDeviceBusy(t *testing.T) {
	requireRoot(t)

	file, _, err := tun.NewOpenOptions().Number(12).Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	// The device is held by the file above, a second acquisition has
	// to fail without disturbing it
	_, _, err = tun.NewOpenOptions().Number(12).Open()
	require.ErrorIs(t, err, unix.EBUSY)
}

func TestNumberAutoAssignment(t *testing.T) {
	requireRoot(t)

	// With no number set, the kernel picks a free device
	first, firstName, err := tun.NewOpenOptions().Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Close() })
	require.Regexp(t, `^tun\d+$`, firstName)

	second, secondName, err := tun.NewOpenOptions().Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })
	require.Regexp(t, `^tun\d+$`, secondName)

	require.NotEqual(t, firstName, secondName)
}

func requireRoot(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("this test opens TUN/TAP devices, run it as root")
	}
}

func configureInterface(t *testing.T, name string, cidr string) {
	link, err := netlink.LinkByName(name)
	require.NoError(t, err)

	addr, err := netlink.ParseAddr(cidr)
	require.NoError(t, err)
	require.NoError(t, netlink.AddrAdd(link, addr))

	require.NoError(t, netlink.LinkSetUp(link))
}

func bringUp(t *testing.T, name string) netlink.Link {
	link, err := netlink.LinkByName(name)
	require.NoError(t, err)
	require.NoError(t, netlink.LinkSetUp(link))

	return link
}

func readPacketTo(t *testing.T, file *os.File, destination tcpip.Address) []byte {
	require.NoError(t, file.SetReadDeadline(time.Now().Add(10*time.Second)))

	buf := make([]byte, 1500)

	// The kernel chats on freshly brought up interfaces (IPv6 router
	// solicitations and the like), skip everything that is not ours
	for {
		n, err := file.Read(buf)
		require.NoError(t, err)

		packet := append([]byte(nil), buf[:n]...)

		if header.IPVersion(packet) != header.IPv4Version {
			continue
		}

		if header.IPv4(packet).DestinationAddress() != destination {
			continue
		}

		return packet
	}
}

func buildUDPPacket(src tcpip.Address, dst tcpip.Address, srcPort uint16, dstPort uint16, payload []byte) []byte {
	length := header.IPv4MinimumSize + header.UDPMinimumSize + len(payload)

	packet := make([]byte, length)

	ipv4 := header.IPv4(packet)
	ipv4.Encode(&header.IPv4Fields{
		TotalLength: uint16(length),
		TTL:         64,
		Protocol:    uint8(header.UDPProtocolNumber),
		SrcAddr:     src,
		DstAddr:     dst,
	})
	ipv4.SetChecksum(^ipv4.CalculateChecksum())

	udp := header.UDP(ipv4.Payload())
	udp.Encode(&header.UDPFields{
		SrcPort: srcPort,
		DstPort: dstPort,
		Length:  uint16(header.UDPMinimumSize + len(payload)),
	})
	copy(udp.Payload(), payload)

	pseudoHeaderChecksum := header.PseudoHeaderChecksum(header.UDPProtocolNumber, src, dst,
		uint16(header.UDPMinimumSize+len(payload)))
	udp.SetChecksum(^udp.CalculateChecksum(checksum.Checksum(payload, pseudoHeaderChecksum)))

	return packet
}

func buildEthernetFrame(src tcpip.LinkAddress, dst tcpip.LinkAddress, payload []byte) []byte {
	frame := make([]byte, header.EthernetMinimumSize+len(payload))

	eth := header.Ethernet(frame)
	eth.Encode(&header.EthernetFields{
		SrcAddr: src,
		DstAddr: dst,
		Type:    experimentalEtherType,
	})

	copy(frame[header.EthernetMinimumSize:], payload)

	return frame
}
