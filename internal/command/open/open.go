package open

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/avast/retry-go/v4"
	"github.com/cirruslabs/tuntap"
	"github.com/cirruslabs/tuntap/packetinfo"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
	"log"
	"math"
	"os"
	"time"
)

var mode string
var number int
var withPacketInfo bool
var nonblock bool
var wait uint16

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a TUN/TAP device and dump the frames it carries",
		RunE:  runOpen,
		Args:  cobra.ExactArgs(0),
	}

	cmd.Flags().StringVar(&mode, "mode", "tun", "device mode to open, "+
		"either \"tun\" for IP packets or \"tap\" for Ethernet frames")
	cmd.Flags().IntVar(&number, "number", -1, "device number to request, "+
		"e.g. 0 to open tun0 (-1 lets the kernel pick a free number where supported)")
	cmd.Flags().BoolVar(&withPacketInfo, "packet-info", false,
		"prepend the driver's packet information header to every frame (Linux only)")
	cmd.Flags().BoolVar(&nonblock, "nonblock", false, "open the device in non-blocking mode")
	cmd.Flags().Uint16Var(&wait, "wait", 0, "seconds to keep retrying "+
		"when the device is busy instead of failing right away")

	return cmd
}

func runOpen(cmd *cobra.Command, args []string) error {
	var deviceMode tuntap.Mode

	switch mode {
	case "tun":
		deviceMode = tuntap.TUN
	case "tap":
		deviceMode = tuntap.TAP
	default:
		return fmt.Errorf("unsupported device mode %q", mode)
	}

	if number > math.MaxUint8 {
		return fmt.Errorf("device number %d is too large, the largest addressable one is %d",
			number, math.MaxUint8)
	}

	options := tuntap.NewOpenOptions(deviceMode).Nonblock(nonblock).PacketInfo(withPacketInfo)
	if number >= 0 {
		options.Number(uint8(number))
	}

	file, name, err := openDevice(cmd, options)
	if err != nil {
		return err
	}
	defer file.Close()

	log.Printf("opened %s", name)

	// Unblock the read in dump() when interrupted, otherwise the
	// process would linger until the next frame arrives.
	go func() {
		<-cmd.Context().Done()
		file.Close()
	}()

	return dump(cmd, file)
}

func openDevice(cmd *cobra.Command, options *tuntap.OpenOptions) (*os.File, string, error) {
	if wait == 0 {
		return options.Open()
	}

	waitCtx, waitCtxCancel := context.WithTimeout(cmd.Context(), time.Duration(wait)*time.Second)
	defer waitCtxCancel()

	var file *os.File
	var name string

	err := retry.Do(func() error {
		var err error

		file, name, err = options.Open()

		return err
	}, retry.Context(waitCtx),
		retry.Attempts(0),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(time.Second),
		retry.RetryIf(func(err error) bool {
			// Anything but contention is permanent
			return errors.Is(err, unix.EBUSY)
		}),
	)

	return file, name, err
}

func dump(cmd *cobra.Command, file *os.File) error {
	buf := make([]byte, 65536)

	var frames uint64
	var totalBytes uint64

	// Hex-dump the frames when a human is looking, pass them through
	// verbatim otherwise
	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	for {
		n, err := file.Read(buf)
		if err != nil {
			// The goroutine in runOpen() closes the device once the
			// command is interrupted, so report what was seen instead
			// of failing
			if cmd.Context().Err() != nil {
				log.Printf("read %s in %d frames", humanize.Bytes(totalBytes), frames)

				return nil
			}

			return err
		}

		frames++
		totalBytes += uint64(n)

		if interactive {
			fmt.Printf("frame %d: %s\n%s", frames, describeFrame(buf[:n]), hex.Dump(buf[:n]))
		} else if _, err := os.Stdout.Write(buf[:n]); err != nil {
			return err
		}
	}
}

// describeFrame summarizes a single frame, decoding the packet
// information header when the device was opened with one.
func describeFrame(frame []byte) string {
	if withPacketInfo {
		if header, err := packetinfo.Parse(frame); err == nil {
			description := fmt.Sprintf("%d bytes, EtherType %#04x", len(frame), header.Proto)

			if header.Flags&packetinfo.FlagTruncated != 0 {
				description += ", truncated"
			}

			return description
		}
	}

	return fmt.Sprintf("%d bytes", len(frame))
}
