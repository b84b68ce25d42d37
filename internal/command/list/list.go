package list

import (
	"fmt"
	"github.com/gosuri/uitable"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"net"
	"strings"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List TUN/TAP devices present on this host",
		RunE:  runList,
		Args:  cobra.ExactArgs(0),
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	interfaces, err := net.Interfaces()
	if err != nil {
		return err
	}

	// Device names are a convention, not a kernel-level attribute, so
	// go by the conventional prefixes
	tunTapInterfaces := lo.Filter(interfaces, func(iface net.Interface, _ int) bool {
		return strings.HasPrefix(iface.Name, "tun") ||
			strings.HasPrefix(iface.Name, "tap") ||
			strings.HasPrefix(iface.Name, "utun")
	})

	table := uitable.New()

	table.AddRow("Name", "Index", "MTU", "Flags")

	for _, iface := range tunTapInterfaces {
		table.AddRow(iface.Name, iface.Index, iface.MTU, iface.Flags.String())
	}

	fmt.Println(table.String())

	return nil
}
