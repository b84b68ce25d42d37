package command

import (
	"github.com/cirruslabs/tuntap/internal/command/list"
	"github.com/cirruslabs/tuntap/internal/command/open"
	"github.com/cirruslabs/tuntap/internal/version"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tuntap",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.FullVersion,
	}

	cmd.AddCommand(
		open.NewCommand(),
		list.NewCommand(),
	)

	return cmd
}
