package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the version of cachesim. It is set at link time.
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of cachesim.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cachesim %s\n", Version)
		},
	}
}
