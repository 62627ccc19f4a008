package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// Version is the caisson release.
	Version    = "0.3.0"
	modulePath = "github.com/chazu/caisson"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the caisson version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "caisson v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
