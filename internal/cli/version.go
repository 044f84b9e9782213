package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the algtype release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/algtype"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the algtype version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "algtype v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
