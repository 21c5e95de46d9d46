package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"validprop/internal/health"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dashboard version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dashboard version %s\n", health.Version)
	},
}
