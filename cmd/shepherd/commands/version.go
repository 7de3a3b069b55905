package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags.
var version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the shepherd version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("shepherd %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
