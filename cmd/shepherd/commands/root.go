// Package commands wires the Shepherd Bot CLI.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "shepherd",
	Short: "Repository maintenance bot for stale issues and pull requests",
	Long: `Shepherd Bot scans a repository's open issues and pull requests,
marks inactive items stale, closes items that stay inactive, and in
maintainer-nudge mode posts triage and reply reminders to maintainers
and issue authors.

It is designed to run on a schedule (e.g. a GitHub Actions cron) with a
bounded number of API operations per run.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: .github/shepherd.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
