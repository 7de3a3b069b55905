package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shepherdbot/shepherd-bot/internal/core/config"
	"github.com/shepherdbot/shepherd-bot/internal/core/stats"
	"github.com/shepherdbot/shepherd-bot/internal/engine"
	"github.com/shepherdbot/shepherd-bot/internal/integrations/github"
)

var (
	runRepo       string
	runDry        bool
	runOperations int
	runOutFile    string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process the repository's open issues and pull requests once",
	Long: `Runs one pass over the repository: marks inactive items stale,
unmarks items with fresh activity, closes items stale past the close
window, and in maintainer-nudge mode posts triage/reply reminders.

The run stops as soon as the configured operation budget is exhausted;
a partially processed repository is picked up by the next scheduled run.

Usage:
  shepherd run --repo owner/name [--config path] [--dry-run] [--verbose]

Environment variables:
  GITHUB_TOKEN        Required. Token with issues:write permission.
  GITHUB_REPOSITORY   Used when --repo is not given.`,
	Run: func(cmd *cobra.Command, args []string) {
		runRun()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runRepo, "repo", "", "Repository in owner/name format (or set GITHUB_REPOSITORY)")
	runCmd.Flags().BoolVar(&runDry, "dry-run", false, "Log actions without executing them")
	runCmd.Flags().IntVar(&runOperations, "operations", 0, "Override operations-per-run budget (0 = use config)")
	runCmd.Flags().StringVar(&runOutFile, "out-file", "", "Write the JSON run report to this file (stdout if not specified)")
}

func runRun() {
	owner, repo := resolveRepo(runRepo)
	if owner == "" || repo == "" {
		fmt.Println("Error: --repo owner/name is required (or set GITHUB_REPOSITORY)")
		os.Exit(1)
	}

	opts := loadOptions()

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" && !runDry && !opts.DebugOnly {
		fmt.Println("Error: GITHUB_TOKEN environment variable is required")
		os.Exit(1)
	}

	if runDry {
		opts.DebugOnly = true
	}
	if runOperations > 0 {
		opts.OperationsPerRun = runOperations
	}

	if err := opts.Validate(); err != nil {
		fmt.Printf("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	client := github.NewClient(ctx, token, owner, repo, opts.Ascending)
	report := stats.NewRunReport(owner + "/" + repo)
	eng := engine.New(client, opts, report)

	fmt.Printf("[Shepherd] Running against %s/%s...\n", owner, repo)
	if opts.DebugOnly {
		fmt.Println("✓ Debug-only mode: no changes will be made")
	}

	if err := eng.Run(ctx); err != nil {
		fmt.Printf("❌ Run failed: %v\n", err)
		os.Exit(1)
	}

	if err := writeReport(report); err != nil {
		fmt.Printf("❌ Failed to write run report: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Processed %d items: %d marked stale, %d unstaled, %d closed, %d reminders (%d operations left)\n",
		report.Processed, report.MarkedStale, report.Unstaled, report.Closed,
		report.RemindersSent, report.OperationsRemaining)
	if len(report.Errors) > 0 {
		fmt.Printf("⚠ %d error(s) during the run; see the report for details\n", len(report.Errors))
	}
}

// loadOptions loads the config file, falling back to defaults when none
// is found or it fails to parse.
func loadOptions() *config.Options {
	path := config.FindConfigPath(cfgFile)
	if path == "" {
		if verbose {
			fmt.Println("No configuration file found. Using defaults.")
		}
		return config.Default()
	}

	opts, err := config.Load(path)
	if err != nil {
		fmt.Printf("Warning: Failed to load config from %s: %v. Using defaults.\n", path, err)
		return config.Default()
	}
	if verbose {
		fmt.Printf("Loaded config from %s\n", path)
	}
	return opts
}

// resolveRepo splits an owner/name pair from the flag or the
// GITHUB_REPOSITORY environment variable.
func resolveRepo(flag string) (string, string) {
	value := flag
	if value == "" {
		value = os.Getenv("GITHUB_REPOSITORY")
	}
	parts := strings.SplitN(value, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", ""
	}
	return parts[0], parts[1]
}

func writeReport(report *stats.RunReport) error {
	data, err := report.JSON()
	if err != nil {
		return err
	}

	if runOutFile != "" {
		if err := os.WriteFile(runOutFile, data, 0644); err != nil {
			return err
		}
		fmt.Printf("✓ Run report written to %s\n", runOutFile)
		return nil
	}

	fmt.Println("\n=== Run Report ===")
	fmt.Println(string(data))
	return nil
}
