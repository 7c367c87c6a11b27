// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spyglass-cli/spyglass/internal/apperrors"
)

var rootCmd = &cobra.Command{
	Use:   "spyglass",
	Short: "A CLI tool to count GitHub repositories by topic and keyword.",
	Long: `spyglass counts GitHub repositories matching a set of topics and/or
keywords created within a date range. The GitHub Search API caps counts at
1000 results per query; with --exact the date range is recursively split
until every sub-range reports an accurate count, and the parts are summed.`,
	SilenceUsage:  true, // Don't show usage on error
	SilenceErrors: true, // We handle error printing ourselves
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Usage errors exit with code 2, remote failures with code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if apperrors.IsUsage(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
