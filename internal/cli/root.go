// Package cli provides the command-line interface for csvtable.
package cli

import (
	"log/slog"

	"github.com/JonMunkholm/csvtable/internal/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "csvtable",
		Short: "Load, sort and filter CSV files",
		Long: `csvtable loads a CSV file into a table, sorts its data rows by a numeric
column and hides rows that do not contain a keyword.

Use "csvtable render" to print the result in a terminal; the web UI is
served by the separate server binary.`,
		Version:       Version,
		SilenceUsage:  true,
		// Logs go to stderr so they never mix with rendered output.
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logLevel, "text"))
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(NewRenderCommand())

	return rootCmd
}
