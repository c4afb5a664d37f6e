/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// root.go defines the root command and CLI execution entry point.
//
// Separated from flags.go to isolate cobra setup from flag definitions.
package cmd

import (
	"fmt"
	"os"

	"github.com/jpl-au/apilens/internal/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "apilens",
	Short: "Full-text search over .NET XML API documentation",
	Long:  `ApiLens indexes NuGet package XML documentation files and serves full-text queries over member names, summaries, cross-references, and packaging metadata.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command and handles process lifecycle. Opens audit
// logging, executes the command, and ensures the log is flushed before exit.
// Exit code 1 indicates error.
func Execute() {
	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// RootCmd returns the root command, for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
