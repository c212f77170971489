// Package main provides the confkit binary entry point.
// Confkit classifies configuration files under a directory tree, validates
// the results against a format catalog, and reports profile coverage.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "confkit"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confkit",
		Short: "Configuration file classifier",
		Long: `Confkit samples files under a path, classifies each one with a
priority-ordered rule registry, and validates every match against a
versioned format catalog.

Scans run under a per-file sample size and an aggregate byte budget, so
pointing confkit at a large tree has a bounded cost. Profile documents
describe which configuration files a deployment expects; scans annotated
with profiles report coverage and format drift.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(scanCmd())
	cmd.AddCommand(catalogCmd())
	cmd.AddCommand(profilesCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}
