// Package main provides feedbackctl, the operator CLI for schema migrations
// and demo data.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
	appName = "feedbackctl"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Team feedback operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(migrateCmd(), seedCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}
