package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "ghrecap",
		Short: "Summarize recent GitHub activity",
		Long: `A CLI tool that summarizes a user's recent GitHub activity.
It combines the public events feed with issue and pull request searches,
enriches the results from the GitHub API, and groups everything into
categories like "PRs opened", "PRs reviewed" and "Issues closed".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add summary flags to root command so `ghrecap` and `ghrecap summary`
	// work identically
	addSummaryFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdSummary(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())
	rootCmd.AddCommand(NewCmdRateLimit())

	return rootCmd
}
