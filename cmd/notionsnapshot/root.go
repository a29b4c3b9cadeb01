package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for notionSnapshot.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notionsnapshot",
		Short: "Mirror a public Notion workspace into offline HTML",
		Long: `notionSnapshot turns a live, JavaScript-hydrated Notion workspace into a
self-contained, browsable offline mirror: every reachable page is captured
after its dynamic content has rendered, remote assets are localized, and
internal navigation is rewritten to point at local files.

A headless Chromium is launched automatically. Use --browser-url to attach
to an already-running browser instead.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewSnapshotCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
