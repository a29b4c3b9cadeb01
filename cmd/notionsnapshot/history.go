package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MJDeligan/notionSnapshot/internal/config"
	"github.com/MJDeligan/notionSnapshot/internal/database"
	"github.com/MJDeligan/notionSnapshot/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [workspace]",
		Short: "List recorded snapshot runs",
		Long: `History lists the snapshot runs recorded in the local database,
newest first. With a workspace argument, only that workspace's runs are
shown.

Examples:
  # All recorded runs
  notionsnapshot history

  # Runs of one workspace
  notionsnapshot history myworkspace

  # Full summary of one run
  notionsnapshot history --run 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64("run", 0, "Show the full summary of one run by id")
	cmd.Flags().BoolP("json", "j", false, "Output JSON (only with --run)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no run history found (%w)", err)
	}
	defer db.Close()

	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}
	if runID > 0 {
		return showRun(cmd, db, runID)
	}

	workspace := ""
	if len(args) == 1 {
		workspace = args[0]
	}

	runs, err := db.GetRunHistory(cmd.Context(), workspace)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWORKSPACE\tSTARTED\tPAGES\tDOWNLOADED\tCACHED\tWARNINGS")
	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Workspace,
			run.StartedAt.Format("2006-01-02 15:04"),
			run.PageCount,
			run.AssetsDownloaded,
			run.AssetsFromCache,
			run.WarningCount,
		)
	}
	return w.Flush()
}

// showRun prints the full summary of one recorded run.
func showRun(cmd *cobra.Command, db *database.RunDB, runID int64) error {
	summary, err := db.GetRunByID(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if summary == nil {
		return fmt.Errorf("no run with id %d", runID)
	}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if jsonOut {
		_, err := report.NewJSONWriter(os.Stdout, report.WithPrettyPrint()).Write(summary)
		return err
	}
	_, err = report.NewSimpleWriter(os.Stdout, report.WithVerbose(true)).Write(summary)
	return err
}
