package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/outline/internal/ast"
	"github.com/chriserin/outline/internal/db"
	"github.com/chriserin/outline/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status [<run-id>]",
	Short: "Show row counts of the latest run, or of the given run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := ""
		if len(args) == 1 {
			runID = args[0]
		}
		return RunStatusReport(cmd.OutOrStdout(), runID)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatusReport(w io.Writer, runID string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, closeDB, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	runs, err := store.ListRuns(-1)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Runs: %d\n", len(runs))
	if len(runs) == 0 {
		return nil
	}

	run := runs[0]
	if runID != "" {
		found := false
		for _, r := range runs {
			if r.ID == runID {
				run, found = r, true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", db.ErrRunNotFound, runID)
		}
	}

	counts, err := store.RowStatusCounts(run.ID)
	if err != nil {
		return err
	}
	var statusCounts []ui.StatusCount
	for _, c := range counts {
		s, err := ast.ParseStatus(c.Status)
		if err != nil {
			return fmt.Errorf("run %s: %w", run.ID, err)
		}
		statusCounts = append(statusCounts, ui.StatusCount{Status: s, Count: c.Count})
	}

	mode := ""
	if run.DryRun {
		mode = ", dry run"
	}
	fmt.Fprintf(w, "Status: %s%s\nStarted: %s\n", run.Status, mode, run.StartedAt)
	ui.RunSummary(w, run.ID, run.Rows, statusCounts)
	return nil
}

