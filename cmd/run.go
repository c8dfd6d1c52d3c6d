package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/outline/internal/ast"
	"github.com/chriserin/outline/internal/events"
	"github.com/chriserin/outline/internal/runner"
	"github.com/chriserin/outline/internal/ui"
)

// ErrRowsFailed is returned by RunRun when at least one row failed.
var ErrRowsFailed = errors.New("rows failed")

var dryRunFlag bool

var runCmd = &cobra.Command{
	Use:   "run [files...]",
	Short: "Execute every examples row of the given features, or of all features",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunRun(cmd.Context(), cmd.OutOrStdout(), args, dryRunFlag)
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Bind and match steps without running them")
	rootCmd.AddCommand(runCmd)
}

func RunRun(ctx context.Context, w io.Writer, files []string, dryRun bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	store, closeDB, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	var paths []string
	if len(files) == 0 {
		if paths, err = featureFiles(cfg); err != nil {
			return err
		}
	}
	for _, f := range files {
		path, err := resolveFeature(cfg, f)
		if err != nil {
			return err
		}
		paths = append(paths, path)
	}

	var features []*ast.Feature
	for _, path := range paths {
		pf, err := parseFeature(path)
		if err != nil {
			return err
		}
		features = append(features, pf.Feature)
	}

	pub, err := events.New(cfg.NATSURL)
	if err != nil {
		return err
	}
	defer pub.Close()

	if Steps.Len() == 0 && !dryRun {
		logger.Warn("no step definitions registered; every step is undefined")
	}

	r, err := runner.New(runner.Options{
		Steps:       Steps,
		DryRun:      dryRun,
		StrictCells: cfg.StrictCells,
		Logger:      logger,
		Publisher:   pub,
		Recorder:    store,
		Out:         w,
	})
	if err != nil {
		return err
	}

	res, err := r.Run(ctx, features...)
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	ui.RunSummary(w, res.RunID, res.Summary.Rows, summaryCounts(res.Summary))
	if res.Summary.Failed > 0 {
		return ErrRowsFailed
	}
	return nil
}

func summaryCounts(s runner.Summary) []ui.StatusCount {
	var out []ui.StatusCount
	for _, c := range []ui.StatusCount{
		{Status: ast.StatusFailed, Count: s.Failed},
		{Status: ast.StatusUndefined, Count: s.Undefined},
		{Status: ast.StatusPending, Count: s.Pending},
		{Status: ast.StatusSkipped, Count: s.Skipped},
		{Status: ast.StatusPassed, Count: s.Passed},
	} {
		if c.Count > 0 {
			out = append(out, c)
		}
	}
	return out
}
