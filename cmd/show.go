package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/outline/internal/ast"
	"github.com/chriserin/outline/internal/config"
	"github.com/chriserin/outline/internal/db"
	"github.com/chriserin/outline/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Pretty-print a feature's outlines, coloured by the latest run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, file string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := resolveFeature(cfg, file)
	if err != nil {
		return err
	}
	pf, err := parseFeature(path)
	if err != nil {
		return err
	}

	p := ui.NewPrinter(w)
	statuses, err := latestCellStatuses(cfg, path)
	if err != nil {
		return err
	}
	if len(statuses) > 0 {
		p.CellStatus = func(c ast.Cell) (ast.Status, bool) {
			s, ok := statuses[cellKey(c.Line, c.Column)]
			return s, ok
		}
	}

	return ui.PrintFeature(w, pf.Feature, p)
}

// resolveFeature accepts a path as given or relative to the features directory.
func resolveFeature(cfg *config.Config, file string) (string, error) {
	if _, err := os.Stat(file); err == nil {
		return file, nil
	}
	inDir := filepath.Join(cfg.Dir, file)
	if _, err := os.Stat(inDir); err == nil {
		return inDir, nil
	}
	return "", fmt.Errorf("feature file %s not found", file)
}

// latestCellStatuses maps every cell of path attributed in the latest run to
// its status. No database or no runs yields an empty map.
func latestCellStatuses(cfg *config.Config, path string) (map[string]ast.Status, error) {
	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		return nil, nil
	}
	store, closeDB, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer closeDB()

	run, err := store.LatestRun()
	if errors.Is(err, db.ErrRunNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cells, err := store.RunCells(run.ID)
	if err != nil {
		return nil, err
	}

	out := map[string]ast.Status{}
	for _, c := range cells {
		if c.FilePath != path {
			continue
		}
		s, err := ast.ParseStatus(c.Status)
		if err != nil {
			return nil, err
		}
		out[cellKey(c.Line, c.Column)] = s
	}
	return out, nil
}

func cellKey(line int, column string) string {
	return fmt.Sprintf("%d/%s", line, column)
}
