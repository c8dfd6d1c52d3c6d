package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/outline/internal/ast"
	"github.com/chriserin/outline/internal/ui"
)

var cellsCmd = &cobra.Command{
	Use:   "cells <run-id>",
	Short: "List every attributed examples cell of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunCells(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(cellsCmd)
}

func RunCells(w io.Writer, runID string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, closeDB, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	cells, err := store.RunCells(runID)
	if err != nil {
		return err
	}
	if len(cells) == 0 {
		fmt.Fprintf(w, "no cells recorded for %s\n", runID)
		return nil
	}

	for _, c := range cells {
		s, err := ast.ParseStatus(c.Status)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", c.FilePath, c.Line, err)
		}
		ui.CellLine(w, fmt.Sprintf("%s:%d", c.FilePath, c.Line), c.Column, c.Value, s)
	}
	return nil
}
