package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/outline/internal/parser"
	"github.com/chriserin/outline/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Scan the features directory and register files and outlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func RunSync(w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, closeDB, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	matches, err := featureFiles(cfg)
	if err != nil {
		return err
	}

	files, outlines := 0, 0
	for _, path := range matches {
		pf, err := parser.ParseFile(path)
		if err != nil {
			return err
		}

		fileID, created, err := store.RegisterFile(path)
		if err != nil {
			return err
		}
		if created {
			ui.NewLine(w, path)
		} else {
			ui.TrkLine(w, path)
		}
		for _, perr := range pf.Errors {
			ui.ParseErrorLine(w, path, perr.Line, perr.Message)
		}

		for _, o := range pf.Feature.Outlines {
			if _, _, err := store.RegisterOutline(fileID, o.Name, o.Line); err != nil {
				return err
			}
			outlines++
		}
		files++
	}

	ui.SummaryLine(w, files, outlines)
	return nil
}

// parseFeature parses path and fails on any parse error.
func parseFeature(path string) (*parser.ParsedFile, error) {
	pf, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if len(pf.Errors) > 0 {
		first := pf.Errors[0]
		return nil, fmt.Errorf("%s:%d: %s (%d parse errors)", path, first.Line, first.Message, len(pf.Errors))
	}
	return pf, nil
}
