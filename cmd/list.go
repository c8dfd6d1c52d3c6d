package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/outline/internal/parser"
	"github.com/chriserin/outline/internal/ui"
)

var tagFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every scenario outline with its examples",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), tagFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&tagFlag, "tag", "", "Only list outlines carrying this tag")
	rootCmd.AddCommand(listCmd)
}

type listRow struct {
	location string
	name     string
	line     int
	examples int
	rows     int
}

func RunList(w io.Writer, tag string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	matches, err := featureFiles(cfg)
	if err != nil {
		return err
	}
	if tag != "" && !strings.HasPrefix(tag, "@") {
		tag = "@" + tag
	}

	var results []listRow
	for _, path := range matches {
		pf, err := parser.ParseFile(path)
		if err != nil {
			return err
		}
		for _, perr := range pf.Errors {
			ui.ParseErrorLine(w, path, perr.Line, perr.Message)
		}
		for _, o := range pf.Feature.Outlines {
			if tag != "" && !o.Tags.Has(tag) {
				continue
			}
			results = append(results, listRow{
				location: path,
				name:     o.Name,
				line:     o.Line,
				examples: len(o.Examples),
				rows:     o.RowCount(),
			})
		}
	}

	if len(results) == 0 {
		return nil
	}

	// Compute column widths
	fileWidth, nameWidth := 0, 0
	for _, r := range results {
		loc := fmt.Sprintf("%s:%d", r.location, r.line)
		if len(loc) > fileWidth {
			fileWidth = len(loc)
		}
		if len(r.name) > nameWidth {
			nameWidth = len(r.name)
		}
	}

	for _, r := range results {
		ui.ListRow(w, r.location, r.name, r.line, r.examples, r.rows, fileWidth, nameWidth)
	}

	return nil
}
