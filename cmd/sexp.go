package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/outline/internal/ast"
)

var jsonFlag bool

var sexpCmd = &cobra.Command{
	Use:   "sexp <file>",
	Short: "Print the canonical serialization of every outline in a feature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSexp(cmd.OutOrStdout(), args[0], jsonFlag)
	},
}

func init() {
	sexpCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print each outline as a JSON array")
	rootCmd.AddCommand(sexpCmd)
}

func RunSexp(w io.Writer, file string, asJSON bool) error {
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

	for _, o := range pf.Feature.Outlines {
		if !asJSON {
			fmt.Fprintln(w, ast.FormatSexp(o.Sexp()))
			continue
		}
		data, err := json.Marshal(o.Sexp())
		if err != nil {
			return fmt.Errorf("encoding %s: %w", o.Location(), err)
		}
		fmt.Fprintln(w, string(data))
	}
	return nil
}
