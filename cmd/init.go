package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/outline/internal/config"
	"github.com/chriserin/outline/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize outline in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// feature directory
	_, err = os.Stat(cfg.Dir)
	dirExists := err == nil
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", cfg.Dir, err)
	}
	if dirExists {
		fmt.Fprintf(w, "%s/ already exists\n", cfg.Dir)
	} else {
		fmt.Fprintf(w, "%s/ created\n", cfg.Dir)
	}

	// config
	cfgPath := config.Path(cfg.Dir)
	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Fprintf(w, "%s already exists\n", cfgPath)
	} else {
		if err := cfg.Write(cfgPath); err != nil {
			return fmt.Errorf("writing %s: %w", cfgPath, err)
		}
		fmt.Fprintf(w, "%s created\n", cfgPath)
	}

	// database
	_, err = os.Stat(cfg.DBPath)
	dbExists := err == nil
	sqlDB, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintf(w, "%s already exists\n", cfg.DBPath)
	} else {
		fmt.Fprintf(w, "%s created\n", cfg.DBPath)
	}

	// gitignore
	msgs, err := ensureGitignore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

func ensureGitignore(entry string) ([]string, error) {
	data, err := os.ReadFile(".gitignore")
	if os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(entry+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", entry + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == entry {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{entry + " added to .gitignore"}, nil
}
