package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chriserin/outline/internal/config"
	"github.com/chriserin/outline/internal/db"
	"github.com/chriserin/outline/internal/steps"
	"github.com/chriserin/outline/internal/ui"
)

// Steps holds the step definitions `outline run` matches against. A project
// registers its definitions here before calling Execute.
var Steps = steps.NewRegistry()

var verbose bool

var rootCmd = &cobra.Command{
	Use:          "outline",
	Short:        "outline — run Scenario Outline examples row by row",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.Colors = ui.ShouldUseColor()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	dir := os.Getenv("OUTLINE_DIR")
	if dir == "" {
		dir = config.DefaultDir
	}
	return config.Load(config.Path(dir))
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = slog.LevelWarn
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore opens the results database of an initialized workspace.
func openStore(cfg *config.Config) (*db.Store, func() error, error) {
	if _, err := os.Stat(cfg.Dir); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("run `outline init` first")
	}
	sqlDB, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return db.NewStore(sqlDB), sqlDB.Close, nil
}

func featureFiles(cfg *config.Config) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(cfg.Dir, "*.feature"))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", cfg.Dir, err)
	}
	sort.Strings(matches)
	return matches, nil
}
