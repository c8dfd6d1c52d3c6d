package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultDir is where feature files, the config file and the database live.
const DefaultDir = "features"

type Config struct {
	Dir         string `toml:"dir"`          // OUTLINE_DIR (default "features")
	DBPath      string `toml:"db"`           // OUTLINE_DB (default "<dir>/outline.db")
	NATSURL     string `toml:"nats_url"`     // OUTLINE_NATS_URL (optional, empty = no events)
	LogLevel    string `toml:"log_level"`    // OUTLINE_LOG_LEVEL (default "warn")
	StrictCells bool   `toml:"strict_cells"` // OUTLINE_STRICT_CELLS (fail rows whose steps outrun their cells)
}

// Path returns the config file location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, "outline.toml")
}

// Load reads the config file at path, if present, and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	c := &Config{}
	if _, err := toml.DecodeFile(path, c); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	c.Dir = envOrDefault("OUTLINE_DIR", orDefault(c.Dir, DefaultDir))
	c.DBPath = envOrDefault("OUTLINE_DB", orDefault(c.DBPath, filepath.Join(c.Dir, "outline.db")))
	c.NATSURL = envOrDefault("OUTLINE_NATS_URL", c.NATSURL)
	c.LogLevel = envOrDefault("OUTLINE_LOG_LEVEL", orDefault(c.LogLevel, "warn"))

	if v := os.Getenv("OUTLINE_STRICT_CELLS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("OUTLINE_STRICT_CELLS: %w", err)
		}
		c.StrictCells = b
	}

	if _, err := c.Level(); err != nil {
		return nil, err
	}
	return c, nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Write encodes c to path.
func (c *Config) Write(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
