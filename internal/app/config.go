package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/coyote/internal/lock"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Dir      string // working directory for recipe, lock file and commands
	Recipe   string // recipe name, empty for the default recipe
	LockPath string
	Rebuild  bool // run every command regardless of run_if

	LogFormat  string
	LogLevel   string
	LogFile    string
	LogJournal bool

	MetricsFile string
	EmitHCL     bool
	NoColor     bool
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.LockPath == "" {
		cfg.LockPath = lock.DefaultPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	if strings.ContainsAny(cfg.Recipe, `/\`) {
		return nil, fmt.Errorf("invalid recipe name '%s': must not contain a path separator", cfg.Recipe)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}

	return &cfg, nil
}
