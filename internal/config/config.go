// Package config loads textfind settings from YAML, TOML or JSON files and
// TEXTFIND_* environment variables.
//
// Precedence, lowest first: Default(), the config file, the environment,
// and finally command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/textfind/internal/tracelog"
)

// DefaultHistoryPath is the default location of the run history database.
const DefaultHistoryPath = "~/.textfind/history.db"

// Config holds every setting textfind reads at startup
type Config struct {
	Search  SearchConfig
	Log     LogConfig
	History HistoryConfig
}

// SearchConfig tunes the multi-file finder
type SearchConfig struct {
	Workers int // 0 selects runtime.NumCPU()
}

// LogConfig controls the diagnostic logger
type LogConfig struct {
	Verbose     bool
	Archive     bool
	ArchivePath string // "" selects "<executable>.log"
	Level       string
	Timestamps  bool
}

// HistoryConfig controls the run history store
type HistoryConfig struct {
	Enabled bool
	Path    string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level: "info",
		},
		History: HistoryConfig{
			Path: DefaultHistoryPath,
		},
	}
}

var (
	ErrInvalidWorkers  = errors.New("search.workers must be >= 0")
	ErrInvalidLogLevel = errors.New("log.level must be one of trace, debug, info, warn, error")
	ErrEmptyHistory    = errors.New("history.path is required when history is enabled")
)

// Validate checks the configuration for values no component accepts.
func (c Config) Validate() error {
	if c.Search.Workers < 0 {
		return ErrInvalidWorkers
	}
	if c.Log.Level != "" && !tracelog.ValidLevel(c.Log.Level) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	if c.History.Enabled && c.History.Path == "" {
		return ErrEmptyHistory
	}
	return nil
}

// TraceOptions converts the log section for tracelog.Configure.
func (c Config) TraceOptions() tracelog.Options {
	return tracelog.Options{
		Verbose:     c.Log.Verbose,
		Archive:     c.Log.Archive,
		ArchivePath: c.Log.ArchivePath,
		Level:       c.Log.Level,
		Timestamps:  c.Log.Timestamps,
	}
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && (len(path) < 2 || path[:2] != "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
