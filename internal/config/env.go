package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfig      = "TEXTFIND_CONFIG"
	EnvWorkers     = "TEXTFIND_WORKERS"
	EnvVerbose     = "TEXTFIND_VERBOSE"
	EnvArchive     = "TEXTFIND_ARCHIVE"
	EnvArchivePath = "TEXTFIND_ARCHIVE_PATH"
	EnvLogLevel    = "TEXTFIND_LOG_LEVEL"
	EnvTimestamps  = "TEXTFIND_TIMESTAMPS"
	EnvHistory     = "TEXTFIND_HISTORY"
	EnvHistoryPath = "TEXTFIND_HISTORY_PATH"
)

// ApplyEnv overrides cfg with any TEXTFIND_* variables set in getenv.
// Every malformed variable is reported; valid ones are still applied.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	var errs []error

	setString := func(target *string, key string) {
		if raw := strings.TrimSpace(getenv(key)); raw != "" {
			*target = raw
		}
	}
	setBool := func(target *bool, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		v, err := parseBool(raw, key)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*target = v
	}
	setInt := func(target *int, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			errs = append(errs, fmt.Errorf("%s: expected a non-negative integer, got %q", key, raw))
			return
		}
		*target = v
	}

	setInt(&cfg.Search.Workers, EnvWorkers)
	setBool(&cfg.Log.Verbose, EnvVerbose)
	setBool(&cfg.Log.Archive, EnvArchive)
	setString(&cfg.Log.ArchivePath, EnvArchivePath)
	setString(&cfg.Log.Level, EnvLogLevel)
	setBool(&cfg.Log.Timestamps, EnvTimestamps)
	setBool(&cfg.History.Enabled, EnvHistory)
	setString(&cfg.History.Path, EnvHistoryPath)

	return errors.Join(errs...)
}

// parseBool accepts the usual spellings of on and off.
func parseBool(raw, field string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "t", "yes", "y", "on", "1":
		return true, nil
	case "false", "f", "no", "n", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%s: expected a boolean, got %q", field, raw)
	}
}
