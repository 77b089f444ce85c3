package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads path on top of Default(). An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var raw map[string]any
	switch ext {
	case ".yaml", ".yml":
		if decodeErr := yaml.Unmarshal(data, &raw); decodeErr != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, decodeErr)
		}
	case ".toml":
		if decodeErr := toml.Unmarshal(data, &raw); decodeErr != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, decodeErr)
		}
	case ".json":
		if decodeErr := json.Unmarshal(data, &raw); decodeErr != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, decodeErr)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if raw == nil {
		return cfg, nil
	}
	if err := decodeConfigMap(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfigMap(raw map[string]any, cfg *Config) error {
	for key, value := range raw {
		sub, err := toStringKeyMap(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		switch normalizeKey(key) {
		case "search":
			err = assignSearch(sub, &cfg.Search)
		case "log", "logging":
			err = assignLog(sub, &cfg.Log)
		case "history":
			err = assignHistory(sub, &cfg.History)
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", normalizeKey(key), err)
		}
	}
	return nil
}

func assignSearch(section map[string]any, dst *SearchConfig) error {
	for key, value := range section {
		switch normalizeKey(key) {
		case "workers", "jobs":
			n, err := expectInt(value, key)
			if err != nil {
				return err
			}
			dst.Workers = n
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
	}
	return nil
}

func assignLog(section map[string]any, dst *LogConfig) error {
	for key, value := range section {
		var err error
		switch normalizeKey(key) {
		case "verbose":
			dst.Verbose, err = expectBool(value, key)
		case "archive":
			dst.Archive, err = expectBool(value, key)
		case "archive_path":
			dst.ArchivePath, err = expectString(value, key)
		case "level":
			dst.Level, err = expectString(value, key)
		case "timestamps", "time":
			dst.Timestamps, err = expectBool(value, key)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func assignHistory(section map[string]any, dst *HistoryConfig) error {
	for key, value := range section {
		var err error
		switch normalizeKey(key) {
		case "enabled":
			dst.Enabled, err = expectBool(value, key)
		case "path":
			dst.Path, err = expectString(value, key)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func toStringKeyMap(value any) (map[string]any, error) {
	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			s, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key %v", key)
			}
			out[s] = val
		}
		return out, nil
	case nil:
		return map[string]any{}, nil
	default:
		return nil, fmt.Errorf("expected table, got %T", value)
	}
}

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.ReplaceAll(key, "-", "_")
}

func expectString(value any, field string) (string, error) {
	if value == nil {
		return "", fmt.Errorf("%s cannot be null", field)
	}
	if s, ok := value.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("expected string for %s, got %T", field, value)
}

func expectBool(value any, field string) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return parseBool(v, field)
	case nil:
		return false, fmt.Errorf("%s cannot be null", field)
	default:
		return false, fmt.Errorf("expected boolean for %s, got %T", field, value)
	}
}

func expectInt(value any, field string) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected integer for %s, got %v", field, v)
		}
		return int(v), nil
	case nil:
		return 0, fmt.Errorf("%s cannot be null", field)
	default:
		return 0, fmt.Errorf("expected integer for %s, got %T", field, value)
	}
}
