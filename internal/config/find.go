package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var configFilenames = []string{
	".textfind.yaml",
	".textfind.yml",
	".textfind.toml",
	".textfind.json",
}

// Find locates the config file to load. An explicit path wins and must
// exist. Otherwise the working directory is searched for .textfind.* and
// then ~/.textfind/config.*. An empty result means no file was found.
func Find(explicitPath, workDir, home string) (string, error) {
	if explicit := strings.TrimSpace(explicitPath); explicit != "" {
		info, err := os.Stat(explicit)
		if err != nil {
			return "", err
		}
		if info.IsDir() {
			return "", fmt.Errorf("config %q is a directory", explicit)
		}
		return explicit, nil
	}

	if workDir != "" {
		if path := firstFile(workDir, configFilenames); path != "" {
			return path, nil
		}
	}

	if home != "" {
		dir := filepath.Join(home, ".textfind")
		names := make([]string, len(configFilenames))
		for i, name := range configFilenames {
			names[i] = "config" + strings.TrimPrefix(name, ".textfind")
		}
		if path := firstFile(dir, names); path != "" {
			return path, nil
		}
	}

	return "", nil
}

func firstFile(dir string, names []string) string {
	for _, name := range names {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
