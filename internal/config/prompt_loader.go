package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultConfigDir is the subdirectory within the user's home directory.
const defaultConfigDir = ".config/selectsense"

// ResolvePath resolves a configured file path. Absolute paths and paths that
// exist relative to the working directory are used directly; anything else is
// treated as a filename within ~/.config/selectsense/.
func ResolvePath(configuredPath string) (string, error) {
	if configuredPath == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(configuredPath) {
		return configuredPath, nil
	}
	if _, err := os.Stat(configuredPath); err == nil {
		return configuredPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, defaultConfigDir, configuredPath), nil
}

// LoadFileContent reads a file resolved with ResolvePath.
func LoadFileContent(configuredPath string) ([]byte, error) {
	finalPath, err := ResolvePath(configuredPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(finalPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found at '%s'. Please create it or specify an absolute path in config.yaml: %w", finalPath, err)
		}
		return nil, fmt.Errorf("failed to read file '%s': %w", finalPath, err)
	}
	return data, nil
}
