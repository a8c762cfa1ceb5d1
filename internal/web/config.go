package web

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DefaultConfigPath places the config next to the binary, or in the home
// directory when the executable path is unknown.
func DefaultConfigPath() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Join(filepath.Dir(exe), "spectra-config.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".spectra-config.json")
}

// SaveConfig writes config as indented JSON.
func SaveConfig(path string, config SavedConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadConfig reads a file written by SaveConfig.
func LoadConfig(path string) (*SavedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var config SavedConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}
