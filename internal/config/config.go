// Package config loads the taskdeck config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the client settings. Everything has a usable default so a
// missing config file is fine.
type Config struct {
	Endpoint string `yaml:"endpoint"`  // API base URL
	PageSize int    `yaml:"page_size"` // todos per page
	Theme    string `yaml:"theme"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Endpoint: "http://localhost:3000",
		PageSize: 8,
		Theme:    "classic",
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "taskdeck", "config.yaml"), nil
}

// Load reads the config at path, filling gaps with defaults. A missing
// file yields the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = Default().Endpoint
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = Default().PageSize
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
