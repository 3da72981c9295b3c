// Package config handles configuration loading and validation
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/barrenmains/embed-report/pkg/errors"
)

// Default config file names to search for
var defaultConfigFiles = []string{
	".embed-report.yaml",
	".embed-report.yml",
	"embed-report.yaml",
	"embed-report.yml",
}

// Load loads configuration from a specific file path
func Load(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to read config file: %s", path), err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to parse config file: %s", path), err)
	}

	// Apply defaults before validating so partial configs stay usable
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault searches for and loads configuration from default locations
// Search order:
// 1. Current directory
// 2. Parent directories (up to root)
// 3. User config directory ($XDG_CONFIG_HOME/embed-report/config.yaml)
func LoadDefault() (*Config, error) {
	if cfg, err := findInParents("."); err == nil {
		return cfg, nil
	}

	userConfigPath := filepath.Join(xdg.ConfigHome, "embed-report", "config.yaml")
	if _, err := os.Stat(userConfigPath); err == nil {
		return Load(userConfigPath)
	}

	return nil, errors.ConfigError("no config file found", nil)
}

// LoadFromEnv loads config from the path named by EMBED_REPORT_CONFIG,
// falling back to the default search.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv("EMBED_REPORT_CONFIG"); path != "" {
		return Load(path)
	}
	return LoadDefault()
}

// findInParents searches for config file in current directory and parent directories
func findInParents(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		for _, filename := range defaultConfigFiles {
			configPath := filepath.Join(dir, filename)
			if _, err := os.Stat(configPath); err == nil {
				return Load(configPath)
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			// Reached root
			break
		}
		dir = parentDir
	}

	return nil, errors.ConfigError("no config file found", nil)
}

// applyDefaults sets default values for optional fields
func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(xdg.DataHome, "embed-report")
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.BuildLimit == 0 {
		cfg.Server.BuildLimit = 25
	}
	if cfg.Global.LogLevel == "" {
		cfg.Global.LogLevel = "info"
	}

	// Target defaults
	for i := range cfg.Targets {
		if cfg.Targets[i].Height == 0 {
			cfg.Targets[i].Height = 400
		}
		if cfg.Targets[i].Association == "" {
			cfg.Targets[i].Association = "both"
		}
	}
}

// applyEnvOverrides applies EMBED_REPORT_* environment variables on top
// of file values.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("EMBED_REPORT_DATA_DIR"); val != "" {
		cfg.DataDir = val
	}
	if val := os.Getenv("EMBED_REPORT_LISTEN"); val != "" {
		cfg.Server.Listen = val
	}
	if val := os.Getenv("EMBED_REPORT_LOG_LEVEL"); val != "" {
		cfg.Global.LogLevel = val
	}
	if val := os.Getenv("EMBED_REPORT_PROJECT"); val != "" {
		cfg.Project = val
	}
}
