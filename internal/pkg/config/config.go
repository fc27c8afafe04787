// Package config loads the optional csvforge YAML configuration file:
// default plan, per-run issue cap, and custom-format search paths.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config defines the structure of the user-provided YAML configuration file.
type Config struct {
	Plan   string       `yaml:"plan"`
	Engine EngineConfig `yaml:"engine"`
}

// EngineConfig holds tunables passed through to the engine/issue layer.
type EngineConfig struct {
	MaxIssuesPerFormat int      `yaml:"max_issues_per_format,omitempty"`
	CustomFormatPaths  []string `yaml:"custom_format_paths,omitempty"`
}

// Load reads a YAML configuration file from the given path and returns a Config struct.
func Load(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml from %s: %w", filePath, err)
	}

	return &cfg, nil
}
