// Package config loads the cside tool configuration from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the complete tool configuration.
type Config struct {
	Workspace WorkspaceConfig `toml:"workspace"`
	Index     IndexConfig     `toml:"index"`
	Log       LogConfig       `toml:"log"`
}

// WorkspaceConfig controls which files are treated as C/SIDE exports.
type WorkspaceConfig struct {
	Root       string   `toml:"root"`
	Extensions []string `toml:"extensions"`
}

// IndexConfig controls the persistent object index.
type IndexConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file and fills in defaults for
// anything the file leaves unset.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault loads the given path when set, otherwise probes the default
// locations and falls back to defaults when no file exists anywhere.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	defaultPaths := []string{
		"./cside.toml",
		filepath.Join(os.Getenv("HOME"), ".config/cside/config.toml"),
	}
	for _, p := range defaultPaths {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

func (c *Config) applyDefaults() {
	if c.Workspace.Root == "" {
		c.Workspace.Root = "."
	}
	if len(c.Workspace.Extensions) == 0 {
		c.Workspace.Extensions = []string{".txt", ".cal"}
	}
	if c.Index.Path == "" {
		c.Index.Path = ".cside/index.db"
	}
}
