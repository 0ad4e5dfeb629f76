// Package config loads engine configuration and watches the script
// grammar directory for changes.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultMaxFileSize is the largest file the engine will highlight.
const DefaultMaxFileSize = 10 * 1024 * 1024

// Config holds engine configuration.
type Config struct {
	// LogLevel is the minimum log level: debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	// ScriptDir is the directory holding script grammars and their
	// manifest. Empty disables script grammars.
	ScriptDir string `toml:"script_dir"`

	// ThemePath points at a theme JSON file for the viewer. Empty uses
	// the built-in theme.
	ThemePath string `toml:"theme_path"`

	// MaxFileSize is the largest file in bytes the engine highlights;
	// larger files open as plain text.
	MaxFileSize int64 `toml:"max_file_size"`

	// Languages toggles individual languages. Absent ids are enabled.
	Languages map[string]bool `toml:"languages"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		LogLevel:    "info",
		MaxFileSize: DefaultMaxFileSize,
		Languages:   make(map[string]bool),
	}
}

// Load reads a TOML configuration file over the defaults. A missing
// file returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must not be negative, got %d", c.MaxFileSize)
	}
	if c.ScriptDir != "" {
		info, err := os.Stat(c.ScriptDir)
		if err != nil {
			return fmt.Errorf("script_dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("script_dir %s is not a directory", c.ScriptDir)
		}
	}
	return nil
}

// LanguageEnabled reports whether a language id is enabled. Languages
// absent from the toggle table default to enabled.
func (c *Config) LanguageEnabled(id string) bool {
	enabled, ok := c.Languages[id]
	if !ok {
		return true
	}
	return enabled
}
