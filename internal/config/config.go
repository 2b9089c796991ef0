package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
// Intervals are expressed in milliseconds in the file.
type Config struct {
	History  HistoryConfig  `toml:"history" yaml:"history"`
	Commit   CommitConfig   `toml:"commit" yaml:"commit"`
	Presence PresenceConfig `toml:"presence" yaml:"presence"`
	Plugin   PluginConfig   `toml:"plugin" yaml:"plugin"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// HistoryConfig bounds the undo/redo log.
type HistoryConfig struct {
	MaxEntries int `toml:"max_entries" yaml:"max_entries"`
}

// CommitConfig controls the debounced history commit.
type CommitConfig struct {
	QuietIntervalMS int `toml:"quiet_interval_ms" yaml:"quiet_interval_ms"`
}

// QuietInterval returns the commit quiet interval as a duration.
func (c CommitConfig) QuietInterval() time.Duration {
	return time.Duration(c.QuietIntervalMS) * time.Millisecond
}

// PresenceConfig controls the simulated collaborator feed.
type PresenceConfig struct {
	Collaborators int `toml:"collaborators" yaml:"collaborators"`
	IntervalMS    int `toml:"interval_ms" yaml:"interval_ms"`
}

// Interval returns the feed tick interval as a duration.
func (c PresenceConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// PluginConfig locates Lua transform scripts.
type PluginConfig struct {
	Dir string `toml:"dir" yaml:"dir"`
}

// LogConfig controls application logging.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History:  HistoryConfig{MaxEntries: 50},
		Commit:   CommitConfig{QuietIntervalMS: 1000},
		Presence: PresenceConfig{Collaborators: 3, IntervalMS: 2000},
		Log:      LogConfig{Level: "info"},
	}
}

// ParseError reports a malformed configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads a configuration file and merges it over the defaults.
// An empty path or missing file yields the defaults. The format is
// chosen by extension: .toml, or .yaml/.yml.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Default(), &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Default(), &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	default:
		return Default(), &ParseError{Path: path, Message: fmt.Sprintf("unsupported extension %q", ext)}
	}

	cfg.normalize()
	return cfg, nil
}

// normalize pins out-of-range values back to the defaults.
func (c *Config) normalize() {
	def := Default()
	if c.History.MaxEntries <= 0 {
		c.History.MaxEntries = def.History.MaxEntries
	}
	if c.Commit.QuietIntervalMS <= 0 {
		c.Commit.QuietIntervalMS = def.Commit.QuietIntervalMS
	}
	if c.Presence.Collaborators < 0 {
		c.Presence.Collaborators = 0
	}
	if c.Presence.IntervalMS <= 0 {
		c.Presence.IntervalMS = def.Presence.IntervalMS
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
