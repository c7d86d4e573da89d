// Package config provides centralized configuration for mapundo runtime values.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/logging"
)

// AppName is the directory name used under the XDG config home.
const AppName = "mapundo"

// Defaults.
const (
	DefaultUndoLevels = 64
	DefaultPrompt     = "mapundo> "
)

// Environment variables that override file values.
const (
	EnvUndoLevels = "MAPUNDO_UNDO_LEVELS"
	EnvDatabase   = "MAPUNDO_DATABASE"
	EnvPrompt     = "MAPUNDO_PROMPT"
	EnvLogLevel   = "MAPUNDO_LOG_LEVEL"
)

// RuntimeConfig holds all runtime configuration values.
type RuntimeConfig struct {
	// Undo configuration
	Undo UndoConfig `yaml:"undo"`

	// Storage configuration
	Storage StorageConfig `yaml:"storage"`

	// Shell configuration
	Shell ShellConfig `yaml:"shell"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`

	// levels is the live undo level, read by the undo engine on every push.
	levels atomic.Int64
}

// UndoConfig holds undo engine configuration.
type UndoConfig struct {
	// Levels is the maximum number of operations kept on each stack.
	// Default: 64
	Levels int `yaml:"levels"`
}

// StorageConfig holds storage-related configuration.
type StorageConfig struct {
	// Path is the database directory.
	// Default: $XDG_DATA_HOME/mapundo/db
	Path string `yaml:"path"`

	// InMemory keeps maps in memory only.
	InMemory bool `yaml:"in_memory"`
}

// ShellConfig holds interactive shell configuration.
type ShellConfig struct {
	// Prompt is printed before each line when stdin is a terminal.
	// Default: "mapundo> "
	Prompt string `yaml:"prompt"`

	// EchoEvents prints undo engine events as they happen.
	// Default: true
	EchoEvents bool `yaml:"echo_events"`
}

// LoggingConfig holds diagnostic logging configuration.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: "warn"
	Level string `yaml:"level"`

	// JSON switches the log format from text to JSON.
	JSON bool `yaml:"json"`

	// File appends logs to this path instead of stderr.
	File string `yaml:"file"`
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	c := &RuntimeConfig{}
	c.setDefaults()
	return c
}

func (c *RuntimeConfig) setDefaults() {
	c.Undo = UndoConfig{Levels: DefaultUndoLevels}
	c.Storage = StorageConfig{Path: filepath.Join(xdg.DataHome, AppName, "db")}
	c.Shell = ShellConfig{Prompt: DefaultPrompt, EchoEvents: true}
	c.Logging = LoggingConfig{Level: "warn"}
	c.levels.Store(DefaultUndoLevels)
}

// DefaultConfigPath returns the YAML config file location.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Global holds the global runtime configuration instance.
// It is initialized with defaults and can be overridden via environment variables.
var Global = initGlobal()

// initGlobal initializes the global config with defaults and environment overrides.
func initGlobal() *RuntimeConfig {
	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()
	return cfg
}

// Load builds a configuration from defaults, the YAML file at path (if it
// exists) and the environment, in that order.
func Load(path string) (*RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}
	cfg.loadFromEnv()
	return cfg, nil
}

// LoadFile merges the YAML file at path into c. A missing file is not an
// error. A non-positive undo level in the file is ignored with a warning.
func (c *RuntimeConfig) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewSystemErrorWithOp("load config", "cannot read config file", err)
	}

	prev := c.Undo.Levels
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.NewUserErrorWithField("path", path, "invalid config file", err.Error())
	}

	if c.Undo.Levels <= 0 {
		logging.Warn("ignoring invalid undo levels",
			logging.KeyPath, path,
			logging.KeyLevels, c.Undo.Levels,
			logging.KeyError, errors.ErrInvalidUndoLevels)
		c.Undo.Levels = prev
	}
	c.levels.Store(int64(c.Undo.Levels))
	return nil
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *RuntimeConfig) loadFromEnv() {
	if v := os.Getenv(EnvUndoLevels); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Undo.Levels = n
			c.levels.Store(int64(n))
		} else {
			logging.Warn("ignoring invalid undo levels",
				"env", EnvUndoLevels,
				logging.KeyError, errors.ErrInvalidUndoLevels)
		}
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv(EnvPrompt); v != "" {
		c.Shell.Prompt = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// LoggerConfig converts the logging section for logging.Init. Output is
// left nil; the caller opens File if it is set.
func (c *RuntimeConfig) LoggerConfig() (logging.Config, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return logging.Config{}, err
	}
	return logging.Config{
		Level:     level,
		JSON:      c.Logging.JSON,
		AddSource: level == slog.LevelDebug,
	}, nil
}

// ReloadFromEnv reloads configuration from environment variables.
// This is useful for testing or when environment variables change.
func (c *RuntimeConfig) ReloadFromEnv() {
	c.loadFromEnv()
}

// Reset resets the configuration to defaults.
// This is primarily useful for testing.
func (c *RuntimeConfig) Reset() {
	c.setDefaults()
}

// UndoLevels returns the live undo level. Safe for concurrent use.
func (c *RuntimeConfig) UndoLevels() int {
	return int(c.levels.Load())
}

// SetUndoLevels changes the live undo level. Safe for concurrent use.
func (c *RuntimeConfig) SetUndoLevels(n int) error {
	if n <= 0 {
		return errors.UserErrorFrom(errors.ErrInvalidUndoLevels, "levels", strconv.Itoa(n))
	}
	c.levels.Store(int64(n))
	return nil
}

// Encode renders c as YAML with the live undo level.
func (c *RuntimeConfig) Encode() ([]byte, error) {
	out := struct {
		Undo    UndoConfig    `yaml:"undo"`
		Storage StorageConfig `yaml:"storage"`
		Shell   ShellConfig   `yaml:"shell"`
		Logging LoggingConfig `yaml:"logging"`
	}{
		Undo:    UndoConfig{Levels: c.UndoLevels()},
		Storage: c.Storage,
		Shell:   c.Shell,
		Logging: c.Logging,
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("encode config", "cannot encode config", err)
	}
	return data, nil
}

// WriteFile writes c to path, creating parent directories.
func (c *RuntimeConfig) WriteFile(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewSystemErrorWithOp("write config", "cannot create config directory", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewSystemErrorWithOp("write config", "cannot write config file", err)
	}
	return nil
}
