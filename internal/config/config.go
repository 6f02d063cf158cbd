package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds engine settings. It is usually read from a quill.yaml file.
type Config struct {
	// MaxCallDepth is the number of nested script calls allowed before a
	// System.StackOverflowException is raised.
	MaxCallDepth int `yaml:"max_call_depth"`
	// MaxArrayLength is the largest size new T[n] accepts.
	MaxArrayLength int64 `yaml:"max_array_length"`
	// Interactive makes the global script print the value of its last
	// statement.
	Interactive bool `yaml:"interactive"`
	// ProcessDirectives enables /* $PRAGMA$ */ extraction.
	ProcessDirectives bool `yaml:"process_directives"`
	// ModulePaths are searched, in order, for included scripts that are not
	// found relative to the including script.
	ModulePaths []string `yaml:"module_paths"`
	// HistoryFile is the bbolt database holding REPL history. Empty disables
	// persistent history.
	HistoryFile string `yaml:"history_file"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		MaxCallDepth:      DefaultMaxCallDepth,
		MaxArrayLength:    DefaultMaxArrayLength,
		ProcessDirectives: true,
		LogLevel:          "warn",
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxCallDepth <= 0 {
		return fmt.Errorf("max_call_depth must be positive, got %d", c.MaxCallDepth)
	}
	if c.MaxArrayLength <= 0 {
		return fmt.Errorf("max_array_length must be positive, got %d", c.MaxArrayLength)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log_level %q", c.LogLevel)
}
