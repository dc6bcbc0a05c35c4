// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package config loads the satukitan.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "satukitan.yaml"

// Defaults.
const (
	DefaultPrompt       = "satukitan> "
	DefaultLogLevel     = "warn"
	DefaultHistoryLimit = 500
)

// Config holds runtime settings.
type Config struct {
	Path     string  `yaml:"-"` // Absolute path of the loaded file, empty for defaults
	Prompt   string  `yaml:"prompt"`
	LogLevel string  `yaml:"log_level"`
	Prelude  string  `yaml:"prelude"`
	History  History `yaml:"history"`
}

// History configures the session history store.
type History struct {
	DB    string `yaml:"db"`    // SQLite path, empty for in-memory
	Limit int    `yaml:"limit"` // Entries loaded into the line editor
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Prompt:   DefaultPrompt,
		LogLevel: DefaultLogLevel,
		History:  History{Limit: DefaultHistoryLimit},
	}
}

// Load reads path, falling back to defaults when the file does not exist.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile reads path. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	cfg.Path = abs
	cfg.resolvePaths(filepath.Dir(abs))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", abs, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() (logrus.Level, error) {
	return logrus.ParseLevel(c.LogLevel)
}

// resolvePaths makes relative file settings relative to dir.
func (c *Config) resolvePaths(dir string) {
	c.Prelude = resolve(dir, c.Prelude)
	if c.History.DB != ":memory:" {
		c.History.DB = resolve(dir, c.History.DB)
	}
}

func resolve(dir, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
