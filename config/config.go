// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads imagedb settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDataDir          = "data/images"
	DefaultMetricsNamespace = "imagedb"
	DefaultLogLevel         = "info"

	// DefaultUser is seeded when no users are configured.
	DefaultUser = "test-user"
	// DefaultUserHash is the hashed password of DefaultUser.
	DefaultUserHash = "5f4dcc3b5aa765d61d8327deb882cf99"
)

// Config holds imagedb settings. Environment variables take precedence over
// the YAML file, which takes precedence over defaults.
type Config struct {
	DataDir          string `yaml:"data_dir" env:"IMAGEDB_DATA_DIR"`
	MetricsNamespace string `yaml:"metrics_namespace" env:"IMAGEDB_METRICS_NAMESPACE"`
	LogLevel         string `yaml:"log_level" env:"IMAGEDB_LOG_LEVEL"`

	// Users maps user names to hashed passwords.
	Users map[string]string `yaml:"users"`
}

// Load reads the YAML file at path, if path is not empty, then applies
// environment overrides and defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.MetricsNamespace == "" {
		c.MetricsNamespace = DefaultMetricsNamespace
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if len(c.Users) == 0 {
		c.Users = map[string]string{DefaultUser: DefaultUserHash}
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	for name := range c.Users {
		if name == "" {
			return errors.New("users: empty user name")
		}
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
