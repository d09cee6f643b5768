// Package config loads the bot's YAML configuration. The configuration is
// an explicit value constructed once at process start and passed into the
// components that need it; nothing reads ambient global state.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the process configuration.
type Config struct {
	Name           string `yaml:"name"`
	LogLevel       string `yaml:"log_level"`
	Language       string `yaml:"language"`
	Username       string `yaml:"username"`
	UserToken      string `yaml:"user_token"`
	DatabasePath   string `yaml:"database_path"`
	LogFilePath    string `yaml:"log_file_path"`
	ConnectTimeout int    `yaml:"connect_timeout_seconds"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Name:           "RoRBot",
		LogLevel:       "info",
		Language:       "en-US",
		Username:       "RoRBot",
		DatabasePath:   "rorserverbot.db",
		LogFilePath:    "",
		ConnectTimeout: 10,
	}
}

// Load reads a YAML config file on top of the defaults. Unknown keys are
// rejected so typos fail loudly instead of silently falling back.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if _, err := cfg.SlogLevel(); err != nil {
		return cfg, err
	}
	if cfg.ConnectTimeout <= 0 {
		return cfg, fmt.Errorf("config: connect_timeout_seconds must be positive, got %d", cfg.ConnectTimeout)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
}

// DialTimeout returns the connect timeout as a duration.
func (c Config) DialTimeout() time.Duration {
	return time.Duration(c.ConnectTimeout) * time.Second
}
