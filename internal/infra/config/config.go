// Package config loads the engine's TOML configuration. Settings live in
// $CONTAUDIT_HOME/config.toml (default ~/.contaudit/config.toml); a missing
// file means defaults, a malformed file is an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/contaudit/contaudit/internal/audit/catalog"
)

// Config is the root configuration document.
type Config struct {
	Database   DatabaseConfig     `toml:"database"`
	Server     ServerConfig       `toml:"server"`
	Engine     EngineConfig       `toml:"engine"`
	Thresholds catalog.Thresholds `toml:"thresholds"`
}

// DatabaseConfig locates the SQLite snapshot database.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	MetricsEnabled bool   `toml:"metrics_enabled"`
}

// EngineConfig configures run behavior.
type EngineConfig struct {
	FailFast       bool `toml:"fail_fast"`
	TimeoutSeconds int  `toml:"timeout_seconds"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			Path: filepath.Join(Home(), "contaudit.db"),
		},
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           8417,
			MetricsEnabled: true,
		},
		Engine: EngineConfig{
			FailFast:       true,
			TimeoutSeconds: 300,
		},
		Thresholds: catalog.DefaultThresholds(),
	}
}

// Home returns the contaudit home directory. CONTAUDIT_HOME wins; otherwise
// ~/.contaudit.
func Home() string {
	if home := os.Getenv("CONTAUDIT_HOME"); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".contaudit"
	}
	return filepath.Join(userHome, ".contaudit")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Home(), "config.toml")
}

// Load reads the config file at path, overlaying it on defaults. A missing
// file is not an error: you get DefaultConfig back.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating the directory when needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
