// Package config defines the simplelock configuration surface and loads it
// through viper from config file, environment, and flags.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete simplelock configuration
type Config struct {
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Lockable LockableConfig `mapstructure:"lockable"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// LedgerConfig locates the shared ledger repository
type LedgerConfig struct {
	// Repo is the path to the local clone of the shared ledger repository.
	// Required for every command.
	Repo string `mapstructure:"repo"`
	// File is the ledger file name inside the repository (default: "locked")
	File string `mapstructure:"file"`
	// Remote is the remote name the ledger syncs against (default: "origin")
	Remote string `mapstructure:"remote"`
}

// LockableConfig controls the advisory lockable-pattern hints
type LockableConfig struct {
	// File is the pattern file name at the work-repository root
	// (default: ".gitlocks"), one gitignore-style pattern per line
	File string `mapstructure:"file"`
}

// LoggingConfig controls diagnostic logging
type LoggingConfig struct {
	// Level is the minimum level logged: debug, info, warn, error
	Level string `mapstructure:"level"`
	// File is the log file path; empty logs to stderr
	File string `mapstructure:"file"`
}

// Default returns a Config populated with default values
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			File:   "locked",
			Remote: "origin",
		},
		Lockable: LockableConfig{
			File: ".gitlocks",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers all default values with viper
func SetDefaults() {
	defaults := Default()

	// Ledger defaults
	viper.SetDefault("ledger.repo", defaults.Ledger.Repo)
	viper.SetDefault("ledger.file", defaults.Ledger.File)
	viper.SetDefault("ledger.remote", defaults.Ledger.Remote)

	// Lockable defaults
	viper.SetDefault("lockable.file", defaults.Lockable.File)

	// Logging defaults
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
}

// Load unmarshals and validates the effective configuration
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the directory holding the config file
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "simplelock")
	}
	// Fall back to ~/.config/simplelock
	home, err := os.UserHomeDir()
	if err != nil {
		return ".simplelock"
	}
	return filepath.Join(home, ".config", "simplelock")
}

// ConfigFile returns the full path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
