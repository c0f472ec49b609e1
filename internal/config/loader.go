// Package config loads the command line tool's settings.
//
// Sources are applied in order, later ones winning: built-in defaults, an
// optional YAML file, .env files, then JWTKIT_ prefixed environment
// variables. Command line flags are applied by the caller on top.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cybergodev/jwtkit"
	"github.com/cybergodev/jwtkit/internal/history"
	"github.com/cybergodev/jwtkit/internal/logging"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "JWTKIT_"

// Config is the complete CLI configuration.
type Config struct {
	Log     logging.Config `yaml:"log" envPrefix:"LOG_"`
	Engine  EngineConfig   `yaml:"engine" envPrefix:"ENGINE_"`
	History history.Config `yaml:"history" envPrefix:"HISTORY_"`

	// MetricsFile, when set, receives the Prometheus text exposition of the
	// run's counters on exit.
	MetricsFile string `yaml:"metrics_file" env:"METRICS_FILE"`
}

// EngineConfig mirrors the serializable part of jwtkit.Config.
type EngineConfig struct {
	ValidateTimeClaims bool          `yaml:"validate_time_claims" env:"VALIDATE_TIME_CLAIMS"`
	Leeway             time.Duration `yaml:"leeway" env:"LEEWAY"`
	RejectWeakSecrets  bool          `yaml:"reject_weak_secrets" env:"REJECT_WEAK_SECRETS"`
}

// Default returns the built-in configuration. History is off unless enabled
// explicitly.
func Default() Config {
	return Config{
		Log: logging.DefaultConfig(),
		History: history.Config{
			Enabled:  false,
			MaxItems: history.DefaultMaxItems,
			Path:     DefaultHistoryPath(),
		},
	}
}

// DefaultHistoryPath is history.json under the user config directory, or
// empty (memory only) when that directory is unknown.
func DefaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "jwtkit", "history.json")
}

// Load builds the configuration. path names an optional YAML file; an empty
// path skips it. envFiles are loaded with godotenv when present; by default
// ".env" in the working directory is tried. Variables already set in the
// environment are never overwritten by a .env file.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Join(ErrReadFile, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Join(ErrParseFile, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, errors.Join(ErrParseEnv, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges that the sources cannot enforce themselves.
func (c Config) Validate() error {
	if c.Engine.Leeway < 0 || c.Engine.Leeway > jwtkit.MaxLeeway {
		return fmt.Errorf("%w: engine leeway must be between 0 and %s", ErrInvalid, jwtkit.MaxLeeway)
	}
	if c.History.MaxItems < 0 {
		return fmt.Errorf("%w: history max_items cannot be negative", ErrInvalid)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: unsupported log format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}
