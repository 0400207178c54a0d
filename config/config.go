/*
Package config loads server configuration from the environment.

PURPOSE:
  Reads RECURRENCE_* variables, optionally from .env files, into Config.
  Command-line flags in cmd/server override what is loaded here.

VARIABLES:
  RECURRENCE_PORT              HTTP port (8080)
  RECURRENCE_DB                SQLite database path (recurrence.db)
  RECURRENCE_LOG_LEVEL         debug, info, warn, error (info)
  RECURRENCE_ALLOWED_ORIGINS   Comma separated CORS origins
  RECURRENCE_SHUTDOWN_TIMEOUT  Graceful shutdown deadline (30s)

USAGE:
  cfg, err := config.Load()           // .env if present, then environment
  cfg, err := config.Load("prod.env") // named files must exist
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig is returned when a variable holds an unusable value.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the server configuration.
type Config struct {
	Port            string        `env:"RECURRENCE_PORT" envDefault:"8080"`
	DBPath          string        `env:"RECURRENCE_DB" envDefault:"recurrence.db"`
	LogLevel        string        `env:"RECURRENCE_LOG_LEVEL" envDefault:"info"`
	AllowedOrigins  []string      `env:"RECURRENCE_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:8080"`
	ShutdownTimeout time.Duration `env:"RECURRENCE_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load reads envFiles (or .env when none are given, ignoring a missing file)
// and parses the environment into a Config. Variables already set in the
// environment win over file values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		// .env is optional
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("failed to load env files: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidConfig)
	}
	return cfg, nil
}

// Level returns LogLevel as a log.Level.
func (c Config) Level() (log.Level, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return level, nil
}
