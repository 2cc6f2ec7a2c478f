// Package config loads simulator settings from the environment.
package config

import (
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rise-gen/internal/errors"
)

// Config holds the settings shared by every rise command. Command line
// flags override these values.
type Config struct {
	Trials    int    `env:"RISE_TRIALS" envDefault:"1000"`
	Workers   int    `env:"RISE_WORKERS" envDefault:"0"`
	Level     int    `env:"RISE_LEVEL" envDefault:"1"`
	MaxRounds int    `env:"RISE_MAX_ROUNDS" envDefault:"100"`
	Exploding bool   `env:"RISE_EXPLODING_ATTACKS" envDefault:"false"`
	RedisAddr string `env:"RISE_REDIS_ADDR"`
	LogLevel  string `env:"RISE_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Trials <= 0 {
		vb.InvalidField("Trials", "must be positive")
	}
	if c.Workers < 0 {
		vb.InvalidField("Workers", "must not be negative")
	}
	errors.ValidateRange("Level", c.Level, 1, 20, vb)
	if c.MaxRounds <= 0 {
		vb.InvalidField("MaxRounds", "must be positive")
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		vb.Fieldf("LogLevel", "unknown log level %q", c.LogLevel)
	}

	return vb.Build()
}

// SlogLevel returns the configured log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
