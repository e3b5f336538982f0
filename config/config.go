// Package config loads runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config carries everything a fableforge process reads from its environment.
// Provider API keys are picked up by the provider SDKs themselves and are not
// duplicated here.
type Config struct {
	// Provider selects the model backend: "openai", "anthropic", or
	// "scripted" for deterministic offline play.
	Provider string `env:"FABLEFORGE_PROVIDER" envDefault:"openai"`

	// ModelName overrides the provider's default model when set.
	ModelName string `env:"FABLEFORGE_MODEL"`

	// IterationBudget caps model calls per player input.
	IterationBudget int `env:"FABLEFORGE_ITERATION_BUDGET" envDefault:"8"`

	// WorldPath points at a YAML world definition. Empty means the built-in
	// demo world.
	WorldPath string `env:"FABLEFORGE_WORLD"`

	// PersonaPath points at a YAML persona file. Empty means the default
	// persona.
	PersonaPath string `env:"FABLEFORGE_PERSONA"`

	// DBPath enables the SQLite-backed world store when set. Empty keeps the
	// world in memory.
	DBPath string `env:"FABLEFORGE_DB"`

	// DiceSeed seeds the dice roller for reproducible sessions. Zero means
	// a random seed.
	DiceSeed int64 `env:"FABLEFORGE_DICE_SEED"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `env:"FABLEFORGE_LOG_LEVEL" envDefault:"info"`

	// LogJSON switches log output from text to JSON.
	LogJSON bool `env:"FABLEFORGE_LOG_JSON"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot produce a working game master.
func (c *Config) Validate() error {
	switch c.Provider {
	case "openai", "anthropic", "scripted":
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.IterationBudget < 1 {
		return fmt.Errorf("iteration budget must be at least 1, got %d", c.IterationBudget)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
