package fableforge

import (
	"fmt"
	"os"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/fableforge/fableforge/config"
	"github.com/fableforge/fableforge/core"
	"github.com/fableforge/fableforge/dice"
	"github.com/fableforge/fableforge/logging"
	"github.com/fableforge/fableforge/model"
	"github.com/fableforge/fableforge/model/anthropic"
	"github.com/fableforge/fableforge/model/openai"
	"github.com/fableforge/fableforge/persona"
	"github.com/fableforge/fableforge/world"
)

// ModelFromConfig selects the model backend named by the configuration.
// Provider API keys are read from the environment by the provider SDKs.
func ModelFromConfig(cfg *config.Config) (model.Model, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.ModelName != "" {
				o.Model = cfg.ModelName
			}
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.ModelName != "" {
				o.Model = anthropicsdk.Model(cfg.ModelName)
			}
		}), nil
	case "scripted":
		return model.NewScriptedModel(cfg.ModelName), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// LoggerFromConfig builds a structured logger honoring the configured level
// and output format.
func LoggerFromConfig(cfg *config.Config) *logging.GameLogger {
	level := logging.LogLevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = logging.LogLevelDebug
	case "warn":
		level = logging.LogLevelWarn
	case "error":
		level = logging.LogLevelError
	}
	format := "text"
	if cfg.LogJSON {
		format = "json"
	}
	return logging.NewLogger(&logging.Config{
		Level:  level,
		Format: format,
		Output: os.Stderr,
	})
}

// NewFromConfig assembles a Game entirely from environment configuration:
// model provider, world store (SQLite when a db path is set), world and
// persona definitions, dice seed, iteration budget, and logger. When a world
// definition is loaded, the opening scene starts at its start location.
// Call Close on the returned Game to release a SQLite-backed store.
//
// Option functions run after the configuration is applied, so callers can
// still override individual services.
func NewFromConfig(cfg *config.Config, optFns ...func(o *Options)) (*Game, error) {
	m, err := ModelFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	var store core.WorldStore
	var closer interface{ Close() error }
	if cfg.DBPath != "" {
		s, err := world.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open world db: %w", err)
		}
		store = s
		closer = s
	} else {
		store = world.NewMemoryStore()
	}

	scene := core.Scene{Kind: core.SceneExploration}
	if cfg.WorldPath != "" {
		def, err := world.LoadFile(cfg.WorldPath)
		if err != nil {
			closeQuietly(closer)
			return nil, err
		}
		if err := def.Seed(store); err != nil {
			closeQuietly(closer)
			return nil, err
		}
		scene.LocationID = def.StartLocation
	}

	var pers core.Persona = persona.Default()
	if cfg.PersonaPath != "" {
		f, err := os.Open(cfg.PersonaPath)
		if err != nil {
			closeQuietly(closer)
			return nil, fmt.Errorf("open persona file: %w", err)
		}
		pers, err = persona.FromYAML(f, map[string]any{})
		f.Close()
		if err != nil {
			closeQuietly(closer)
			return nil, err
		}
	}

	roller := dice.NewRoller()
	if cfg.DiceSeed != 0 {
		roller = dice.NewSeededRoller(cfg.DiceSeed)
	}

	opts := []func(o *Options){func(o *Options) {
		o.Scene = scene
		o.World = store
		o.Persona = pers
		o.Roller = roller
		o.IterationBudget = cfg.IterationBudget
		o.Logger = LoggerFromConfig(cfg)
	}}
	opts = append(opts, optFns...)

	g := New(m, opts...)
	g.closer = closer
	return g, nil
}

func closeQuietly(c interface{ Close() error }) {
	if c != nil {
		c.Close()
	}
}
