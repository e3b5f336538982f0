// Package fableforge provides a high-level façade over the game-master core,
// the tool registry, and the world, persona, and combat services. Most
// applications interact with this package by:
//  1. Creating a Game via New() (optionally overriding default in-memory services)
//  2. Registering extra tools next to the built-in set
//  3. Starting the session with Open() and feeding player input through Play()
//
// The façade delegates orchestration to gm.GameMaster while keeping setup
// ergonomics concise. All defaults are safe for local development and testing;
// durable deployments typically supply a SQLite world store and a structured
// logger.
package fableforge

import (
	"context"

	"github.com/fableforge/fableforge/combat"
	"github.com/fableforge/fableforge/core"
	"github.com/fableforge/fableforge/dice"
	"github.com/fableforge/fableforge/gametools"
	"github.com/fableforge/fableforge/gm"
	"github.com/fableforge/fableforge/logging"
	"github.com/fableforge/fableforge/model"
	"github.com/fableforge/fableforge/persona"
	"github.com/fableforge/fableforge/tool"
	"github.com/fableforge/fableforge/world"
)

// Options configures the Game instance.
type Options struct {
	// Scene describes the opening situation. The zero value leaves the
	// location unset; the context builder then reports it as unknown until a
	// scene with a resolvable location id is supplied.
	Scene core.Scene

	// Party lists the player character names shown to the model.
	Party []string

	// World backs all location and entity lookups. Defaults to an empty
	// in-memory store.
	World core.WorldStore

	// Persona shapes the game master's voice. Defaults to persona.Default().
	Persona core.Persona

	// Roller produces dice results for the built-in roll_dice tool. Defaults
	// to an unseeded roller.
	Roller *dice.Roller

	// IterationBudget caps model calls per player input.
	IterationBudget int

	// Sink receives best-effort lifecycle notifications.
	Sink core.EventSink

	// Logger (defaults to slog at info level if nil).
	Logger logging.Logger
}

// Game is the high-level façade aggregating the game master and its services.
type Game struct {
	opts      Options
	gm        *gm.GameMaster
	registry  *tool.Registry
	encounter *combat.Encounter
	closer    interface{ Close() error }
}

// New creates a Game around the given model with optional overrides. Any
// unset service is initialized with an in-memory implementation, and the
// built-in tool set is registered automatically.
func New(m model.Model, optFns ...func(o *Options)) *Game {
	opts := Options{
		World:           world.NewMemoryStore(),
		Persona:         persona.Default(),
		Roller:          dice.NewRoller(),
		IterationBudget: gm.DefaultIterationBudget,
		Sink:            core.NoOpSink{},
		Logger:          logging.NewDefaultSlogLogger(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	encounter := combat.NewEncounter()

	registry := tool.NewRegistry(func(o *tool.RegistryOptions) {
		o.Logger = opts.Logger
	})
	registry.RegisterAll(gametools.Defaults(opts.Roller, opts.World, encounter)...)

	session := core.NewSession("", opts.Persona.ID(), opts.Scene)
	session.Party = append([]string(nil), opts.Party...)

	master := gm.New(m, registry, session, opts.World, opts.Persona, encounter,
		func(o *gm.Options) {
			o.IterationBudget = opts.IterationBudget
			o.Sink = opts.Sink
			o.Logger = opts.Logger
		})

	return &Game{
		opts:      opts,
		gm:        master,
		registry:  registry,
		encounter: encounter,
	}
}

// RegisterTool adds a custom tool next to the built-in set. Registering a
// name twice keeps the newest implementation.
func (g *Game) RegisterTool(t tool.Tool) { g.registry.Register(t) }

// Open starts the session and returns the opening scene narration.
func (g *Game) Open(ctx context.Context) (string, error) {
	return g.gm.InitialDescription(ctx)
}

// Play feeds one player input through the game master and returns the
// narration.
func (g *Game) Play(ctx context.Context, input string) (string, error) {
	return g.gm.ProcessInput(ctx, input)
}

// PlayStream feeds one player input through the game master, delivering the
// narration incrementally through chunk.
func (g *Game) PlayStream(ctx context.Context, input string, chunk func(fragment string)) (string, error) {
	return g.gm.StreamInput(ctx, input, chunk)
}

// Snapshot captures the current session state for later restoration.
func (g *Game) Snapshot() core.Snapshot { return g.gm.Snapshot() }

// Restore replaces the session state with a previously captured snapshot.
func (g *Game) Restore(snap core.Snapshot) { g.gm.RestoreSnapshot(snap) }

// Session exposes the live session.
func (g *Game) Session() *core.Session { return g.gm.Session() }

// Encounter exposes the combat tracker shared with the built-in combat tools.
func (g *Game) Encounter() *combat.Encounter { return g.encounter }

// Close releases any durable resources behind the game, such as a
// SQLite-backed world store. Games over in-memory stores close to a no-op.
func (g *Game) Close() error {
	if g.closer != nil {
		return g.closer.Close()
	}
	return nil
}
