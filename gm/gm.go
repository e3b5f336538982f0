package gm

import (
	"context"
	"strings"

	"github.com/fableforge/fableforge/core"
	"github.com/fableforge/fableforge/logging"
	"github.com/fableforge/fableforge/model"
	"github.com/fableforge/fableforge/tool"
)

// OpeningPrompt is the synthetic system turn recorded before the very first
// model call of a session.
const OpeningPrompt = "The session begins. Describe the opening scene to the players."

// Options configures a GameMaster.
type Options struct {
	// IterationBudget caps model calls per player input. Values below 1 fall
	// back to DefaultIterationBudget.
	IterationBudget int

	// Sink receives best-effort lifecycle notifications. Defaults to a no-op.
	Sink core.EventSink

	// Logger receives structured diagnostics. Defaults to slog at info level.
	Logger logging.Logger
}

// GameMaster narrates a single tabletop session: it accepts player input,
// drives the model/tool loop, and records both sides of the exchange in the
// session history. A GameMaster is not safe for concurrent use; callers
// serialize their turns.
type GameMaster struct {
	model    model.Model
	registry *tool.Registry
	session  *core.Session
	world    core.WorldStore
	persona  core.Persona
	combat   core.CombatTracker

	budget int
	sink   *core.SinkNotifier
	logger logging.Logger
}

// New assembles a GameMaster from its collaborators.
func New(
	m model.Model,
	registry *tool.Registry,
	session *core.Session,
	world core.WorldStore,
	persona core.Persona,
	tracker core.CombatTracker,
	optFns ...func(o *Options),
) *GameMaster {
	opts := Options{
		IterationBudget: DefaultIterationBudget,
		Sink:            core.NoOpSink{},
		Logger:          logging.NewDefaultSlogLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.IterationBudget < 1 {
		opts.IterationBudget = DefaultIterationBudget
	}
	if opts.Sink == nil {
		opts.Sink = core.NoOpSink{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewDefaultSlogLogger()
	}

	return &GameMaster{
		model:    m,
		registry: registry,
		session:  session,
		world:    world,
		persona:  persona,
		combat:   tracker,
		budget:   opts.IterationBudget,
		sink:     core.NewSinkNotifier(opts.Sink, opts.Logger),
		logger:   opts.Logger,
	}
}

// Session exposes the live session for inspection and persistence.
func (g *GameMaster) Session() *core.Session { return g.session }

// ProcessInput records the player's words, runs the orchestration loop, and
// records the game master's narration. Both turns stay in the history even
// when the model call fails partway, so a retry sees the same conversation.
func (g *GameMaster) ProcessInput(ctx context.Context, input string) (string, error) {
	return g.processTurn(ctx, core.NewTurn(core.RolePlayer, input))
}

// InitialDescription opens the session: it records a synthetic system turn
// asking for the opening scene and returns the model's narration.
func (g *GameMaster) InitialDescription(ctx context.Context) (string, error) {
	return g.processTurn(ctx, core.NewTurn(core.RoleSystem, OpeningPrompt))
}

func (g *GameMaster) processTurn(ctx context.Context, turn core.Turn) (string, error) {
	g.session.AppendTurn(turn)
	g.sink.TurnStarted(g.session.ID, turn)

	l := &loop{
		model:     g.model,
		registry:  g.registry,
		budget:    g.budget,
		sessionID: g.session.ID,
		sink:      g.sink,
		logger:    g.logger,
	}

	messages := BuildContext(g.session, g.world, g.persona, g.combat, g.registry.Names())
	reply, err := l.run(ctx, messages)
	if err != nil {
		g.sink.Error(g.session.ID, err)
		return "", err
	}

	dmTurn := core.NewTurn(core.RoleDM, reply)
	g.session.AppendTurn(dmTurn)
	g.syncCombat()
	g.sink.TurnEnded(g.session.ID, dmTurn)

	return reply, nil
}

// StreamInput behaves like ProcessInput but delivers the narration
// incrementally through chunk as the model emits it. Tool dispatch is not
// interleaved with streaming; the request carries no tool definitions.
// The concatenation of the delivered fragments equals the persisted turn.
func (g *GameMaster) StreamInput(ctx context.Context, input string, chunk func(fragment string)) (string, error) {
	playerTurn := core.NewTurn(core.RolePlayer, input)
	g.session.AppendTurn(playerTurn)
	g.sink.TurnStarted(g.session.ID, playerTurn)

	messages := BuildContext(g.session, g.world, g.persona, g.combat, g.registry.Names())

	respCh, errCh := g.model.Generate(ctx, model.Request{
		Messages: messages,
		Stream:   true,
	})

	var acc strings.Builder
	var finalText string
	for respCh != nil || errCh != nil {
		select {
		case resp, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			if resp.Partial {
				g.deliver(resp.Content.Text(), &acc, chunk)
				continue
			}
			finalText = resp.Content.Text()
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				mcErr := &ModelCallError{Provider: g.model.Info().Provider, Err: err}
				g.logger.Error("model.stream.failed",
					"session_id", g.session.ID,
					"provider", mcErr.Provider,
					"error", err,
				)
				g.sink.Error(g.session.ID, mcErr)
				return "", mcErr
			}
		}
	}

	full := acc.String()
	if full == "" && finalText != "" {
		// Provider sent the narration in one piece; deliver it as a single
		// fragment so streamed and persisted text stay equal.
		g.deliver(finalText, &acc, chunk)
		full = acc.String()
	}
	if full == "" {
		g.deliver(FallbackEmptyReply, &acc, chunk)
		full = acc.String()
	}

	dmTurn := core.NewTurn(core.RoleDM, full)
	g.session.AppendTurn(dmTurn)
	g.syncCombat()
	g.sink.TurnEnded(g.session.ID, dmTurn)

	return full, nil
}

func (g *GameMaster) deliver(fragment string, acc *strings.Builder, chunk func(string)) {
	if fragment == "" {
		return
	}
	acc.WriteString(fragment)
	if chunk != nil {
		chunk(fragment)
	}
	g.sink.StreamChunk(g.session.ID, fragment)
}

// Snapshot captures the world reference, a deep copy of the session, and the
// full turn history for later restoration.
func (g *GameMaster) Snapshot() core.Snapshot {
	return core.Snapshot{
		World:   g.world,
		Session: g.session.Clone(),
		Turns:   g.session.History(),
	}
}

// RestoreSnapshot replaces the game master's session and world references
// with the snapshot's. The next ProcessInput call builds its context from the
// restored history exactly as if the original turns had just happened.
func (g *GameMaster) RestoreSnapshot(snap core.Snapshot) {
	if snap.World != nil {
		g.world = snap.World
	}
	restored := snap.Session.Clone()
	restored.ReplaceHistory(snap.Turns)
	g.session = restored
	if g.combat != nil {
		g.session.SetCombat(g.combat.State())
	}
}

func (g *GameMaster) syncCombat() {
	if g.combat != nil {
		g.session.SetCombat(g.combat.State())
	}
}
