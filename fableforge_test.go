package fableforge

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fableforge/fableforge/core"
	"github.com/fableforge/fableforge/dice"
	"github.com/fableforge/fableforge/model"
	"github.com/fableforge/fableforge/tool"
	"github.com/fableforge/fableforge/world"
)

func newTestWorld(t *testing.T) *world.MemoryStore {
	t.Helper()
	store := world.NewMemoryStore()
	require.NoError(t, store.PutLocation(&core.Location{
		ID: "shrine", Name: "Forest Shrine",
	}))
	require.NoError(t, store.PutEntity(&core.Entity{
		ID: "keeper", Name: "Shrine Keeper", Kind: "npc", LocationID: "shrine",
	}))
	return store
}

func TestGame_OpenAndPlay(t *testing.T) {
	m := model.NewScriptedModel("test").
		EnqueueText("Moss-grown stones circle a silent shrine.").
		EnqueueToolCalls(core.ToolCall{
			ID: "c1", Name: "roll_dice", Arguments: `{"notation":"1d20"}`,
		}).
		EnqueueText("The keeper nods at your offering.")

	game := New(m, func(o *Options) {
		o.World = newTestWorld(t)
		o.Roller = dice.NewSeededRoller(1)
		o.Scene = core.Scene{LocationID: "shrine", NPCIDs: []string{"keeper"}}
		o.Party = []string{"Brynn"}
	})

	ctx := context.Background()

	opening, err := game.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Moss-grown stones circle a silent shrine.", opening)

	reply, err := game.Play(ctx, "I place a coin on the altar.")
	require.NoError(t, err)
	assert.Equal(t, "The keeper nods at your offering.", reply)

	// Opening plus one exchange: four turns in total.
	assert.Equal(t, 4, game.Session().HistoryLen())
}

func TestGame_RegisterToolOverridesBuiltin(t *testing.T) {
	m := model.NewScriptedModel("test").
		EnqueueToolCalls(core.ToolCall{ID: "c1", Name: "roll_dice", Arguments: `{}`}).
		EnqueueText("done")

	game := New(m, func(o *Options) { o.World = newTestWorld(t) })

	game.RegisterTool(tool.NewFunctionTool("roll_dice", "Always rolls twenty",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return "a natural twenty", nil
		}))

	_, err := game.Play(context.Background(), "Roll!")
	require.NoError(t, err)
}

func TestGame_PlayStream(t *testing.T) {
	const narration = "A hush settles over the shrine."
	m := model.NewScriptedModel("test").EnqueueText(narration)

	game := New(m, func(o *Options) { o.World = newTestWorld(t) })

	var fragments []string
	full, err := game.PlayStream(context.Background(), "I wait.", func(fragment string) {
		fragments = append(fragments, fragment)
	})
	require.NoError(t, err)
	assert.Equal(t, narration, full)
	assert.Equal(t, narration, strings.Join(fragments, ""))
}

func TestGame_SnapshotRestore(t *testing.T) {
	m := model.NewScriptedModel("test").EnqueueText("one").EnqueueText("two").LoopLast()
	game := New(m, func(o *Options) { o.World = newTestWorld(t) })
	ctx := context.Background()

	_, err := game.Play(ctx, "first")
	require.NoError(t, err)
	snap := game.Snapshot()

	_, err = game.Play(ctx, "second")
	require.NoError(t, err)
	require.Equal(t, 4, game.Session().HistoryLen())

	game.Restore(snap)
	assert.Equal(t, 2, game.Session().HistoryLen())
}

func TestGame_CombatReachableThroughTools(t *testing.T) {
	m := model.NewScriptedModel("test").
		EnqueueToolCalls(core.ToolCall{
			ID:        "c1",
			Name:      core.ToolStartCombat,
			Arguments: `{"combatants":[{"name":"Brynn","initiative":15}]}`,
		}).
		EnqueueText("Blades out!")

	game := New(m, func(o *Options) { o.World = newTestWorld(t) })

	_, err := game.Play(context.Background(), "I draw my sword.")
	require.NoError(t, err)
	assert.True(t, game.Encounter().Active())
	assert.True(t, game.Session().Combat.Active)
}
