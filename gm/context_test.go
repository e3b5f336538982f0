package gm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fableforge/fableforge/combat"
	"github.com/fableforge/fableforge/core"
	"github.com/fableforge/fableforge/persona"
	"github.com/fableforge/fableforge/world"
)

func newContextFixture(t *testing.T) (*core.Session, *world.MemoryStore) {
	t.Helper()

	store := world.NewMemoryStore()
	require.NoError(t, store.PutLocation(&core.Location{
		ID:   "crypt",
		Name: "The Sunken Crypt",
	}))
	require.NoError(t, store.PutEntity(&core.Entity{
		ID:         "ghoul",
		Name:       "Pale Ghoul",
		Kind:       "monster",
		LocationID: "crypt",
	}))

	sess := core.NewSession("w1", "default", core.Scene{
		LocationID: "crypt",
		NPCIDs:     []string{"ghoul"},
		Mood:       "oppressive",
		Objectives: []string{"recover the signet ring"},
		Kind:       core.SceneExploration,
	})
	return sess, store
}

func TestBuildContext_Order(t *testing.T) {
	sess, store := newContextFixture(t)
	p := persona.Default()

	sess.AppendTurn(core.NewTurn(core.RolePlayer, "I push open the door."))
	sess.AppendTurn(core.NewTurn(core.RoleDM, "It groans inward."))

	msgs := BuildContext(sess, store, p, combat.NewEncounter(), []string{"roll_dice"})
	require.Len(t, msgs, 4)

	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, p.SystemPrompt(), msgs[0].Text())

	assert.Equal(t, "system", msgs[1].Role)
	scene := msgs[1].Text()
	assert.Contains(t, scene, "The Sunken Crypt")
	assert.Contains(t, scene, "Pale Ghoul")
	assert.Contains(t, scene, "oppressive")
	assert.Contains(t, scene, "recover the signet ring")
	assert.Contains(t, scene, "roll_dice")

	assert.Equal(t, "user", msgs[2].Role)
	assert.Equal(t, "I push open the door.", msgs[2].Text())
	assert.Equal(t, "assistant", msgs[3].Role)
	assert.Equal(t, "It groans inward.", msgs[3].Text())
}

func TestBuildContext_Deterministic(t *testing.T) {
	sess, store := newContextFixture(t)
	p := persona.Default()

	sess.AppendTurn(core.NewTurn(core.RolePlayer, "first"))
	sess.AppendTurn(core.NewTurn(core.RoleDM, "second"))
	sess.AppendTurn(core.NewTurn(core.RolePlayer, "third"))

	tools := []string{"roll_dice", "look_location"}
	a := BuildContext(sess, store, p, combat.NewEncounter(), tools)
	b := BuildContext(sess, store, p, combat.NewEncounter(), tools)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Role, b[i].Role)
		assert.Equal(t, a[i].Text(), b[i].Text())
	}
}

func TestBuildContext_UnresolvableSceneDegrades(t *testing.T) {
	store := world.NewMemoryStore()
	sess := core.NewSession("w1", "default", core.Scene{
		LocationID: "nowhere",
		NPCIDs:     []string{"nobody"},
	})

	msgs := BuildContext(sess, store, persona.Default(), nil, nil)
	require.Len(t, msgs, 2)
	scene := msgs[1].Text()
	assert.Contains(t, scene, UnknownLocationName)
	// Unresolvable npc ids fall back to the raw id.
	assert.Contains(t, scene, "nobody")
}

func TestBuildContext_CombatMessage(t *testing.T) {
	sess, store := newContextFixture(t)
	enc := combat.NewEncounter()

	msgs := BuildContext(sess, store, persona.Default(), enc, nil)
	require.Len(t, msgs, 2, "inactive combat adds no message")

	enc.Begin(
		core.Combatant{Name: "Brynn", Initiative: 17},
		core.Combatant{Name: "Pale Ghoul", Initiative: 9},
	)

	msgs = BuildContext(sess, store, persona.Default(), enc, nil)
	require.Len(t, msgs, 3)
	assert.Equal(t, "system", msgs[2].Role)
	combatMsg := msgs[2].Text()
	assert.Contains(t, combatMsg, "Combat round 1")
	assert.Contains(t, combatMsg, "It is Brynn's turn to act.")
}

func TestBuildContext_DoesNotMutateSession(t *testing.T) {
	sess, store := newContextFixture(t)
	sess.AppendTurn(core.NewTurn(core.RolePlayer, "hello"))

	before := sess.History()
	_ = BuildContext(sess, store, persona.Default(), nil, []string{"roll_dice"})
	assert.Equal(t, before, sess.History())
}
