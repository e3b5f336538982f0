package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fableforge/fableforge/core"
)

func TestEncounter_Lifecycle(t *testing.T) {
	e := NewEncounter()
	assert.False(t, e.Active())
	assert.Equal(t, "", e.CurrentCombatant())
	assert.Equal(t, "No combat is currently active.", e.Summary())

	e.Begin(
		core.Combatant{Name: "Goblin", Initiative: 12},
		core.Combatant{Name: "Brynn", Initiative: 17},
		core.Combatant{Name: "Kael", Initiative: 9},
	)
	assert.True(t, e.Active())
	assert.Equal(t, 1, e.Round())
	assert.Equal(t, "Brynn", e.CurrentCombatant(), "highest initiative acts first")

	e.End()
	assert.False(t, e.Active())
	assert.Equal(t, 0, e.Round())
	assert.Empty(t, e.State().Combatants)
}

func TestEncounter_TurnOrderWraps(t *testing.T) {
	e := NewEncounter()
	e.Begin(
		core.Combatant{Name: "Brynn", Initiative: 17},
		core.Combatant{Name: "Goblin", Initiative: 12},
	)

	assert.Equal(t, "Goblin", e.NextTurn())
	assert.Equal(t, 1, e.Round())
	assert.Equal(t, "Brynn", e.NextTurn(), "order wraps back to the top")
	assert.Equal(t, 2, e.Round(), "wrap increments the round")
}

func TestEncounter_TiesKeepInsertionOrder(t *testing.T) {
	e := NewEncounter()
	e.Begin(
		core.Combatant{Name: "First", Initiative: 10},
		core.Combatant{Name: "Second", Initiative: 10},
	)
	assert.Equal(t, "First", e.CurrentCombatant())
	assert.Equal(t, "Second", e.NextTurn())
}

func TestEncounter_AddCombatantKeepsCurrentActor(t *testing.T) {
	e := NewEncounter()
	e.Begin(
		core.Combatant{Name: "Brynn", Initiative: 17},
		core.Combatant{Name: "Goblin", Initiative: 12},
	)
	e.NextTurn() // Goblin acting

	e.AddCombatant("Dire Wolf", 20)
	assert.Equal(t, "Goblin", e.CurrentCombatant(), "joins do not shift the actor")

	state := e.State()
	require.Len(t, state.Combatants, 3)
	assert.Equal(t, "Dire Wolf", state.Combatants[0].Name, "sorted into initiative order")
}

func TestEncounter_NextTurnInactive(t *testing.T) {
	assert.Equal(t, "", NewEncounter().NextTurn())
}

func TestEncounter_StateAndSummary(t *testing.T) {
	e := NewEncounter()
	e.Begin(
		core.Combatant{Name: "Brynn", Initiative: 17},
		core.Combatant{Name: "Goblin", Initiative: 12},
	)

	state := e.State()
	assert.True(t, state.Active)
	assert.Equal(t, 1, state.Round)
	assert.Equal(t, "Brynn", state.Current)
	require.Len(t, state.Combatants, 2)

	summary := e.Summary()
	assert.Contains(t, summary, "Combat round 1")
	assert.Contains(t, summary, "1. Brynn (initiative 17) (acting now)")
	assert.Contains(t, summary, "2. Goblin (initiative 12)")
}
