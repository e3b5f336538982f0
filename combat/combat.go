// Package combat provides an initiative-order encounter tracker implementing
// the core.CombatTracker interface. The orchestration core only ever reads
// it; tool handlers and the owning application drive its mutations.
package combat

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fableforge/fableforge/core"
)

// Encounter tracks an active combat encounter: participants sorted by
// initiative (stable on ties by insertion order), the current actor, and the
// round counter. Safe for concurrent use.
type Encounter struct {
	mu         sync.RWMutex
	active     bool
	round      int
	turn       int
	combatants []core.Combatant
}

// NewEncounter constructs an inactive encounter.
func NewEncounter() *Encounter {
	return &Encounter{}
}

// Begin starts the encounter with the given combatants at round 1. Any prior
// participants are discarded.
func (e *Encounter) Begin(combatants ...core.Combatant) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.combatants = append([]core.Combatant(nil), combatants...)
	sortByInitiative(e.combatants)
	e.active = true
	e.round = 1
	e.turn = 0
}

// AddCombatant inserts a participant preserving initiative order. Joining
// mid-round does not shift the current actor.
func (e *Encounter) AddCombatant(name string, initiative int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	current := ""
	if e.active && len(e.combatants) > 0 {
		current = e.combatants[e.turn].Name
	}
	e.combatants = append(e.combatants, core.Combatant{Name: name, Initiative: initiative})
	sortByInitiative(e.combatants)
	if current != "" {
		for i, c := range e.combatants {
			if c.Name == current {
				e.turn = i
				break
			}
		}
	}
}

// NextTurn advances to the next combatant, incrementing the round when the
// order wraps. Returns the new current combatant's name.
func (e *Encounter) NextTurn() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || len(e.combatants) == 0 {
		return ""
	}
	e.turn++
	if e.turn >= len(e.combatants) {
		e.turn = 0
		e.round++
	}
	return e.combatants[e.turn].Name
}

// End terminates the encounter, clearing participants.
func (e *Encounter) End() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = false
	e.round = 0
	e.turn = 0
	e.combatants = nil
}

// Active implements core.CombatTracker.
func (e *Encounter) Active() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active
}

// Round returns the current round number (0 when inactive).
func (e *Encounter) Round() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.round
}

// CurrentCombatant implements core.CombatTracker.
func (e *Encounter) CurrentCombatant() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.active || len(e.combatants) == 0 {
		return ""
	}
	return e.combatants[e.turn].Name
}

// Summary implements core.CombatTracker, rendering a human-readable state
// block suitable for injection into model context.
func (e *Encounter) Summary() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.active {
		return "No combat is currently active."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Combat round %d. Initiative order:", e.round)
	for i, c := range e.combatants {
		marker := ""
		if i == e.turn {
			marker = " (acting now)"
		}
		fmt.Fprintf(&b, "\n  %d. %s (initiative %d)%s", i+1, c.Name, c.Initiative, marker)
	}
	return b.String()
}

// State implements core.CombatTracker.
func (e *Encounter) State() core.CombatState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	state := core.CombatState{
		Active:     e.active,
		Round:      e.round,
		Combatants: append([]core.Combatant(nil), e.combatants...),
	}
	if e.active && len(e.combatants) > 0 {
		state.Current = e.combatants[e.turn].Name
	}
	return state
}

// sortByInitiative orders high to low, stable so ties keep insertion order.
func sortByInitiative(cs []core.Combatant) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].Initiative > cs[j].Initiative
	})
}
