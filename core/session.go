package core

import (
	"sync"
	"time"
)

// Session is the mutable conversational and scene state for one ongoing game.
// It is safe for concurrent reads, but callers must serialize exchanges: the
// orchestration core provides no internal turn-level locking.
//
// Contract:
//   - History only grows during normal operation (two turns per successful
//     exchange) or is wholesale replaced during restoration. It is never
//     reordered or spliced mid-sequence.
//   - AppendTurn and ReplaceHistory update the Updated timestamp.
//   - History returns a defensive copy to avoid external mutation.
type Session struct {
	ID        string      `json:"id"`
	WorldID   string      `json:"world_id"`
	PersonaID string      `json:"persona_id"`
	Scene     Scene       `json:"scene"`
	Party     []string    `json:"party,omitempty"`
	Combat    CombatState `json:"combat"`
	Created   time.Time   `json:"created"`
	Updated   time.Time   `json:"updated"`

	mu      sync.RWMutex
	history []Turn
}

// NewSession creates an empty session bound to a world and persona.
func NewSession(worldID, personaID string, scene Scene) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        NewID(),
		WorldID:   worldID,
		PersonaID: personaID,
		Scene:     scene,
		Created:   now,
		Updated:   now,
	}
}

// AppendTurn appends a turn to the history updating the Updated timestamp.
func (s *Session) AppendTurn(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, t)
	s.Updated = time.Now().UTC()
}

// History returns a defensive copy of the full turn log in original order.
func (s *Session) History() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := make([]Turn, len(s.history))
	copy(turns, s.history)
	return turns
}

// HistoryLen returns the number of recorded turns.
func (s *Session) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// ReplaceHistory swaps the turn log wholesale. Used only during restoration;
// anything recorded after the supplied log is discarded.
func (s *Session) ReplaceHistory(turns []Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = make([]Turn, len(turns))
	copy(s.history, turns)
	s.Updated = time.Now().UTC()
}

// SetCombat overwrites the session's combat snapshot. The session does not
// own combat state; this is read-through synchronization from the tracker.
func (s *Session) SetCombat(state CombatState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Combat = state.Clone()
	s.Updated = time.Now().UTC()
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:        s.ID,
		WorldID:   s.WorldID,
		PersonaID: s.PersonaID,
		Scene:     s.Scene.Clone(),
		Party:     append([]string(nil), s.Party...),
		Combat:    s.Combat.Clone(),
		Created:   s.Created,
		Updated:   s.Updated,
		history:   make([]Turn, len(s.history)),
	}
	copy(clone.history, s.history)
	return clone
}

// Snapshot captures a {world, session, turn-log} triple usable to restore a
// session later. The triple is opaque beyond re-seeding working memory: no
// tool side effects are replayed on restore.
type Snapshot struct {
	World   WorldStore
	Session *Session
	Turns   []Turn
}
