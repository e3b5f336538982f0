// Package world provides keyed stores of locations and entities plus a YAML
// loader for authored world definitions. Stores implement core.WorldStore:
// read-only for the context builder, mutated by specific tool handlers.
package world

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fableforge/fableforge/core"
)

// MemoryStore is a volatile WorldStore implementation backed by process
// local maps. It is safe for concurrent access and best suited for tests or
// ephemeral demo sessions. Returned records are cloned to prevent external
// mutation of internal state.
type MemoryStore struct {
	mu        sync.RWMutex
	locations map[string]*core.Location
	entities  map[string]*core.Entity
}

// NewMemoryStore constructs an empty in-memory world store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locations: make(map[string]*core.Location),
		entities:  make(map[string]*core.Entity),
	}
}

// Location implements core.WorldStore.
func (s *MemoryStore) Location(id string) (*core.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.locations[id]
	if !ok {
		return nil, fmt.Errorf("location %q: %w", id, core.ErrNotFound)
	}
	return loc.Clone(), nil
}

// Entity implements core.WorldStore.
func (s *MemoryStore) Entity(id string) (*core.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ent, ok := s.entities[id]
	if !ok {
		return nil, fmt.Errorf("entity %q: %w", id, core.ErrNotFound)
	}
	return ent.Clone(), nil
}

// EntitiesAt implements core.WorldStore; results are ordered by entity id
// for deterministic context construction.
func (s *MemoryStore) EntitiesAt(locationID string) ([]*core.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, ent := range s.entities {
		if ent.LocationID == locationID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	result := make([]*core.Entity, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.entities[id].Clone())
	}
	return result, nil
}

// PutLocation implements core.WorldStore.
func (s *MemoryStore) PutLocation(loc *core.Location) error {
	if loc == nil || loc.ID == "" {
		return fmt.Errorf("location requires an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[loc.ID] = loc.Clone()
	return nil
}

// PutEntity implements core.WorldStore.
func (s *MemoryStore) PutEntity(ent *core.Entity) error {
	if ent == nil || ent.ID == "" {
		return fmt.Errorf("entity requires an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[ent.ID] = ent.Clone()
	return nil
}

// MoveEntity implements core.WorldStore.
func (s *MemoryStore) MoveEntity(entityID, locationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.entities[entityID]
	if !ok {
		return fmt.Errorf("entity %q: %w", entityID, core.ErrNotFound)
	}
	ent.LocationID = locationID
	return nil
}
