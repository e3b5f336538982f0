package core

import "errors"

// ErrNotFound is returned by WorldStore implementations when a keyed record
// does not exist.
var ErrNotFound = errors.New("not found")

// Location is a keyed place in the game world.
type Location struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Exits       map[string]string `json:"exits,omitempty"` // direction -> location id
}

// Clone returns a deep copy safe for independent mutation.
func (l *Location) Clone() *Location {
	if l == nil {
		return nil
	}
	c := *l
	if l.Exits != nil {
		c.Exits = make(map[string]string, len(l.Exits))
		for k, v := range l.Exits {
			c.Exits[k] = v
		}
	}
	return &c
}

// Entity is a keyed inhabitant or object of the game world. LocationID may
// reference a Location or another Entity (carried items).
type Entity struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind,omitempty"` // npc, monster, item, ...
	LocationID string   `json:"location_id,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Clone returns a deep copy safe for independent mutation.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	c := *e
	c.Tags = append([]string(nil), e.Tags...)
	return &c
}

// WorldStore is a keyed store of locations and entities. The context builder
// queries it read-only; specific tool handlers mutate it. Implementations
// must be safe for concurrent use across sessions.
type WorldStore interface {
	Location(id string) (*Location, error)
	Entity(id string) (*Entity, error)
	EntitiesAt(locationID string) ([]*Entity, error)
	PutLocation(loc *Location) error
	PutEntity(ent *Entity) error
	MoveEntity(entityID, locationID string) error
}

// Persona supplies the immutable voice and behavior configuration driving the
// system prompt.
type Persona interface {
	ID() string
	Name() string
	SystemPrompt() string
}

// Combatant is one participant in an active encounter.
type Combatant struct {
	Name       string `json:"name"`
	Initiative int    `json:"initiative"`
}

// CombatState is a snapshot of encounter state owned by a CombatTracker.
type CombatState struct {
	Active     bool        `json:"active"`
	Round      int         `json:"round,omitempty"`
	Current    string      `json:"current,omitempty"` // name of the combatant whose turn it is
	Combatants []Combatant `json:"combatants,omitempty"`
}

// Clone returns a deep copy safe for independent mutation.
func (c CombatState) Clone() CombatState {
	clone := c
	clone.Combatants = append([]Combatant(nil), c.Combatants...)
	return clone
}

// Reserved tool names: invocations of these, in addition to normal dispatch,
// trigger combat start/end notifications on the event sink.
const (
	// ToolStartCombat is the reserved name of the combat-starting tool.
	ToolStartCombat = "start_combat"
	// ToolEndCombat is the reserved name of the combat-ending tool.
	ToolEndCombat = "end_combat"
)

// CombatTracker exposes read-only encounter queries consumed by the context
// builder and the loop's reserved-name notifications. The tracker's own
// resolution machinery lives outside the orchestration core.
type CombatTracker interface {
	Active() bool
	CurrentCombatant() string
	Summary() string
	State() CombatState
}
