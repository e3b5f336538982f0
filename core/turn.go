package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a recorded Turn. A Turn is exactly one of
// system, player, or dm; tool exchanges exist only transiently inside one
// orchestration loop invocation and are never persisted as Turns.
type Role string

const (
	// RoleSystem marks injected framing turns (e.g. the opening scene prompt).
	RoleSystem Role = "system"
	// RolePlayer marks turns authored by the player.
	RolePlayer Role = "player"
	// RoleDM marks turns authored by the game master.
	RoleDM Role = "dm"
)

// Valid reports whether the role is one of the three persisted roles.
func (r Role) Valid() bool {
	return r == RoleSystem || r == RolePlayer || r == RoleDM
}

// MessageRole maps a persisted Turn role onto the conversational role used
// when replaying history to a model: system stays system, the player speaks
// as user, the game master as assistant.
func (r Role) MessageRole() string {
	switch r {
	case RolePlayer:
		return "user"
	case RoleDM:
		return "assistant"
	default:
		return "system"
	}
}

// Turn is one recorded utterance in a session's history.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTurn creates a Turn with a fresh id and UTC timestamp.
func NewTurn(role Role, content string) Turn {
	return Turn{
		ID:        NewID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewID generates a unique identifier for turns and tool calls.
func NewID() string { return uuid.NewString() }
