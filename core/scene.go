package core

// SceneKind is a coarse tag describing the flavor of the current scene.
type SceneKind string

const (
	// SceneExploration covers travel and investigation scenes.
	SceneExploration SceneKind = "exploration"
	// SceneSocial covers dialogue-driven scenes.
	SceneSocial SceneKind = "social"
	// SceneCombat covers active encounters.
	SceneCombat SceneKind = "combat"
	// SceneDowntime covers rests and interludes.
	SceneDowntime SceneKind = "downtime"
)

// Scene is the current location plus social context a session is narrating.
// It is mutated by the owning application layer between exchanges and is
// read-only to the orchestration core.
type Scene struct {
	LocationID string    `json:"location_id"`
	NPCIDs     []string  `json:"npc_ids,omitempty"`
	Mood       string    `json:"mood,omitempty"`
	Objectives []string  `json:"objectives,omitempty"`
	Kind       SceneKind `json:"kind,omitempty"`
}

// Clone returns a deep copy safe for independent mutation.
func (s Scene) Clone() Scene {
	c := s
	c.NPCIDs = append([]string(nil), s.NPCIDs...)
	c.Objectives = append([]string(nil), s.Objectives...)
	return c
}
