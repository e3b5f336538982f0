package gm

import (
	"fmt"
	"strings"

	"github.com/fableforge/fableforge/core"
)

// UnknownLocationName is substituted when the scene's location id cannot be
// resolved against the world store. Unresolvable locations degrade gracefully;
// they are not a failure.
const UnknownLocationName = "Unknown"

// BuildContext assembles the ordered message sequence for one model call:
// the persona's system prompt verbatim, a generated scene-context message,
// a combat-context message iff an encounter is active, then the session's
// turn history replayed in original order with roles mapped 1:1.
//
// The function is pure with respect to its inputs: it mutates nothing, and
// identical inputs always yield identical output.
func BuildContext(
	session *core.Session,
	store core.WorldStore,
	persona core.Persona,
	tracker core.CombatTracker,
	toolNames []string,
) []core.Message {
	messages := []core.Message{
		core.NewSystemMessage(persona.SystemPrompt()),
		core.NewSystemMessage(sceneContext(session, store, toolNames)),
	}

	if tracker != nil && tracker.Active() {
		messages = append(messages, core.NewSystemMessage(combatContext(tracker)))
	}

	for _, turn := range session.History() {
		messages = append(messages, core.Message{
			Role:  turn.Role.MessageRole(),
			Parts: []core.Part{core.TextPart{Text: turn.Content}},
		})
	}

	return messages
}

func sceneContext(session *core.Session, store core.WorldStore, toolNames []string) string {
	scene := session.Scene

	locationName := UnknownLocationName
	if store != nil {
		if loc, err := store.Location(scene.LocationID); err == nil {
			locationName = loc.Name
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current location: %s.", locationName)

	if len(scene.NPCIDs) > 0 {
		names := make([]string, 0, len(scene.NPCIDs))
		for _, id := range scene.NPCIDs {
			name := id
			if store != nil {
				if ent, err := store.Entity(id); err == nil {
					name = ent.Name
				}
			}
			names = append(names, name)
		}
		fmt.Fprintf(&b, "\nPresent characters: %s.", strings.Join(names, ", "))
	}

	if scene.Mood != "" {
		fmt.Fprintf(&b, "\nMood: %s.", scene.Mood)
	}

	if len(scene.Objectives) > 0 {
		fmt.Fprintf(&b, "\nActive objectives: %s.", strings.Join(scene.Objectives, "; "))
	}

	if len(session.Party) > 0 {
		fmt.Fprintf(&b, "\nThe party: %s.", strings.Join(session.Party, ", "))
	}

	if len(toolNames) > 0 {
		fmt.Fprintf(&b, "\nAvailable tools: %s.", strings.Join(toolNames, ", "))
	}
	b.WriteString("\nUse the tools for dice rolls, world lookups, and combat changes." +
		" Never invent facts a tool could answer.")

	return b.String()
}

func combatContext(tracker core.CombatTracker) string {
	var b strings.Builder
	b.WriteString("Combat is underway.\n")
	b.WriteString(tracker.Summary())
	if current := tracker.CurrentCombatant(); current != "" {
		fmt.Fprintf(&b, "\nIt is %s's turn to act.", current)
	}
	return b.String()
}
