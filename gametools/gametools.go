// Package gametools provides the builtin deterministic game capabilities a
// game master session registers by default: dice rolls, world lookups and
// mutations, and combat control. Each tool is a schema-described
// tool.FunctionTool closing over its collaborator.
package gametools

import (
	"context"
	"fmt"

	"github.com/fableforge/fableforge/combat"
	"github.com/fableforge/fableforge/core"
	"github.com/fableforge/fableforge/dice"
	"github.com/fableforge/fableforge/tool"
)

// Defaults returns the standard tool set for a session.
func Defaults(roller *dice.Roller, store core.WorldStore, enc *combat.Encounter) []tool.Tool {
	return []tool.Tool{
		NewRollDice(roller),
		NewLookLocation(store),
		NewLookEntity(store),
		NewMoveEntity(store),
		NewGiveItem(store),
		NewStartCombat(enc),
		NewEndCombat(enc),
		NewAdvanceTurn(enc),
	}
}

type rollDiceArgs struct {
	Notation string `json:"notation" description:"Dice notation such as 1d20+5 or 2d6"`
}

// NewRollDice returns the dice rolling tool.
func NewRollDice(roller *dice.Roller) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"roll_dice",
		"Roll dice using standard notation (e.g. 1d20+5) and return the individual results and total",
		rollDiceArgs{},
		func(_ context.Context, args map[string]any) (any, error) {
			notation, _ := args["notation"].(string)
			roll, err := roller.Roll(notation)
			if err != nil {
				return nil, err
			}
			return roll, nil
		},
	)
}

type lookLocationArgs struct {
	LocationID string `json:"location_id" description:"Identifier of the location to inspect"`
}

// NewLookLocation returns a tool describing a location and who is present.
func NewLookLocation(store core.WorldStore) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"look_location",
		"Look up a location by id: its description, exits, and the entities present",
		lookLocationArgs{},
		func(_ context.Context, args map[string]any) (any, error) {
			id, _ := args["location_id"].(string)
			loc, err := store.Location(id)
			if err != nil {
				return nil, err
			}
			present, err := store.EntitiesAt(id)
			if err != nil {
				return nil, err
			}
			type presentEntity struct {
				ID   string `json:"id"`
				Name string `json:"name"`
				Kind string `json:"kind,omitempty"`
			}
			entities := make([]presentEntity, 0, len(present))
			for _, e := range present {
				entities = append(entities, presentEntity{ID: e.ID, Name: e.Name, Kind: e.Kind})
			}
			return map[string]any{
				"id":          loc.ID,
				"name":        loc.Name,
				"description": loc.Description,
				"exits":       loc.Exits,
				"entities":    entities,
			}, nil
		},
	)
}

type lookEntityArgs struct {
	EntityID string `json:"entity_id" description:"Identifier of the entity to inspect"`
}

// NewLookEntity returns a tool describing a single entity.
func NewLookEntity(store core.WorldStore) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"look_entity",
		"Look up an entity (character, monster, or item) by id",
		lookEntityArgs{},
		func(_ context.Context, args map[string]any) (any, error) {
			id, _ := args["entity_id"].(string)
			return store.Entity(id)
		},
	)
}

type moveEntityArgs struct {
	EntityID   string `json:"entity_id" description:"Entity to move"`
	LocationID string `json:"location_id" description:"Destination location id"`
}

// NewMoveEntity returns a tool relocating an entity.
func NewMoveEntity(store core.WorldStore) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"move_entity",
		"Move an entity to another location",
		moveEntityArgs{},
		func(_ context.Context, args map[string]any) (any, error) {
			entityID, _ := args["entity_id"].(string)
			locationID, _ := args["location_id"].(string)
			if _, err := store.Location(locationID); err != nil {
				return nil, err
			}
			if err := store.MoveEntity(entityID, locationID); err != nil {
				return nil, err
			}
			return map[string]any{"moved": entityID, "to": locationID}, nil
		},
	)
}

type giveItemArgs struct {
	ItemID      string `json:"item_id" description:"Item entity to hand over"`
	RecipientID string `json:"recipient_id" description:"Entity receiving the item"`
}

// NewGiveItem returns a tool transferring an item into an entity's keeping.
// The item's location becomes the recipient's entity id.
func NewGiveItem(store core.WorldStore) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"give_item",
		"Give an item to a character or creature",
		giveItemArgs{},
		func(_ context.Context, args map[string]any) (any, error) {
			itemID, _ := args["item_id"].(string)
			recipientID, _ := args["recipient_id"].(string)
			if _, err := store.Entity(recipientID); err != nil {
				return nil, err
			}
			if err := store.MoveEntity(itemID, recipientID); err != nil {
				return nil, err
			}
			return map[string]any{"item": itemID, "held_by": recipientID}, nil
		},
	)
}

// NewStartCombat returns the reserved combat-starting tool. The orchestration
// loop additionally notifies the event sink when this name is dispatched.
func NewStartCombat(enc *combat.Encounter) tool.Tool {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"combatants": map[string]any{
				"type":        "array",
				"description": "Participants with name and initiative, e.g. [{\"name\":\"Goblin\",\"initiative\":12}]",
			},
		},
		"required": []string{"combatants"},
	}
	return tool.NewFunctionTool(
		core.ToolStartCombat,
		"Begin a combat encounter with the given participants in initiative order",
		params,
		func(_ context.Context, args map[string]any) (any, error) {
			raw, _ := args["combatants"].([]any)
			if len(raw) == 0 {
				return nil, fmt.Errorf("at least one combatant is required")
			}
			combatants := make([]core.Combatant, 0, len(raw))
			for _, item := range raw {
				m, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("combatant entries must be objects with name and initiative")
				}
				name, _ := m["name"].(string)
				if name == "" {
					return nil, fmt.Errorf("combatant entries require a name")
				}
				initiative := 0
				switch v := m["initiative"].(type) {
				case float64:
					initiative = int(v)
				case int:
					initiative = v
				}
				combatants = append(combatants, core.Combatant{Name: name, Initiative: initiative})
			}
			enc.Begin(combatants...)
			return map[string]any{"combat": "started", "order": enc.Summary()}, nil
		},
	)
}

// NewEndCombat returns the reserved combat-ending tool.
func NewEndCombat(enc *combat.Encounter) tool.Tool {
	return tool.NewFunctionTool(
		core.ToolEndCombat,
		"End the current combat encounter",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			enc.End()
			return map[string]any{"combat": "ended"}, nil
		},
	)
}

// NewAdvanceTurn returns a tool advancing the initiative order.
func NewAdvanceTurn(enc *combat.Encounter) tool.Tool {
	return tool.NewFunctionTool(
		"advance_turn",
		"Advance combat to the next combatant in initiative order",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			if !enc.Active() {
				return nil, fmt.Errorf("no combat is active")
			}
			next := enc.NextTurn()
			return map[string]any{"current": next, "round": enc.Round()}, nil
		},
	)
}
