package world

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fableforge/fableforge/core"
)

// Definition is an authored world file: locations, entities, and the party's
// starting location. Definitions seed a WorldStore before play begins.
type Definition struct {
	ID            string        `yaml:"id"`
	Name          string        `yaml:"name"`
	StartLocation string        `yaml:"start_location"`
	Locations     []LocationDef `yaml:"locations"`
	Entities      []EntityDef   `yaml:"entities"`
}

// LocationDef is the YAML shape of a location.
type LocationDef struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Exits       map[string]string `yaml:"exits"`
}

// EntityDef is the YAML shape of an entity.
type EntityDef struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind"`
	Location string   `yaml:"location"`
	Tags     []string `yaml:"tags"`
}

// Load decodes a world definition and validates its referential integrity.
func Load(r io.Reader) (*Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("decode world definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadFile opens and loads a world definition from disk.
func LoadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open world file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks ids are unique and every exit and entity location
// references a declared location (entity locations may also reference other
// entities, for carried items).
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("world definition requires an id")
	}
	locIDs := make(map[string]bool, len(d.Locations))
	for _, loc := range d.Locations {
		if loc.ID == "" {
			return fmt.Errorf("world %q: location without id", d.ID)
		}
		if locIDs[loc.ID] {
			return fmt.Errorf("world %q: duplicate location id %q", d.ID, loc.ID)
		}
		locIDs[loc.ID] = true
	}

	if d.StartLocation == "" {
		return fmt.Errorf("world %q: start_location is required", d.ID)
	}
	if !locIDs[d.StartLocation] {
		return fmt.Errorf("world %q: start_location %q is not a declared location", d.ID, d.StartLocation)
	}

	entIDs := make(map[string]bool, len(d.Entities))
	for _, ent := range d.Entities {
		if ent.ID == "" {
			return fmt.Errorf("world %q: entity without id", d.ID)
		}
		if entIDs[ent.ID] {
			return fmt.Errorf("world %q: duplicate entity id %q", d.ID, ent.ID)
		}
		entIDs[ent.ID] = true
	}

	for _, loc := range d.Locations {
		for dir, target := range loc.Exits {
			if !locIDs[target] {
				return fmt.Errorf("world %q: location %q exit %q references unknown location %q", d.ID, loc.ID, dir, target)
			}
		}
	}

	for _, ent := range d.Entities {
		if ent.Location == "" {
			continue
		}
		if !locIDs[ent.Location] && !entIDs[ent.Location] {
			return fmt.Errorf("world %q: entity %q placed at unknown location %q", d.ID, ent.ID, ent.Location)
		}
	}

	return nil
}

// Seed writes the definition's locations and entities into a store.
func (d *Definition) Seed(store core.WorldStore) error {
	for _, loc := range d.Locations {
		l := &core.Location{
			ID:          loc.ID,
			Name:        loc.Name,
			Description: loc.Description,
			Exits:       loc.Exits,
		}
		if err := store.PutLocation(l); err != nil {
			return fmt.Errorf("seed location %q: %w", loc.ID, err)
		}
	}
	for _, ent := range d.Entities {
		e := &core.Entity{
			ID:         ent.ID,
			Name:       ent.Name,
			Kind:       ent.Kind,
			LocationID: ent.Location,
			Tags:       ent.Tags,
		}
		if err := store.PutEntity(e); err != nil {
			return fmt.Errorf("seed entity %q: %w", ent.ID, err)
		}
	}
	return nil
}
