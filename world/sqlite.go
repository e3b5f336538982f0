package world

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/fableforge/fableforge/core"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS locations (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	exits       TEXT NOT NULL DEFAULT '{}'
);
CREATE TABLE IF NOT EXISTS entities (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	kind        TEXT NOT NULL DEFAULT '',
	location_id TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_entities_location ON entities(location_id);
`

// SQLiteStore is a durable WorldStore backed by a SQLite database. Exits and
// tags are stored as JSON columns. Safe for concurrent use through the
// underlying database/sql pool.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) a world database at path.
// Use ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open world db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply world schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Location implements core.WorldStore.
func (s *SQLiteStore) Location(id string) (*core.Location, error) {
	row := s.db.QueryRow(`SELECT id, name, description, exits FROM locations WHERE id = ?`, id)
	var loc core.Location
	var exits string
	if err := row.Scan(&loc.ID, &loc.Name, &loc.Description, &exits); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("location %q: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("query location: %w", err)
	}
	if err := json.Unmarshal([]byte(exits), &loc.Exits); err != nil {
		return nil, fmt.Errorf("decode exits for %q: %w", id, err)
	}
	return &loc, nil
}

// Entity implements core.WorldStore.
func (s *SQLiteStore) Entity(id string) (*core.Entity, error) {
	row := s.db.QueryRow(`SELECT id, name, kind, location_id, tags FROM entities WHERE id = ?`, id)
	ent, err := scanEntity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("entity %q: %w", id, core.ErrNotFound)
		}
		return nil, err
	}
	return ent, nil
}

// EntitiesAt implements core.WorldStore; ordered by entity id.
func (s *SQLiteStore) EntitiesAt(locationID string) ([]*core.Entity, error) {
	rows, err := s.db.Query(
		`SELECT id, name, kind, location_id, tags FROM entities WHERE location_id = ? ORDER BY id`,
		locationID,
	)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var result []*core.Entity
	for rows.Next() {
		ent, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, ent)
	}
	return result, rows.Err()
}

// PutLocation implements core.WorldStore.
func (s *SQLiteStore) PutLocation(loc *core.Location) error {
	if loc == nil || loc.ID == "" {
		return fmt.Errorf("location requires an id")
	}
	exits, err := json.Marshal(loc.Exits)
	if err != nil {
		return fmt.Errorf("encode exits: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO locations (id, name, description, exits) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, description=excluded.description, exits=excluded.exits`,
		loc.ID, loc.Name, loc.Description, string(exits),
	)
	if err != nil {
		return fmt.Errorf("upsert location: %w", err)
	}
	return nil
}

// PutEntity implements core.WorldStore.
func (s *SQLiteStore) PutEntity(ent *core.Entity) error {
	if ent == nil || ent.ID == "" {
		return fmt.Errorf("entity requires an id")
	}
	tags, err := json.Marshal(ent.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO entities (id, name, kind, location_id, tags) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, kind=excluded.kind, location_id=excluded.location_id, tags=excluded.tags`,
		ent.ID, ent.Name, ent.Kind, ent.LocationID, string(tags),
	)
	if err != nil {
		return fmt.Errorf("upsert entity: %w", err)
	}
	return nil
}

// MoveEntity implements core.WorldStore.
func (s *SQLiteStore) MoveEntity(entityID, locationID string) error {
	res, err := s.db.Exec(`UPDATE entities SET location_id = ? WHERE id = ?`, locationID, entityID)
	if err != nil {
		return fmt.Errorf("move entity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("move entity: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("entity %q: %w", entityID, core.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (*core.Entity, error) {
	var ent core.Entity
	var tags string
	if err := row.Scan(&ent.ID, &ent.Name, &ent.Kind, &ent.LocationID, &tags); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &ent.Tags); err != nil {
		return nil, fmt.Errorf("decode tags for %q: %w", ent.ID, err)
	}
	return &ent, nil
}
