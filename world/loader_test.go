package world

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validWorldYAML = `
id: hollowdale
name: Hollowdale
start_location: green
locations:
  - id: green
    name: Village Green
    description: A grassy commons ringed by crooked houses.
    exits:
      north: mill
  - id: mill
    name: The Old Mill
    exits:
      south: green
entities:
  - id: miller
    name: Tam the Miller
    kind: npc
    location: mill
    tags: [friendly]
  - id: key
    name: Brass Key
    kind: item
    location: miller
`

func TestLoad(t *testing.T) {
	def, err := Load(strings.NewReader(validWorldYAML))
	require.NoError(t, err)
	assert.Equal(t, "hollowdale", def.ID)
	assert.Equal(t, "green", def.StartLocation)
	require.Len(t, def.Locations, 2)
	require.Len(t, def.Entities, 2)
	assert.Equal(t, "mill", def.Locations[0].Exits["north"])
	assert.Equal(t, []string{"friendly"}, def.Entities[0].Tags)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	_, err := Load(strings.NewReader("id: w\nstart_location: a\nbogus: true\nlocations:\n  - id: a\n    name: A\n"))
	assert.Error(t, err)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing id",
			yaml: "name: x\nstart_location: a\nlocations:\n  - id: a\n    name: A\n",
			want: "requires an id",
		},
		{
			name: "missing start location",
			yaml: "id: w\nlocations:\n  - id: a\n    name: A\n",
			want: "start_location is required",
		},
		{
			name: "undeclared start location",
			yaml: "id: w\nstart_location: b\nlocations:\n  - id: a\n    name: A\n",
			want: "not a declared location",
		},
		{
			name: "duplicate location id",
			yaml: "id: w\nstart_location: a\nlocations:\n  - id: a\n    name: A\n  - id: a\n    name: B\n",
			want: "duplicate location id",
		},
		{
			name: "dangling exit",
			yaml: "id: w\nstart_location: a\nlocations:\n  - id: a\n    name: A\n    exits:\n      east: void\n",
			want: "unknown location",
		},
		{
			name: "dangling entity placement",
			yaml: "id: w\nstart_location: a\nlocations:\n  - id: a\n    name: A\nentities:\n  - id: e\n    name: E\n    location: void\n",
			want: "unknown location",
		},
		{
			name: "duplicate entity id",
			yaml: "id: w\nstart_location: a\nlocations:\n  - id: a\n    name: A\nentities:\n  - id: e\n    name: E\n  - id: e\n    name: F\n",
			want: "duplicate entity id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSeed(t *testing.T) {
	def, err := Load(strings.NewReader(validWorldYAML))
	require.NoError(t, err)

	store := NewMemoryStore()
	require.NoError(t, def.Seed(store))

	loc, err := store.Location("green")
	require.NoError(t, err)
	assert.Equal(t, "Village Green", loc.Name)

	ent, err := store.Entity("miller")
	require.NoError(t, err)
	assert.Equal(t, "mill", ent.LocationID)

	held, err := store.EntitiesAt("miller")
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, "key", held[0].ID)
}
