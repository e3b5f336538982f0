package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleArgs struct {
	Name    string   `json:"name" description:"Target name"`
	Count   *int     `json:"count" description:"Optional pointer field"`
	Note    string   `json:"note,omitempty" description:"Omit empty field"`
	Tags    []string `json:"tags,omitempty"`
	private int
	Skipped string   `json:"-"`
}

func TestFromStruct(t *testing.T) {
	s := FromStruct(sampleArgs{})
	assert.Equal(t, "object", s["type"])

	props, ok := s["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "name")
	assert.Contains(t, props, "count")
	assert.Contains(t, props, "note")
	assert.Contains(t, props, "tags")
	assert.NotContains(t, props, "private")
	assert.NotContains(t, props, "Skipped")

	nameSchema := props["name"].(map[string]any)
	assert.Equal(t, "string", nameSchema["type"])
	assert.Equal(t, "Target name", nameSchema["description"])
	assert.Equal(t, "integer", props["count"].(map[string]any)["type"])
	assert.Equal(t, "array", props["tags"].(map[string]any)["type"])

	// Only non-pointer, non-omitempty fields are required.
	required, ok := s["required"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"name"}, required)
}

func TestFromStruct_Pointer(t *testing.T) {
	s := FromStruct(&sampleArgs{})
	props := s["properties"].(map[string]any)
	assert.Contains(t, props, "name")
}

func TestFromStruct_NonStruct(t *testing.T) {
	s := FromStruct(42)
	assert.Equal(t, "object", s["type"])
	assert.Empty(t, s["properties"])
}

func TestValidate(t *testing.T) {
	s := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		// Mirror the shape of a JSON-decoded schema.
		"required": []any{"x"},
	}

	assert.NoError(t, Validate(map[string]any{"x": 5}, s))
	// JSON numbers decode as float64; whole values count as integers.
	assert.NoError(t, Validate(map[string]any{"x": float64(5)}, s))
	// Extra fields are allowed.
	assert.NoError(t, Validate(map[string]any{"x": 1, "extra": "ok"}, s))

	err := Validate(map[string]any{}, s)
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "x", vErr.Field)
	assert.Contains(t, vErr.Message, "missing")

	err = Validate(map[string]any{"x": "not-int"}, s)
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "expected type integer")

	err = Validate(map[string]any{"x": 1.5}, s)
	assert.Error(t, err, "fractional values are not integers")
}

func TestValidate_RequiredStringSlice(t *testing.T) {
	s := FromStruct(sampleArgs{})
	err := Validate(map[string]any{}, s)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)

	assert.NoError(t, Validate(map[string]any{"name": "Brynn"}, s))
}

func TestValidate_Types(t *testing.T) {
	s := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"flag":  map[string]any{"type": "boolean"},
			"score": map[string]any{"type": "number"},
			"items": map[string]any{"type": "array"},
			"meta":  map[string]any{"type": "object"},
		},
	}

	assert.NoError(t, Validate(map[string]any{
		"flag":  true,
		"score": 1.5,
		"items": []any{"a"},
		"meta":  map[string]any{"k": "v"},
	}, s))

	assert.Error(t, Validate(map[string]any{"flag": "yes"}, s))
	assert.Error(t, Validate(map[string]any{"score": "fast"}, s))
	assert.Error(t, Validate(map[string]any{"items": "one"}, s))
	assert.Error(t, Validate(map[string]any{"meta": 3}, s))

	// Nil values pass; explicit null leaves the decision to the handler.
	assert.NoError(t, Validate(map[string]any{"flag": nil}, s))
}
