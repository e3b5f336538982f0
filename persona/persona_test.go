package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := Default()
	assert.Equal(t, "default-gm", p.ID())
	assert.Equal(t, "Game Master", p.Name())
	assert.Equal(t, DefaultPrompt, p.SystemPrompt())
}

func TestNew_RendersTemplate(t *testing.T) {
	p, err := New("grim", "Grim Narrator",
		"You narrate {{.world}} in a {{.tone | lower}} voice.",
		map[string]any{"world": "Hollowdale", "tone": "GRIM"})
	require.NoError(t, err)
	assert.Equal(t, "You narrate Hollowdale in a grim voice.", p.SystemPrompt())
}

func TestNew_StaticPromptPassesThrough(t *testing.T) {
	p, err := New("plain", "Plain", "No markers here.", nil)
	require.NoError(t, err)
	assert.Equal(t, "No markers here.", p.SystemPrompt())
}

func TestNew_BadTemplate(t *testing.T) {
	_, err := New("bad", "Bad", "{{.unclosed", nil)
	assert.Error(t, err)
}

func TestMustNew_PanicsOnBadTemplate(t *testing.T) {
	assert.Panics(t, func() { MustNew("bad", "Bad", "{{.unclosed") })
}

func TestFromYAML(t *testing.T) {
	const doc = `
id: sea-witch
name: The Sea Witch
prompt: "Speak as {{.name | default \"a storm-voiced witch\"}} of the deep."
`
	p, err := FromYAML(strings.NewReader(doc), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "sea-witch", p.ID())
	assert.Equal(t, "The Sea Witch", p.Name())
	assert.Equal(t, "Speak as a storm-voiced witch of the deep.", p.SystemPrompt())
}

func TestFromYAML_MissingFields(t *testing.T) {
	_, err := FromYAML(strings.NewReader("name: Nameless\n"), nil)
	assert.Error(t, err)
}
