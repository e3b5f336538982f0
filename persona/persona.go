// Package persona supplies the immutable voice and behavior configuration
// driving the game master's system prompt. Prompts may contain Go template
// markers rendered once at construction against supplied world facts.
package persona

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DefaultPrompt is used when no persona is configured.
const DefaultPrompt = "You are a fair and evocative game master narrating a " +
	"tabletop role-playing session. Describe scenes vividly, stay consistent " +
	"with established facts, and let the dice decide uncertain outcomes."

// Persona is an immutable system-prompt configuration.
type Persona struct {
	id     string
	name   string
	prompt string
}

// New constructs a persona. Prompts containing template markers are rendered
// against vars; a nil vars map renders against nothing.
func New(id, name, prompt string, vars map[string]any) (*Persona, error) {
	rendered, err := renderTemplate(prompt, vars)
	if err != nil {
		return nil, fmt.Errorf("render persona prompt: %w", err)
	}
	return &Persona{id: id, name: name, prompt: rendered}, nil
}

// MustNew is New for static prompts known to be valid; panics on template errors.
func MustNew(id, name, prompt string) *Persona {
	p, err := New(id, name, prompt, nil)
	if err != nil {
		panic(err)
	}
	return p
}

// Default returns the built-in neutral game master persona.
func Default() *Persona {
	return MustNew("default-gm", "Game Master", DefaultPrompt)
}

// ID implements core.Persona.
func (p *Persona) ID() string { return p.id }

// Name implements core.Persona.
func (p *Persona) Name() string { return p.name }

// SystemPrompt implements core.Persona.
func (p *Persona) SystemPrompt() string { return p.prompt }

// file is the YAML shape of an authored persona.
type file struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Prompt string `yaml:"prompt"`
}

// FromYAML loads a persona definition, rendering any template markers in the
// prompt against vars.
func FromYAML(r io.Reader, vars map[string]any) (*Persona, error) {
	var f file
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode persona: %w", err)
	}
	if f.ID == "" || f.Prompt == "" {
		return nil, fmt.Errorf("persona file requires id and prompt")
	}
	return New(f.ID, f.Name, f.Prompt, vars)
}
