package tool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fableforge/fableforge/logging"
)

// Descriptor is the presentation view of a registered tool: what the
// generative model sees as an available action.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Registry is the name-keyed collection of tools with dispatch-by-name.
// Registering a name that already exists replaces the prior entry (last
// registration wins); List preserves first-registration order. Safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	tools  map[string]Tool
	logger logging.Logger
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	Logger logging.Logger
}

// NewRegistry constructs an empty registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{
		tools:  make(map[string]Tool),
		logger: opts.Logger,
	}
}

// Register stores the tool under its name. Duplicate names replace the prior
// entry while keeping the original position in List order.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := t.Name()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	} else {
		r.logger.Warn("tool.registry.replaced", "tool", name)
	}
	r.tools[name] = t
}

// RegisterAll registers multiple tools in order.
func (r *Registry) RegisterAll(tools ...Tool) {
	for _, t := range tools {
		r.Register(t)
	}
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// List returns all descriptors in registration order for presentation to the
// generative model as its available actions.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptors := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		descriptors = append(descriptors, Descriptor{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return descriptors
}

// Execute looks up the handler and invokes it with the parsed arguments.
// An absent name fails with ErrUnknownTool; handler failures are returned as
// *ToolError. The caller decides how failures surface — the orchestration
// loop folds both into tool results.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	start := time.Now()
	result, err := t.Call(ctx, args)
	dur := time.Since(start)

	if err != nil {
		r.logger.Error("tool.call.failed", "tool", name, "duration_ms", dur.Milliseconds(), "error", err.Error())
		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			return nil, toolErr
		}
		return nil, &ToolError{Tool: name, Message: err.Error(), Code: CodeExecution}
	}

	r.logger.Info("tool.call.success", "tool", name, "duration_ms", dur.Milliseconds())
	return result, nil
}
