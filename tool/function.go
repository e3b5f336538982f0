package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/fableforge/fableforge/internal/schema"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a
// FableForge tool. It validates model supplied arguments against the declared
// schema before execution and normalizes error handling so callers receive
// *ToolError with consistent codes (custom codes are preserved when the
// function returns *ToolError directly).
//
// A FunctionTool has no internal mutable state after construction; whether it
// is safe for concurrent use depends on the wrapped function.
type FunctionTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(ctx context.Context, args map[string]any) (any, error)
}

// NewFunctionTool constructs a FunctionTool from explicit schema and function.
//
// Example:
//
//	heal := NewFunctionTool(
//	  "heal_character",
//	  "Restore hit points to a character",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "name":   map[string]any{"type": "string"},
//	      "amount": map[string]any{"type": "integer"},
//	    },
//	    "required": []string{"name", "amount"},
//	  },
//	  func(ctx context.Context, args map[string]any) (any, error) {
//	    ...
//	  },
//	)
func NewFunctionTool(
	name, description string,
	parameters map[string]any,
	fn func(ctx context.Context, args map[string]any) (any, error),
) *FunctionTool {
	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// NewFunctionToolFromStruct derives the parameter schema from a struct using
// reflection. Convenient for simple argument containers.
func NewFunctionToolFromStruct(
	name, description string,
	structType any,
	fn func(ctx context.Context, args map[string]any) (any, error),
) *FunctionTool {
	return NewFunctionTool(name, description, schema.FromStruct(structType), fn)
}

// Name returns the unique tool name used in declarations and routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the JSON schema describing expected arguments.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Call validates the provided args against the declared schema then invokes
// the underlying function. Validation or execution failures are wrapped (or
// passed through) as *ToolError for uniform downstream handling.
func (t *FunctionTool) Call(ctx context.Context, args map[string]any) (any, error) {
	if err := schema.Validate(args, t.parameters); err != nil {
		return nil, &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    CodeValidation,
			Details: err,
		}
	}

	result, err := t.fn(ctx, args)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			return nil, toolErr
		}
		return nil, &ToolError{
			Tool:    t.name,
			Message: err.Error(),
			Code:    CodeExecution,
		}
	}

	return result, nil
}
