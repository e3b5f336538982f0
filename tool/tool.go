// Package tool implements the deterministic game capability subsystem: a
// name-keyed registry of schema-described tools the generative model may
// invoke, with consistent error handling so tool failures always resolve
// into results instead of aborting an exchange.
package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/fableforge/fableforge/internal/schema"
)

// ErrUnknownTool is returned by Registry.Execute when the requested name is
// absent. The orchestration loop surfaces it as a tool result; it is never
// raised to the caller of an exchange.
var ErrUnknownTool = errors.New("unknown tool")

// Error codes carried by ToolError for categorization.
const (
	// CodeValidation marks schema or argument mismatches.
	CodeValidation = "VALIDATION_ERROR"
	// CodeMalformedArguments marks unparseable argument payloads.
	CodeMalformedArguments = "MALFORMED_ARGUMENTS"
	// CodeExecution marks handler failures.
	CodeExecution = "EXECUTION_ERROR"
)

// Tool defines a named, schema-described deterministic capability.
//
// Implementations should provide clear descriptions (shown to the model to
// decide when to use the tool), define a proper JSON schema for arguments,
// and be safe for sequential reuse; handlers are responsible for the
// consistency of whatever state they touch — execution has no atomicity
// guarantee.
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case recommended).
	Name() string

	// Description returns a human-readable description provided to the model.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with parsed arguments.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ValidationError re-exports the schema validation error type.
type ValidationError = schema.ValidationError

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
