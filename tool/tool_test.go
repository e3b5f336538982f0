package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- FunctionTool Tests --------------------

type greetArgs struct {
	Name  string `json:"name" description:"Who to greet"`
	Times *int   `json:"times" description:"Optional repeat count"`
}

func TestFunctionTool_Success(t *testing.T) {
	greet := NewFunctionToolFromStruct("greet", "Greet someone", greetArgs{},
		func(_ context.Context, args map[string]any) (any, error) {
			name, _ := args["name"].(string)
			return "hello " + name, nil
		})

	assert.Equal(t, "greet", greet.Name())
	assert.Equal(t, "Greet someone", greet.Description())

	out, err := greet.Call(context.Background(), map[string]any{"name": "Brynn"})
	require.NoError(t, err)
	assert.Equal(t, "hello Brynn", out)
}

func TestFunctionTool_ValidationFailure(t *testing.T) {
	greet := NewFunctionToolFromStruct("greet", "Greet someone", greetArgs{},
		func(_ context.Context, _ map[string]any) (any, error) {
			t.Fatal("handler must not run on invalid args")
			return nil, nil
		})

	_, err := greet.Call(context.Background(), map[string]any{})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
	assert.Equal(t, "greet", toolErr.Tool)
}

func TestFunctionTool_ExecutionFailureWrapped(t *testing.T) {
	failing := NewFunctionTool("boom", "Always fails",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, errors.New("kaput")
		})

	_, err := failing.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.Contains(t, toolErr.Message, "kaput")
}

func TestFunctionTool_CustomToolErrorPassthrough(t *testing.T) {
	custom := NewToolError("picky", "out of range", "CUSTOM_CODE")
	picky := NewFunctionTool("picky", "Raises a custom code",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, custom
		})

	_, err := picky.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "CUSTOM_CODE", toolErr.Code)
}

// -------------------- Registry Tests --------------------

func namedTool(name string, result any) Tool {
	return NewFunctionTool(name, "test tool "+name,
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return result, nil
		})
}

func TestRegistry_RegisterAndList(t *testing.T) {
	r := NewRegistry()
	r.RegisterAll(namedTool("alpha", 1), namedTool("beta", 2), namedTool("gamma", 3))

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, r.Names())

	descriptors := r.List()
	require.Len(t, descriptors, 3)
	assert.Equal(t, "alpha", descriptors[0].Name)
	assert.Equal(t, "test tool beta", descriptors[1].Description)

	got, ok := r.Get("beta")
	require.True(t, ok)
	assert.Equal(t, "beta", got.Name())
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	r := NewRegistry()
	r.Register(namedTool("dup", "old"))
	r.Register(namedTool("other", "x"))
	r.Register(namedTool("dup", "new"))

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"dup", "other"}, r.Names(), "replacement keeps first position")

	out, err := r.Execute(context.Background(), "dup", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "new", out)
}

func TestRegistry_ExecuteUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Execute(context.Background(), "ghost", map[string]any{})
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestRegistry_ExecuteWrapsErrors(t *testing.T) {
	r := NewRegistry()
	r.Register(NewFunctionTool("fragile", "fails",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, fmt.Errorf("broke")
		}))

	_, err := r.Execute(context.Background(), "fragile", map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.Equal(t, "fragile", toolErr.Tool)
}

func TestToolError_Error(t *testing.T) {
	withCode := NewToolError("roll_dice", "bad notation", CodeValidation)
	assert.Equal(t, "tool error [VALIDATION_ERROR] in roll_dice: bad notation", withCode.Error())

	noCode := &ToolError{Tool: "roll_dice", Message: "bad notation"}
	assert.Equal(t, "tool error in roll_dice: bad notation", noCode.Error())
}
