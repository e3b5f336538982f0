package gm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fableforge/fableforge/core"
	"github.com/fableforge/fableforge/logging"
	"github.com/fableforge/fableforge/model"
	"github.com/fableforge/fableforge/tool"
)

const (
	// DefaultIterationBudget caps how many model calls one player input may
	// trigger before the loop gives up.
	DefaultIterationBudget = 8

	// FallbackEmptyReply is narrated when the model concludes without any text.
	FallbackEmptyReply = "The tale falters for a moment."

	// FallbackBudgetExhausted is narrated when the iteration budget runs out
	// before the model produces a final narration.
	FallbackBudgetExhausted = "The game master pauses, unable to bring the scene to a close."
)

// ModelCallError wraps a provider failure. Unlike tool failures, which fold
// back into the conversation as error results, a failed model call aborts the
// turn and surfaces to the caller.
type ModelCallError struct {
	Provider string
	Err      error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call failed (%s): %v", e.Provider, e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }

// loop drives the request/dispatch cycle for a single player input. A fresh
// loop is built per turn; it owns no state that outlives the turn.
type loop struct {
	model     model.Model
	registry  *tool.Registry
	budget    int
	sessionID string
	sink      *core.SinkNotifier
	logger    logging.Logger
}

// run executes up to budget model calls, dispatching any requested tools
// between calls, and returns the final narration text.
func (l *loop) run(ctx context.Context, messages []core.Message) (string, error) {
	defs := toolDefinitions(l.registry)

	for call := 1; call <= l.budget; call++ {
		resp, err := l.generate(ctx, messages, defs)
		if err != nil {
			return "", err
		}

		calls := resp.Content.ToolCalls()
		if len(calls) == 0 {
			text := resp.Content.Text()
			if text == "" {
				l.logger.Warn("turn.empty_reply", "session_id", l.sessionID)
				return FallbackEmptyReply, nil
			}
			return text, nil
		}

		// The assistant message goes back verbatim so the model sees its own
		// requests, each followed by the matching result.
		messages = append(messages, resp.Content)
		for _, tc := range calls {
			result := l.dispatch(ctx, tc)
			messages = append(messages, core.NewToolResultMessage(result))
			l.sink.ToolCalled(l.sessionID, tc, result)
			l.notifyCombat(tc, result)
		}
	}

	l.logger.Warn("turn.budget_exhausted",
		"session_id", l.sessionID,
		"budget", l.budget,
	)
	return FallbackBudgetExhausted, nil
}

// generate performs one model call and waits for the final response.
func (l *loop) generate(ctx context.Context, messages []core.Message, defs []model.ToolDefinition) (*model.Response, error) {
	start := time.Now()

	respCh, errCh := l.model.Generate(ctx, model.Request{
		Messages: messages,
		Tools:    defs,
	})

	var final *model.Response
	for respCh != nil || errCh != nil {
		select {
		case resp, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			if !resp.Partial {
				r := resp
				final = &r
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				mcErr := &ModelCallError{Provider: l.model.Info().Provider, Err: err}
				l.logger.Error("model.call.failed",
					"session_id", l.sessionID,
					"provider", mcErr.Provider,
					"error", err,
				)
				return nil, mcErr
			}
		}
	}

	if final == nil {
		return nil, &ModelCallError{
			Provider: l.model.Info().Provider,
			Err:      errors.New("model produced no final response"),
		}
	}

	l.logger.Debug("model.call.completed",
		"session_id", l.sessionID,
		"duration", time.Since(start),
		"finish_reason", final.FinishReason,
	)
	return final, nil
}

// dispatch executes one requested tool invocation. All failure modes fold
// into the returned result; dispatch never aborts the turn.
func (l *loop) dispatch(ctx context.Context, tc core.ToolCall) core.ToolResult {
	result := core.ToolResult{CallID: tc.ID, Name: tc.Name}

	args := map[string]any{}
	if tc.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
			toolErr := tool.NewToolError(tc.Name,
				fmt.Sprintf("arguments are not valid JSON: %v", err),
				tool.CodeMalformedArguments)
			result.IsError = true
			result.Content = toolErr.Error()
			l.logger.Warn("tool.arguments.malformed", "tool", tc.Name, "error", err)
			return result
		}
	}

	start := time.Now()
	out, err := l.registry.Execute(ctx, tc.Name, args)
	if err != nil {
		result.IsError = true
		result.Content = err.Error()
		l.logger.Warn("tool.call.failed",
			"tool", tc.Name,
			"duration", time.Since(start),
			"error", err,
		)
		return result
	}

	result.Content = serializeResult(out)
	l.logger.Debug("tool.call.completed",
		"tool", tc.Name,
		"duration", time.Since(start),
	)
	return result
}

// notifyCombat raises the combat lifecycle notifications tied to the two
// reserved tool names. Failed invocations did not change combat state, so
// they raise nothing.
func (l *loop) notifyCombat(tc core.ToolCall, result core.ToolResult) {
	if result.IsError {
		return
	}
	switch tc.Name {
	case core.ToolStartCombat:
		l.sink.CombatStarted(l.sessionID)
	case core.ToolEndCombat:
		l.sink.CombatEnded(l.sessionID)
	}
}

func serializeResult(out any) string {
	switch v := out.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

func toolDefinitions(registry *tool.Registry) []model.ToolDefinition {
	descriptors := registry.List()
	defs := make([]model.ToolDefinition, 0, len(descriptors))
	for _, d := range descriptors {
		defs = append(defs, model.ToolDefinition{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	return defs
}
