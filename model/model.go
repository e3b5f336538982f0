package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/fableforge/fableforge/core"
)

// ToolDefinition declaratively exposes a callable tool to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by the context builder
// and orchestration loop: the ordered messages, the available tools, and the
// streaming flag.
type Request struct {
	Messages []core.Message   `json:"messages"`
	Tools    []ToolDefinition `json:"tools,omitempty"`
	Stream   bool             `json:"stream,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a model. The final
// response of a call carries Partial=false and the complete content,
// including any tool call parts.
type Response struct {
	Partial      bool         `json:"partial"`
	Content      core.Message `json:"content"`
	FinishReason string       `json:"finish_reason,omitempty"` // "stop", "length", "tool_calls", ...
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", ...
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required to drive generation. Generate
// returns a response channel and an error channel; both are closed when the
// call completes. Non-streaming callers collect the final (non-partial)
// response; streaming callers additionally observe partial fragments in
// order.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// ScriptedModel is an in-memory Model that replays a fixed script of
// responses, one per Generate call. Useful for tests and examples where
// deterministic tool-calling behavior is required.
type ScriptedModel struct {
	mu     sync.Mutex
	info   Info
	script []scriptEntry
	calls  int
	loop   bool
}

type scriptEntry struct {
	resp Response
	err  error
}

// NewScriptedModel constructs an empty scripted model.
func NewScriptedModel(name string) *ScriptedModel {
	return &ScriptedModel{
		info: Info{Name: name, Provider: "scripted", SupportsTools: true},
	}
}

// LoopLast makes the model replay its final script entry forever once the
// script is exhausted, instead of erroring.
func (m *ScriptedModel) LoopLast() *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loop = true
	return m
}

// EnqueueText scripts a plain text reply for the next unmatched call.
func (m *ScriptedModel) EnqueueText(text string) *ScriptedModel {
	return m.enqueue(Response{
		Content:      core.NewAssistantMessage(text),
		FinishReason: "stop",
	}, nil)
}

// EnqueueToolCalls scripts a reply requesting the given tool invocations.
func (m *ScriptedModel) EnqueueToolCalls(calls ...core.ToolCall) *ScriptedModel {
	parts := make([]core.Part, 0, len(calls))
	for _, c := range calls {
		parts = append(parts, core.ToolCallPart{Call: c})
	}
	return m.enqueue(Response{
		Content:      core.Message{Role: "assistant", Parts: parts},
		FinishReason: "tool_calls",
	}, nil)
}

// EnqueueError scripts a provider failure for the next unmatched call.
func (m *ScriptedModel) EnqueueError(err error) *ScriptedModel {
	return m.enqueue(Response{}, err)
}

// EnqueueResponse scripts an arbitrary final response.
func (m *ScriptedModel) EnqueueResponse(resp Response) *ScriptedModel {
	return m.enqueue(resp, nil)
}

func (m *ScriptedModel) enqueue(resp Response, err error) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scriptEntry{resp: resp, err: err})
	return m
}

// Calls reports how many times Generate has been invoked.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Generate implements Model; pops the next script entry, optionally emitting
// rune-level partial chunks first when streaming is requested.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	m.mu.Lock()
	m.calls++
	var entry scriptEntry
	switch {
	case len(m.script) > 0:
		entry = m.script[0]
		if !m.loop || len(m.script) > 1 {
			m.script = m.script[1:]
		}
	default:
		entry = scriptEntry{err: fmt.Errorf("scripted model: script exhausted after %d calls", m.calls)}
	}
	m.mu.Unlock()

	go func() {
		defer close(respCh)
		defer close(errCh)

		if entry.err != nil {
			errCh <- entry.err
			return
		}

		if req.Stream {
			for _, r := range entry.resp.Content.Text() {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{
					Partial: true,
					Content: core.NewAssistantMessage(string(r)),
				}:
				}
			}
		}

		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case respCh <- entry.resp:
		}
	}()

	return respCh, errCh
}

// Info implements Model.
func (m *ScriptedModel) Info() Info { return m.info }
