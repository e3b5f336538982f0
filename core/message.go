package core

import "strings"

// Part represents a polymorphic segment of role-based message content.
// Concrete part types implement the unexported isPart marker enabling a
// closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text string
}

func (TextPart) isPart() {}

// ToolCall describes a tool invocation requested by the model.
type ToolCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"` // Serialized JSON argument payload
}

// ToolCallPart wraps a ToolCall as a content part.
type ToolCallPart struct {
	Call ToolCall
}

func (ToolCallPart) isPart() {}

// ToolResult describes the outcome of a tool call. Exactly one result is
// produced per requested call, success or not.
type ToolResult struct {
	CallID  string `json:"call_id,omitempty"` // Matches the originating ToolCall ID
	Name    string `json:"name"`
	Content string `json:"content"`         // Serialized output or error text
	IsError bool   `json:"error,omitempty"` // True when Content carries an error message
}

// ToolResultPart wraps a ToolResult as a content part.
type ToolResultPart struct {
	Result ToolResult
}

func (ToolResultPart) isPart() {}

// Message holds a conversational role plus ordered parts. It is the working
// unit exchanged with the generative model inside one loop invocation.
type Message struct {
	Role  string `json:"role"` // system, user, assistant, tool
	Parts []Part `json:"parts"`
}

// NewSystemMessage creates a system message with a single text part.
func NewSystemMessage(text string) Message {
	return Message{Role: "system", Parts: []Part{TextPart{Text: text}}}
}

// NewUserMessage creates a user message with a single text part.
func NewUserMessage(text string) Message {
	return Message{Role: "user", Parts: []Part{TextPart{Text: text}}}
}

// NewAssistantMessage creates an assistant message with a single text part.
func NewAssistantMessage(text string) Message {
	return Message{Role: "assistant", Parts: []Part{TextPart{Text: text}}}
}

// NewToolResultMessage records the completion result (or error) of a tool call.
func NewToolResultMessage(result ToolResult) Message {
	return Message{Role: "tool", Parts: []Part{ToolResultPart{Result: result}}}
}

// Text concatenates all text parts preserving their original order.
func (m Message) Text() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			b.WriteString(tp.Text)
		}
	}
	return b.String()
}

// ToolCalls returns any tool call parts contained within the message
// preserving their original order.
func (m Message) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, p := range m.Parts {
		if tc, ok := p.(ToolCallPart); ok {
			calls = append(calls, tc.Call)
		}
	}
	return calls
}

// ToolResults returns any tool result parts contained within the message
// preserving their original order.
func (m Message) ToolResults() []ToolResult {
	var results []ToolResult
	for _, p := range m.Parts {
		if tr, ok := p.(ToolResultPart); ok {
			results = append(results, tr.Result)
		}
	}
	return results
}
