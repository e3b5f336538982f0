package core

import (
	"fmt"

	"github.com/fableforge/fableforge/logging"
)

// EventSink is a best-effort observer of session activity. Implementations
// are invoked synchronously from the exchange path; panics raised inside a
// sink callback are caught and logged by the notifier and never abort an
// exchange.
type EventSink interface {
	TurnStarted(sessionID string, turn Turn)
	TurnEnded(sessionID string, turn Turn)
	ToolCalled(sessionID string, call ToolCall, result ToolResult)
	StreamChunk(sessionID string, chunk string)
	CombatStarted(sessionID string)
	CombatEnded(sessionID string)
	Error(sessionID string, err error)
}

// NoOpSink discards all events. Embed it to implement only the callbacks you
// care about.
type NoOpSink struct{}

// TurnStarted implements EventSink.
func (NoOpSink) TurnStarted(string, Turn) {}

// TurnEnded implements EventSink.
func (NoOpSink) TurnEnded(string, Turn) {}

// ToolCalled implements EventSink.
func (NoOpSink) ToolCalled(string, ToolCall, ToolResult) {}

// StreamChunk implements EventSink.
func (NoOpSink) StreamChunk(string, string) {}

// CombatStarted implements EventSink.
func (NoOpSink) CombatStarted(string) {}

// CombatEnded implements EventSink.
func (NoOpSink) CombatEnded(string) {}

// Error implements EventSink.
func (NoOpSink) Error(string, error) {}

// SinkNotifier wraps an EventSink so that observer panics are swallowed and
// logged instead of propagating into the orchestration loop.
type SinkNotifier struct {
	sink   EventSink
	logger logging.Logger
}

// NewSinkNotifier constructs a notifier with non-nil sink and logger.
func NewSinkNotifier(sink EventSink, logger logging.Logger) *SinkNotifier {
	if sink == nil {
		sink = NoOpSink{}
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &SinkNotifier{sink: sink, logger: logger}
}

func (n *SinkNotifier) notify(event string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn("sink.callback.panic", "event", event, "panic", fmt.Sprintf("%v", r))
		}
	}()
	fn()
}

// TurnStarted forwards to the sink.
func (n *SinkNotifier) TurnStarted(sessionID string, turn Turn) {
	n.notify("turn_started", func() { n.sink.TurnStarted(sessionID, turn) })
}

// TurnEnded forwards to the sink.
func (n *SinkNotifier) TurnEnded(sessionID string, turn Turn) {
	n.notify("turn_ended", func() { n.sink.TurnEnded(sessionID, turn) })
}

// ToolCalled forwards to the sink.
func (n *SinkNotifier) ToolCalled(sessionID string, call ToolCall, result ToolResult) {
	n.notify("tool_called", func() { n.sink.ToolCalled(sessionID, call, result) })
}

// StreamChunk forwards to the sink.
func (n *SinkNotifier) StreamChunk(sessionID, chunk string) {
	n.notify("stream_chunk", func() { n.sink.StreamChunk(sessionID, chunk) })
}

// CombatStarted forwards to the sink.
func (n *SinkNotifier) CombatStarted(sessionID string) {
	n.notify("combat_started", func() { n.sink.CombatStarted(sessionID) })
}

// CombatEnded forwards to the sink.
func (n *SinkNotifier) CombatEnded(sessionID string) {
	n.notify("combat_ended", func() { n.sink.CombatEnded(sessionID) })
}

// Error forwards to the sink.
func (n *SinkNotifier) Error(sessionID string, err error) {
	n.notify("error", func() { n.sink.Error(sessionID, err) })
}
