package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var entry map[string]any
		require.NoError(t, dec.Decode(&entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestGameLogger_LevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LogLevelWarn, Format: "json", Output: &buf})

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["msg"])
}

func TestGameLogger_WithSessionAttachesSessionID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LogLevelInfo, Format: "json", Output: &buf})

	logger.WithSession("s-42").Info("turn.started")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "s-42", entries[0]["session_id"])
}

func TestGameLogger_LogToolCall(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LogLevelInfo, Format: "json", Output: &buf})

	logger.LogToolCall("roll_dice", 12*time.Millisecond, nil)
	logger.LogToolCall("look_entity", time.Millisecond, errors.New("no such entity"))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "tool.call.completed", entries[0]["msg"])
	assert.Equal(t, true, entries[0]["success"])
	assert.Equal(t, "tool.call.failed", entries[1]["msg"])
	assert.Equal(t, "no such entity", entries[1]["error"])
}

func TestGameLogger_LogModelCall(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LogLevelInfo, Format: "json", Output: &buf})

	logger.LogModelCall("gpt-4o", 80*time.Millisecond, nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "model.call.completed", entries[0]["msg"])
	assert.Equal(t, "gpt-4o", entries[0]["model"])
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(99).String())
}
