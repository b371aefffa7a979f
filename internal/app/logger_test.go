package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("info", "json", &buf)

	logger.Debug("hidden")
	logger.Info("Target started.", "target", "app")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Target started.", record["msg"])
	assert.Equal(t, "app", record["target"])
}

func TestNewLogger_FansOutToExtraHandlers(t *testing.T) {
	var console, extra bytes.Buffer
	logger := newLogger("warn", "text", &console, slog.NewJSONHandler(&extra, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Warn("Command failed.", "exit_code", 2)
	logger.Info("only the extra handler wants this")

	assert.Contains(t, console.String(), "Command failed.")
	assert.NotContains(t, console.String(), "only the extra")
	assert.Contains(t, extra.String(), `"exit_code":2`)
	assert.Contains(t, extra.String(), "only the extra handler wants this")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelWarn, parseLevel("bogus"))
}

func TestToJournalKey(t *testing.T) {
	assert.Equal(t, "EXIT_CODE", toJournalKey("exit_code"))
	assert.Equal(t, "RUN_IF_0", toJournalKey("run-if.0"))
}
