package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel_TableDriven(t *testing.T) {
	tests := []struct {
		input  string
		expect slog.Level
	}{
		{input: "debug", expect: slog.LevelDebug},
		{input: " WARN ", expect: slog.LevelWarn},
		{input: "warning", expect: slog.LevelWarn},
		{input: "error", expect: slog.LevelError},
		{input: "", expect: slog.LevelInfo},
		{input: "verbose", expect: slog.LevelInfo},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expect, parseLevel(tc.input))
		})
	}
}

func TestNewJSONLogger_WritesUTCRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, "warn")

	logger.Info("dropped")
	logger.Warn("encoder reloaded", "strategy", "argon2")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "encoder reloaded", record["msg"])
	assert.Equal(t, "argon2", record["strategy"])
	assert.Equal(t, "passhash", record["service"])
	assert.Regexp(t, `Z$`, record["time"])
}
