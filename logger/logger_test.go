package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), "level %q", tt.input)
	}
}

func TestTextFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := New(Config{Level: "info", Output: &buf})

	lg.Debug("hidden")
	lg.Info("phase change", "from", "grounded", "to", "airborne")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=\"phase change\" from=grounded to=airborne")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestInitJSONReplacesLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	L().Debug("tick", "n", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), buf.String())
	assert.Equal(t, "tick", rec["msg"])
	assert.Equal(t, float64(3), rec["n"])

	var buf2 bytes.Buffer
	Init(Config{Level: "error", Format: "text", Output: &buf2})
	L().Info("dropped")
	assert.Zero(t, buf2.Len(), "info is filtered at error level")
	assert.Same(t, L(), slog.Default())
}
