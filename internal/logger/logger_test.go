package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New("debug", FormatJSON, buf)

	log.Debug().Str("request_id", "rid-1").Msg("listing customers")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "listing customers", entry["message"])
	assert.Equal(t, "rid-1", entry["request_id"])
	assert.Equal(t, "engagesphere-api", entry["service"])
	assert.Contains(t, entry, "time")
}

func TestNew_Levels(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
		"WARN":    zerolog.WarnLevel,
		" error ": zerolog.ErrorLevel,
		"trace":   zerolog.TraceLevel,
	}
	for input, want := range tests {
		assert.Equal(t, want, New(input, FormatJSON, &bytes.Buffer{}).GetLevel(), "level %q", input)
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New("warn", FormatJSON, buf)

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_Console(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New("info", "Console", buf)

	log.Info().Int("status", 200).Msg("request completed")

	out := buf.String()
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "status=")
	assert.Contains(t, out, "200")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "console output must not be JSON")
}
