package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"Warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"trace":   zerolog.TraceLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(&buf, "info", false), "wave")

	log.Debug().Msg("hidden")
	log.Info().Int("wave", 2).Msg("wave started")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "wave started", entry["message"])
	assert.Equal(t, "wave", entry["component"])
	assert.Equal(t, float64(2), entry["wave"])
	assert.Contains(t, entry, "time")
}

func TestNew_ConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", true)
	log.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}
