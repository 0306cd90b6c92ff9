package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/mwantia/goindex/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", Debug},
		{"INFO", Info},
		{" warn ", Warn},
		{"warning", Warn},
		{"Error", Error},
		{"fatal", Fatal},
		{"", Info},
		{"verbose", Info},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.input))
		})
	}
}

func TestLoggerService_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerServiceWithWriter("test", config.LogConfig{Level: "warn"}, &buf)

	logger.Debug("hidden %d", 1)
	logger.Info("hidden %d", 2)
	logger.Warn("shown %d", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 3")
	assert.Contains(t, out, "[test]")
}

func TestLoggerService_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerServiceWithWriter("goindex", config.LogConfig{Level: "debug", JSON: true}, &buf)

	logger.Named("scanner").Info("indexed %s", "a.pdf")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "goindex/scanner", entry.Service)
	assert.Equal(t, "indexed a.pdf", entry.Message)
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	assert.NotPanics(t, func() {
		logger.Error("nothing %s", "here")
		logger.Named("child").Warn("still nothing")
	})
}
