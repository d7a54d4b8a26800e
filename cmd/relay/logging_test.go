package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bananamirror/relay"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		env  relay.Environment
		name string
		want slog.Level
	}{
		{relay.EnvProduction, "", slog.LevelInfo},
		{relay.EnvDevelopment, "", slog.LevelDebug},
		{relay.EnvProduction, "debug", slog.LevelDebug},
		{relay.EnvDevelopment, "WARN", slog.LevelWarn},
		{relay.EnvProduction, "error", slog.LevelError},
		{relay.EnvProduction, "loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.env)+"/"+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logLevel(tt.env, tt.name))
		})
	}
}

func TestLogHandler_ProductionJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logHandler(&buf, relay.EnvProduction, slog.LevelInfo))

	logger.Debug("hidden")
	logger.WithGroup("req").Info("request rejected", "time", "client supplied")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request rejected", line["msg"])
	assert.NotContains(t, line, "time")
	assert.Equal(t, map[string]any{"time": "client supplied"}, line["req"])

	ts, ok := line["ts"].(string)
	require.True(t, ok)
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Location())
}
