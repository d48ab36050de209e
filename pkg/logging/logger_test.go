package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanonav/pkg/config"
	"nanonav/pkg/model"
)

func TestInit(t *testing.T) {
	tempDir := t.TempDir()
	serverLog := filepath.Join(tempDir, "server.log")
	requestLog := filepath.Join(tempDir, "requests.log")
	eventLogPath := filepath.Join(tempDir, "events.log")

	// a previous run left a log behind
	require.NoError(t, os.WriteFile(serverLog, []byte("old run\n"), 0o644))

	cfg := &config.LogConfig{
		Server:   config.LogSettings{Path: serverLog, Level: "DEBUG", MaxSizeMB: 1},
		Requests: config.LogSettings{Path: requestLog, Level: "INFO", MaxSizeMB: 1},
		Events:   config.LogSettings{Path: eventLogPath},
	}

	cleanup, err := Init(cfg)
	require.NoError(t, err)
	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	slog.Info("fresh run")
	RequestLogger.Info("GET /api/nav")
	LogEvent(&model.NavEvent{Type: model.EventDestination, Airfield: "Space Center"})
	cleanup()

	data, err := os.ReadFile(serverLog)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fresh run")
	assert.NotContains(t, string(data), "old run")

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	var backups int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "server-") {
			backups++
		}
	}
	assert.Equal(t, 1, backups, "previous server log is kept as a backup")

	data, err = os.ReadFile(requestLog)
	require.NoError(t, err)
	assert.Contains(t, string(data), "GET /api/nav")

	data, err = os.ReadFile(eventLogPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[destination] Destination Space Center")

	assert.Contains(t, GlobalLogCapture.LastLine(), "fresh run")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestSetupHandler_ConsoleCap(t *testing.T) {
	var buf bytes.Buffer
	h := setupHandler(&buf, "DEBUG", true)

	logger := slog.New(h)
	logger.Debug("detail")
	assert.Contains(t, buf.String(), "detail")
	assert.NotContains(t, GlobalLogCapture.LastLine(), "detail")
}

func TestMultiHandler_WithAttrs(t *testing.T) {
	var a, b bytes.Buffer
	m := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}}

	logger := slog.New(m).With("component", "nav")
	logger.Info("hello")

	assert.Contains(t, a.String(), "component=nav")
	assert.Empty(t, b.String())
	assert.True(t, m.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, m.Enabled(context.Background(), slog.LevelDebug))
}

func TestLogEvent_WithoutFile(t *testing.T) {
	require.NoError(t, SetEventLog(config.LogSettings{}))

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := 5200.0
	LogEvent(&model.NavEvent{
		Timestamp: ts, Type: model.EventBeamCaptured,
		Airfield: "Space Center", Runway: "RWY 090", DistanceToRunway: &d,
	})

	assert.Equal(t,
		"[2026-03-01 12:00:00] [beam_captured] Established on Space Center RWY 090 - dist 5.2km hdev +0.0 vdev +0.0",
		GlobalEventCapture.LastLine())
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	EnableTrace = false
	Trace(logger, "hidden")
	assert.Empty(t, buf.String())

	EnableTrace = true
	defer func() { EnableTrace = false }()
	Trace(logger, "shown")
	assert.Contains(t, buf.String(), "shown")
}
