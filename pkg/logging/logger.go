package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"nanonav/pkg/config"
	"nanonav/pkg/model"
)

// RequestLogger is the logger instance for HTTP requests.
var RequestLogger *slog.Logger

// eventLog is the writer for the human-readable event log.
var eventLog *lumberjack.Logger

// eventLogMu protects concurrent writes to the event log.
var eventLogMu sync.Mutex

// Init initializes the logging system based on configuration.
// It returns a cleanup function to close log files.
func Init(cfg *config.LogConfig) (func(), error) {
	var closers []io.Closer

	// 1. Setup Server Logger (Stdout + File)
	serverFile, err := openRotated(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to setup server logger: %w", err)
	}
	closers = append(closers, serverFile)
	slog.SetDefault(slog.New(setupHandler(serverFile, cfg.Server.Level, true)))

	// 2. Setup Requests Logger (File Only)
	requestFile, err := openRotated(cfg.Requests)
	if err != nil {
		serverFile.Close()
		return nil, fmt.Errorf("failed to setup requests logger: %w", err)
	}
	closers = append(closers, requestFile)
	RequestLogger = slog.New(setupHandler(requestFile, cfg.Requests.Level, false))

	EnableTrace = cfg.Trace

	// 3. Event log
	if err := SetEventLog(cfg.Events); err != nil {
		for _, c := range closers {
			c.Close()
		}
		return nil, fmt.Errorf("failed to setup event log: %w", err)
	}

	return func() {
		for _, c := range closers {
			c.Close()
		}
		SetEventLog(config.LogSettings{})
	}, nil
}

// openRotated creates the log writer and moves any previous file aside so
// every run starts with a fresh log.
func openRotated(s config.LogSettings) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return nil, err
	}
	w := &lumberjack.Logger{
		Filename:   s.Path,
		MaxSize:    s.MaxSizeMB,
		MaxBackups: 3,
	}
	if fi, err := os.Stat(s.Path); err == nil && fi.Size() > 0 {
		if err := w.Rotate(); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// ParseLevel maps a config level name to a slog level, defaulting to INFO.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupHandler(w io.Writer, levelStr string, stdout bool) slog.Handler {
	level := ParseLevel(levelStr)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}
	fileHandler := slog.NewTextHandler(w, opts)

	if !stdout {
		return fileHandler
	}

	// Console Handler - only INFO and up
	consoleOpts := &slog.HandlerOptions{
		Level: mathMaxLevel(level, slog.LevelInfo),
	}
	consoleHandler := slog.NewTextHandler(os.Stdout, consoleOpts)

	// Capture Handler - last line for the overlay (INFO+)
	captureHandler := slog.NewTextHandler(GlobalLogCapture, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return &multiHandler{handlers: []slog.Handler{fileHandler, consoleHandler, captureHandler}}
}

func mathMaxLevel(a, b slog.Level) slog.Level {
	if a > b {
		return a
	}
	return b
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle implements slog.Handler
// nolint:gocritic // r must be passed by value to implement slog.Handler
func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// SetEventLog configures the event log file. An empty path disables it.
func SetEventLog(s config.LogSettings) error {
	eventLogMu.Lock()
	defer eventLogMu.Unlock()

	if eventLog != nil {
		eventLog.Close()
		eventLog = nil
	}
	if s.Path == "" {
		return nil
	}

	w, err := openRotated(s)
	if err != nil {
		return err
	}
	eventLog = w
	return nil
}

// LogEvent writes a navigation event to the event log file.
func LogEvent(event *model.NavEvent) {
	line := formatEvent(event)

	eventLogMu.Lock()
	defer eventLogMu.Unlock()

	// Also capture for the overlay
	_, _ = GlobalEventCapture.Write([]byte(line))

	if eventLog == nil {
		return
	}
	if _, err := eventLog.Write([]byte(line + "\n")); err != nil {
		slog.Error("failed to write event log", "error", err)
	}
}

// Format: [2006-01-02 15:04:05] [type] Title - Summary
func formatEvent(event *model.NavEvent) string {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	line := fmt.Sprintf("[%s] [%s] %s", ts.Format("2006-01-02 15:04:05"), event.Type, event.Title())
	if s := event.Summary(); s != "" {
		line += " - " + s
	}
	return line
}
