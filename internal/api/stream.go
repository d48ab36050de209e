package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"nanonav/pkg/nav"
)

const (
	defaultStreamInterval = 100 * time.Millisecond
	streamWriteWait       = 2 * time.Second
)

// StreamHandler pushes navigation snapshots to gauge clients over a websocket.
// A snapshot is sent on connect and whenever the published one changes.
type StreamHandler struct {
	view     nav.View
	interval time.Duration
	upgrader websocket.Upgrader
}

// NewStreamHandler creates a StreamHandler polling view every interval.
func NewStreamHandler(view nav.View, interval time.Duration) *StreamHandler {
	if interval <= 0 {
		interval = defaultStreamInterval
	}
	return &StreamHandler{
		view:     view,
		interval: interval,
		upgrader: websocket.Upgrader{EnableCompression: false},
	}
}

// ServeHTTP upgrades the connection and streams until the client leaves.
// GET /api/nav/stream
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Stream: unable to upgrade websocket", "error", err)
		return
	}
	defer conn.Close()

	slog.Debug("Stream: gauge connected", "remote", r.RemoteAddr)

	// Gauges never send; reading is only needed to notice the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	last := h.view.Snapshot()
	if !h.send(conn, last) {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-gone:
			slog.Debug("Stream: gauge disconnected", "remote", r.RemoteAddr)
			return
		case <-ticker.C:
			s := h.view.Snapshot()
			if s == last {
				continue
			}
			last = s
			if !h.send(conn, s) {
				return
			}
		}
	}
}

func (h *StreamHandler) send(conn *websocket.Conn, s nav.Snapshot) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := conn.WriteJSON(s); err != nil {
		slog.Debug("Stream: write failed", "error", err)
		return false
	}
	return true
}
