package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"time"

	"nanonav/pkg/tracker"
)

type StatsHandler struct {
	tracker *tracker.Tracker
	session string
	started time.Time

	mu     sync.Mutex
	maxMem uint64
}

func NewStatsHandler(t *tracker.Tracker, session string) *StatsHandler {
	return &StatsHandler{
		tracker: t,
		session: session,
		started: time.Now(),
	}
}

type EventStatsDTO struct {
	Recorded int64 `json:"recorded"`
	Failed   int64 `json:"failed"`
}

type ComponentStats struct {
	Name        string `json:"name"`
	MemoryMB    uint64 `json:"memory_mb"`
	MemoryMaxMB uint64 `json:"memory_max_mb"`
	Goroutines  int    `json:"goroutines"`
}

type StatsResponse struct {
	Session     string                   `json:"session"`
	UptimeSec   int64                    `json:"uptime_sec"`
	Diagnostics []ComponentStats         `json:"diagnostics"`
	Events      map[string]EventStatsDTO `json:"events"`
}

// ServeHTTP returns process diagnostics and the per-type event counters.
// GET /api/stats
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshot := h.tracker.Snapshot()

	h.mu.Lock()
	diagnostics := h.gatherDiagnostics()
	h.mu.Unlock()

	resp := StatsResponse{
		Session:     h.session,
		UptimeSec:   int64(time.Since(h.started).Seconds()),
		Diagnostics: diagnostics,
		Events:      make(map[string]EventStatsDTO, len(snapshot)),
	}
	for typ, s := range snapshot {
		resp.Events[typ] = EventStatsDTO{Recorded: s.Recorded, Failed: s.Failed}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *StatsHandler) gatherDiagnostics() []ComponentStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	if m.Sys > h.maxMem {
		h.maxMem = m.Sys
	}

	return []ComponentStats{{
		Name:        "Server",
		MemoryMB:    bToMb(m.Sys),
		MemoryMaxMB: bToMb(h.maxMem),
		Goroutines:  runtime.NumGoroutine(),
	}}
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
