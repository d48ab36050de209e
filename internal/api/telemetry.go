package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"nanonav/pkg/sim"
)

// TelemetryResponse is the API response structure.
type TelemetryResponse struct {
	sim.Telemetry
	SimState string `json:"SimState"`
}

type TelemetryHandler struct {
	mu        sync.RWMutex
	telemetry sim.Telemetry
	seen      bool
	simState  sim.State
}

func NewTelemetryHandler() *TelemetryHandler {
	return &TelemetryHandler{simState: sim.StateDisconnected}
}

// Update implements core.TelemetrySink.
func (h *TelemetryHandler) Update(t *sim.Telemetry) {
	if t == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.telemetry = *t
	h.seen = true
}

// UpdateState updates the simulator state.
func (h *TelemetryHandler) UpdateState(s sim.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.simState = s
}

// Latest returns a copy of the last vessel sample, or nil before the first one.
func (h *TelemetryHandler) Latest() *sim.Telemetry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.seen {
		return nil
	}
	t := h.telemetry
	return &t
}

func (h *TelemetryHandler) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	resp := TelemetryResponse{
		Telemetry: h.telemetry,
		SimState:  string(h.simState),
	}
	h.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode telemetry response", "error", err)
	}
}
