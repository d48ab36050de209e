package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"nanonav/pkg/model"
	"nanonav/pkg/store"
)

const maxEventLimit = 500

// EventsHandler serves the navigation event log.
type EventsHandler struct {
	store store.NavEventStore
}

// NewEventsHandler creates a new EventsHandler. Returns nil if the store is missing.
func NewEventsHandler(st store.NavEventStore) *EventsHandler {
	if st == nil {
		return nil
	}
	return &EventsHandler{store: st}
}

// HandleEvents returns the most recent events, newest first.
// GET /api/nav/events?limit=N
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultEventLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSONError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxEventLimit)
	}

	events, err := h.store.RecentNavEvents(r.Context(), limit)
	if err != nil {
		slog.Error("EventsHandler: failed to load events", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	if events == nil {
		events = []*model.NavEvent{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(events); err != nil {
		slog.Error("Failed to encode events response", "error", err)
	}
}
