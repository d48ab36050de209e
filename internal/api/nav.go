package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"nanonav/pkg/core"
	"nanonav/pkg/nav"
	"nanonav/pkg/site"
	"nanonav/pkg/sim"
)

// Navigation is the navigator surface exposed over HTTP.
type Navigation interface {
	nav.View
	Catalog() *site.Catalog
	SetDestinationByName(name string) error
	SelectNextAirfield() *site.Airfield
	Reset()
}

// VesselSource provides the last known vessel sample.
type VesselSource interface {
	Latest() *sim.Telemetry
}

// NavHandler handles destination selection and exposes the navigation output.
type NavHandler struct {
	nav    Navigation
	vessel VesselSource
	rec    core.EventRecorder
}

// NewNavHandler creates a NavHandler. The recorder is optional.
func NewNavHandler(n Navigation, vessel VesselSource, rec core.EventRecorder) *NavHandler {
	return &NavHandler{nav: n, vessel: vessel, rec: rec}
}

type destinationRequest struct {
	Airfield string `json:"airfield"`
}

// HandleSnapshot returns the current navigation snapshot.
// GET /api/nav
func (h *NavHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	h.writeSnapshot(w)
}

// HandleAirfields returns the catalog as a GeoJSON FeatureCollection.
// GET /api/nav/airfields
func (h *NavHandler) HandleAirfields(w http.ResponseWriter, r *http.Request) {
	fc := h.nav.Catalog().GeoJSON()
	w.Header().Set("Content-Type", "application/geo+json")
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		slog.Error("Failed to encode airfields response", "error", err)
	}
}

// HandleNext cycles to the next airfield in the catalog.
// POST /api/nav/next
func (h *NavHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	h.nav.SelectNextAirfield()
	h.destinationChanged(r.Context())
	h.writeSnapshot(w)
}

// HandleDestination selects an airfield by name. An empty name clears the destination.
// POST /api/nav/destination
func (h *NavHandler) HandleDestination(w http.ResponseWriter, r *http.Request) {
	var req destinationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.nav.SetDestinationByName(req.Airfield); err != nil {
		if errors.Is(err, nav.ErrUnknownAirfield) {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.destinationChanged(r.Context())
	h.writeSnapshot(w)
}

// HandleReset clears the destination.
// POST /api/nav/reset
func (h *NavHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.nav.Reset()
	h.destinationChanged(r.Context())
	h.writeSnapshot(w)
}

// destinationChanged records the selection in the event log.
func (h *NavHandler) destinationChanged(ctx context.Context) {
	if h.rec == nil {
		return
	}
	var t *sim.Telemetry
	if h.vessel != nil {
		t = h.vessel.Latest()
	}
	if err := h.rec.Record(ctx, core.DestinationEvent(h.nav.Snapshot(), t)); err != nil {
		slog.Warn("NavHandler: failed to record destination event", "error", err)
	}
}

func (h *NavHandler) writeSnapshot(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.nav.Snapshot()); err != nil {
		slog.Error("Failed to encode navigation response", "error", err)
	}
}
