package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nanonav/pkg/version"
)

// NewServer creates and configures the HTTP server.
// It accepts handlers for all API endpoints and a shutdownFunc for graceful shutdown.
func NewServer(addr string, tel *TelemetryHandler, navH *NavHandler, events *EventsHandler, stream *StreamHandler, stats *StatsHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health Endpoint
	mux.HandleFunc("GET /health", handleHealth)

	// 2. Telemetry Endpoint
	mux.HandleFunc("GET /api/telemetry", tel.handleTelemetry)

	// 2b. Version Endpoint
	mux.HandleFunc("GET /api/version", handleVersion)

	// 2c. Logs Endpoint
	mux.HandleFunc("GET /api/log/latest", handleLatestLog)

	// 2d. Navigation Endpoints
	mux.HandleFunc("GET /api/nav", navH.HandleSnapshot)
	mux.HandleFunc("GET /api/nav/airfields", navH.HandleAirfields)
	mux.HandleFunc("POST /api/nav/next", navH.HandleNext)
	mux.HandleFunc("POST /api/nav/destination", navH.HandleDestination)
	mux.HandleFunc("POST /api/nav/reset", navH.HandleReset)

	// 2e. Event Log Endpoint
	if events != nil {
		mux.HandleFunc("GET /api/nav/events", events.HandleEvents)
	}

	// 2f. Stats Endpoint
	if stats != nil {
		mux.Handle("GET /api/stats", stats)
	}

	// 2g. Gauge Stream
	if stream != nil {
		mux.Handle("GET /api/nav/stream", stream)
	}

	// 3. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	return &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout would cut long-lived stream connections
		IdleTimeout: 60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": %q, "build": %q}`, version.Version, version.String()); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := fmt.Fprintf(w, `{"error": %q}`, msg); err != nil {
		slog.Error("Failed to write error response", "error", err)
	}
}
