package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanonav/pkg/tracker"
)

func TestStatsHandler(t *testing.T) {
	tr := tracker.New()
	tr.TrackRecorded("beam_captured")
	tr.TrackFailed("touchdown")
	h := NewStatsHandler(tr, "session-1")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.Equal(t, "session-1", resp.Session)
	assert.Equal(t, EventStatsDTO{Recorded: 1}, resp.Events["beam_captured"])
	assert.Equal(t, EventStatsDTO{Failed: 1}, resp.Events["touchdown"])
	require.Len(t, resp.Diagnostics, 1)
	assert.Equal(t, "Server", resp.Diagnostics[0].Name)
	assert.Positive(t, resp.Diagnostics[0].Goroutines)
	assert.GreaterOrEqual(t, resp.Diagnostics[0].MemoryMaxMB, resp.Diagnostics[0].MemoryMB)
}
