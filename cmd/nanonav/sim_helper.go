package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"nanonav/pkg/config"
	"nanonav/pkg/geo"
	"nanonav/pkg/sim"
	"nanonav/pkg/sim/mocksim"
)

func initializeSimClient(cfg *config.Config, body geo.Body) sim.Client {
	if strings.EqualFold(cfg.Sim.Provider, "none") {
		slog.Info("Sim Source: None")
		return disconnectedClient{}
	}

	m := cfg.Sim.Mock
	slog.Info("Sim Source: Mock", "lat", m.StartLat, "lon", m.StartLon, "alt", m.StartAlt)
	return mocksim.NewClient(mocksim.Config{
		Body:            body,
		StartLat:        m.StartLat,
		StartLon:        m.StartLon,
		StartAlt:        m.StartAlt,
		StartHeading:    m.StartHeading,
		GroundSpeed:     m.GroundSpeed,
		DescentAngle:    m.DescentAngle,
		GroundElevation: m.GroundElevation,
		Delay:           time.Duration(m.Delay),
	})
}

// disconnectedClient serves the API without a vessel, e.g. to edit the
// destination before a flight.
type disconnectedClient struct{}

func (disconnectedClient) GetTelemetry(ctx context.Context) (sim.Telemetry, error) {
	return sim.Telemetry{}, sim.ErrNotConnected
}

func (disconnectedClient) GetState() sim.State { return sim.StateDisconnected }

func (disconnectedClient) Close() error { return nil }
