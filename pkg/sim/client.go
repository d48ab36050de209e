package sim

import (
	"context"
	"errors"

	"nanonav/pkg/geo"
)

var (
	// ErrNotConnected is returned when a client action requires a connection.
	ErrNotConnected = errors.New("simulator not connected")
)

// Client defines the interface for reading the active vessel from the game.
type Client interface {
	// GetTelemetry returns the current state of the active vessel.
	GetTelemetry(ctx context.Context) (Telemetry, error)
	// GetState returns the current simulator connection/activity state.
	GetState() State
	// Close cleans up resources associated with the client.
	Close() error
}

// Telemetry represents a snapshot of the active vessel.
type Telemetry struct {
	Latitude      float64 // Degrees
	Longitude     float64 // Degrees
	AltitudeMSL   float64 // Meters above sea level
	AltitudeAGL   float64 // Meters above terrain
	Heading       float64 // Degrees
	Track         float64 // Ground track, degrees
	GroundSpeed   float64 // m/s
	VerticalSpeed float64 // m/s
	IsOnGround    bool
}

// Position returns the vessel coordinate.
func (t *Telemetry) Position() geo.Point {
	return geo.Point{Lat: t.Latitude, Lon: t.Longitude}
}
