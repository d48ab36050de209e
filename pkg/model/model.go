package model

import (
	"fmt"
	"strings"
	"time"
)

// NavEventType identifies what happened during a flight.
type NavEventType string

const (
	EventDestination  NavEventType = "destination"
	EventBeamCaptured NavEventType = "beam_captured"
	EventBeamLost     NavEventType = "beam_lost"
	EventTouchdown    NavEventType = "touchdown"
)

// NavEvent is a recorded navigation event.
type NavEvent struct {
	ID        string       `json:"id"`
	SessionID string       `json:"session_id"`
	Timestamp time.Time    `json:"timestamp"`
	Type      NavEventType `json:"type"`

	Airfield string `json:"airfield,omitempty"`
	Runway   string `json:"runway,omitempty"`

	// Vessel state at the time of the event
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	AltitudeMSL float64 `json:"altitude_msl"`
	GroundSpeed float64 `json:"ground_speed"`

	DistanceToRunway    *float64 `json:"distance_to_runway,omitempty"` // nil when unknown
	HorizontalDeviation float64  `json:"horizontal_deviation"`
	VerticalDeviation   float64  `json:"vertical_deviation"`
}

// Title returns a short human-readable headline for the event.
func (e *NavEvent) Title() string {
	switch e.Type {
	case EventDestination:
		if e.Airfield == "" {
			return "Destination cleared"
		}
		return "Destination " + e.Airfield
	case EventBeamCaptured:
		return fmt.Sprintf("Established on %s %s", e.Airfield, e.Runway)
	case EventBeamLost:
		return fmt.Sprintf("Left the beam of %s %s", e.Airfield, e.Runway)
	case EventTouchdown:
		if e.Runway == "" {
			return "Touchdown at " + e.Airfield
		}
		return fmt.Sprintf("Touchdown at %s %s", e.Airfield, e.Runway)
	}
	return string(e.Type)
}

// Summary describes the vessel state, e.g. "dist 1.2km hdev +0.4 vdev -0.1".
func (e *NavEvent) Summary() string {
	var parts []string
	if e.DistanceToRunway != nil {
		parts = append(parts, fmt.Sprintf("dist %.1fkm", *e.DistanceToRunway/1000))
	}
	if e.Runway != "" {
		parts = append(parts,
			fmt.Sprintf("hdev %+.1f", e.HorizontalDeviation),
			fmt.Sprintf("vdev %+.1f", e.VerticalDeviation))
	}
	if e.Type == EventTouchdown {
		parts = append(parts, fmt.Sprintf("gs %.1fm/s", e.GroundSpeed))
	}
	return strings.Join(parts, " ")
}
