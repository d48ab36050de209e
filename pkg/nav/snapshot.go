package nav

import (
	"encoding/json"
	"math"
)

// State is the navigator's externally visible state.
type State string

const (
	// StateNoDestination means no airfield is selected; all derived values are unknown.
	StateNoDestination State = "no_destination"
	// StateDestinationSet means an airfield is selected but no vessel data has
	// been seen yet to pick a runway.
	StateDestinationSet State = "destination_set"
	// StateRunwaySelected means an airfield and its landing runway are selected.
	StateRunwaySelected State = "runway_selected"
)

// Snapshot is the immutable navigation output published once per update.
// Unknown distances are +Inf; unknown bearings and deviations are 0.
type Snapshot struct {
	State               State
	Airfield            string
	Runway              string
	ILS                 bool
	DistanceToAirfield  float64 // meters
	DistanceToRunway    float64 // meters
	BearingToAirfield   float64 // degrees [0,360)
	BearingToRunway     float64 // degrees
	HorizontalDeviation float64 // degrees, signed
	VerticalDeviation   float64 // degrees, signed, positive above the glideslope
	InBeam              bool
	Tick                uint64
}

// HasDestination reports whether an airfield is selected.
func (s Snapshot) HasDestination() bool {
	return s.State != StateNoDestination
}

func emptySnapshot() Snapshot {
	return Snapshot{
		State:              StateNoDestination,
		DistanceToAirfield: math.Inf(1),
		DistanceToRunway:   math.Inf(1),
	}
}

type snapshotJSON struct {
	State               State    `json:"state"`
	Airfield            string   `json:"airfield,omitempty"`
	Runway              string   `json:"runway,omitempty"`
	ILS                 bool     `json:"ils"`
	DistanceToAirfield  *float64 `json:"distance_to_airfield"`
	DistanceToRunway    *float64 `json:"distance_to_runway"`
	BearingToAirfield   float64  `json:"bearing_to_airfield"`
	BearingToRunway     float64  `json:"bearing_to_runway"`
	HorizontalDeviation float64  `json:"horizontal_deviation"`
	VerticalDeviation   float64  `json:"vertical_deviation"`
	InBeam              bool     `json:"in_beam"`
	Tick                uint64   `json:"tick"`
}

// MarshalJSON encodes unknown (infinite) distances as null, which encoding/json cannot represent otherwise.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{
		State:               s.State,
		Airfield:            s.Airfield,
		Runway:              s.Runway,
		ILS:                 s.ILS,
		DistanceToAirfield:  finiteOrNil(s.DistanceToAirfield),
		DistanceToRunway:    finiteOrNil(s.DistanceToRunway),
		BearingToAirfield:   s.BearingToAirfield,
		BearingToRunway:     s.BearingToRunway,
		HorizontalDeviation: s.HorizontalDeviation,
		VerticalDeviation:   s.VerticalDeviation,
		InBeam:              s.InBeam,
		Tick:                s.Tick,
	})
}

// UnmarshalJSON restores null distances as +Inf.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Snapshot{
		State:               raw.State,
		Airfield:            raw.Airfield,
		Runway:              raw.Runway,
		ILS:                 raw.ILS,
		DistanceToAirfield:  infIfNil(raw.DistanceToAirfield),
		DistanceToRunway:    infIfNil(raw.DistanceToRunway),
		BearingToAirfield:   raw.BearingToAirfield,
		BearingToRunway:     raw.BearingToRunway,
		HorizontalDeviation: raw.HorizontalDeviation,
		VerticalDeviation:   raw.VerticalDeviation,
		InBeam:              raw.InBeam,
		Tick:                raw.Tick,
	}
	return nil
}

func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func infIfNil(v *float64) float64 {
	if v == nil {
		return math.Inf(1)
	}
	return *v
}
