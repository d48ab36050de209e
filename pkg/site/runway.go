// Package site models landing sites: runways, airfields and the airfield catalog.
package site

import (
	"nanonav/pkg/geo"
)

// Defaults are the effective values of optional runway fields that were not configured.
type Defaults struct {
	ILSCone    float64 // degrees half-angle
	ILSRange   float64 // meters
	Glideslope float64 // degrees
}

// DefaultDefaults mirrors the nav.defaults section of the default config.
var DefaultDefaults = Defaults{
	ILSCone:    5.0,
	ILSRange:   25000,
	Glideslope: 3.0,
}

// RunwaySpec describes a runway before construction. Pointer fields are
// optional: nil means not configured, which is distinct from zero.
type RunwaySpec struct {
	ID         string
	Threshold  geo.Point
	Elevation  float64 // meters MSL at the threshold
	Heading    float64 // degrees, the course flown on final
	ILSCone    *float64
	ILSRange   *float64
	Glideslope *float64
}

// Runway is one landing direction of a strip. It is immutable once built.
type Runway struct {
	id         string
	threshold  geo.Point
	elevation  float64
	heading    float64
	ilsCone    *float64
	ilsRange   *float64
	glideslope *float64
	defaults   Defaults
}

// NewRunway builds a runway. Optional values are copied out of s.
func NewRunway(s RunwaySpec, d Defaults) *Runway {
	return &Runway{
		id:         s.ID,
		threshold:  s.Threshold,
		elevation:  s.Elevation,
		heading:    geo.NormalizeHeading(s.Heading),
		ilsCone:    copyOpt(s.ILSCone),
		ilsRange:   copyOpt(s.ILSRange),
		glideslope: copyOpt(s.Glideslope),
		defaults:   d,
	}
}

func copyOpt(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// ID returns the runway designator, e.g. "RWY 090".
func (r *Runway) ID() string { return r.id }

// Threshold returns the threshold coordinate.
func (r *Runway) Threshold() geo.Point { return r.threshold }

// Elevation returns the threshold elevation in meters.
func (r *Runway) Elevation() float64 { return r.elevation }

// Heading returns the landing course in degrees [0,360).
func (r *Runway) Heading() float64 { return r.heading }

// HasILS reports whether both the ILS cone and range were configured.
func (r *Runway) HasILS() bool {
	return r.ilsCone != nil && r.ilsRange != nil
}

// ILSCone returns the beam half-angle in degrees.
func (r *Runway) ILSCone() float64 {
	if r.ilsCone == nil {
		return r.defaults.ILSCone
	}
	return *r.ilsCone
}

// ILSRange returns the beam range from the threshold in meters.
func (r *Runway) ILSRange() float64 {
	if r.ilsRange == nil {
		return r.defaults.ILSRange
	}
	return *r.ilsRange
}

// Glideslope returns the nominal descent angle in degrees.
func (r *Runway) Glideslope() float64 {
	if r.glideslope == nil {
		return r.defaults.Glideslope
	}
	return *r.glideslope
}

// GlideslopeConfigured reports whether the glideslope was set explicitly.
func (r *Runway) GlideslopeConfigured() bool {
	return r.glideslope != nil
}

func (r *Runway) String() string {
	return r.id
}
