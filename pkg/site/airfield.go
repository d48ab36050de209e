package site

import (
	"errors"
	"fmt"

	"nanonav/pkg/geo"
)

// reciprocalTolerance is how far (degrees) two runway headings may be from
// exactly opposite and still describe the same strip.
const reciprocalTolerance = 10.0

// ErrNotReciprocal is returned when two runways do not point in opposite directions.
var ErrNotReciprocal = errors.New("runways are not reciprocal")

// Airfield is a named strip with two reciprocal landing directions.
type Airfield struct {
	name    string
	runways [2]*Runway
}

// NewAirfield builds an airfield from its primary and reciprocal runway.
func NewAirfield(name string, primary, reciprocal *Runway) (*Airfield, error) {
	if primary == nil || reciprocal == nil {
		return nil, fmt.Errorf("airfield '%s': both runways are required", name)
	}
	off := geo.HeadingDifference(primary.Heading(), geo.OppositeHeading(reciprocal.Heading()))
	if off > reciprocalTolerance {
		return nil, fmt.Errorf("airfield '%s' %s/%s: %w", name, primary.ID(), reciprocal.ID(), ErrNotReciprocal)
	}
	return &Airfield{name: name, runways: [2]*Runway{primary, reciprocal}}, nil
}

// Name returns the airfield name.
func (a *Airfield) Name() string { return a.name }

// Runways returns both runways, primary first.
func (a *Airfield) Runways() [2]*Runway { return a.runways }

// Primary returns the first configured runway.
func (a *Airfield) Primary() *Runway { return a.runways[0] }

// Reference is the point distances and bearings to the airfield are measured to.
func (a *Airfield) Reference() geo.Point {
	return a.runways[0].Threshold()
}

// GetLandingRunwayForBearing picks the runway a vessel flying toward the
// field on the given bearing would land on: the one whose landing course is
// circularly closest to the bearing. Ties go to the primary runway.
func (a *Airfield) GetLandingRunwayForBearing(bearing float64) *Runway {
	d0 := geo.HeadingDifference(bearing, a.runways[0].Heading())
	d1 := geo.HeadingDifference(bearing, a.runways[1].Heading())
	if d1 < d0 {
		return a.runways[1]
	}
	return a.runways[0]
}

// Runway looks up a runway by designator.
func (a *Airfield) Runway(id string) *Runway {
	for _, r := range a.runways {
		if r.ID() == id {
			return r
		}
	}
	return nil
}

func (a *Airfield) String() string {
	return a.name
}
