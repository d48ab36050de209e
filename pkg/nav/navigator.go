// Package nav computes ILS-style guidance toward a selected landing site.
package nav

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"nanonav/pkg/geo"
	"nanonav/pkg/logging"
	"nanonav/pkg/sim"
	"nanonav/pkg/site"
)

// DefaultProximity is the distance to the airfield (meters) inside which an
// in-beam vessel keeps its landing runway.
const DefaultProximity = 2000.0

const noAirfield = -1

// ErrUnknownAirfield is returned when a destination name is not in the catalog.
var ErrUnknownAirfield = errors.New("unknown airfield")

// View is the read-only side handed to gauges and the API.
type View interface {
	Snapshot() Snapshot
}

// Options configures a Navigator. Zero values select the defaults.
type Options struct {
	Body      geo.Body
	Proximity float64
	Logger    *slog.Logger
}

// Navigator owns the navigation state. Mutations (Update, destination
// selection, Reset) are serialized; readers get the last published Snapshot.
type Navigator struct {
	mu        sync.Mutex
	catalog   *site.Catalog
	body      geo.Body
	proximity float64
	logger    *slog.Logger

	index    int
	airfield *site.Airfield
	runway   *site.Runway
	vessel   *sim.Telemetry
	tick     uint64

	cur  Snapshot
	snap atomic.Pointer[Snapshot]
}

// New creates a navigator over an immutable catalog, starting with no destination.
func New(catalog *site.Catalog, opts Options) *Navigator {
	if opts.Body.Radius <= 0 {
		opts.Body = geo.Kerbin
	}
	if opts.Proximity <= 0 {
		opts.Proximity = DefaultProximity
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	n := &Navigator{
		catalog:   catalog,
		body:      opts.Body,
		proximity: opts.Proximity,
		logger:    opts.Logger,
		index:     noAirfield,
	}
	n.resetLocked()
	return n
}

// Catalog returns the airfield catalog the navigator selects from.
func (n *Navigator) Catalog() *site.Catalog {
	return n.catalog
}

// Snapshot returns the last published navigation output.
func (n *Navigator) Snapshot() Snapshot {
	return *n.snap.Load()
}

// DestinationAirfield returns the selected airfield or nil.
func (n *Navigator) DestinationAirfield() *site.Airfield {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.airfield
}

// LandingRunway returns the selected runway or nil.
func (n *Navigator) LandingRunway() *site.Runway {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.runway
}

// Reset clears the destination and publishes the unknown sentinels.
func (n *Navigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.logger.Info("Navigation reset")
	n.resetLocked()
}

func (n *Navigator) resetLocked() {
	n.index = noAirfield
	n.airfield = nil
	n.runway = nil
	n.cur = emptySnapshot()
	n.cur.Tick = n.tick
	n.publishLocked()
}

// SetDestinationAirfield selects af and recomputes immediately against the
// last seen vessel. A nil airfield clears the destination.
func (n *Navigator) SetDestinationAirfield(af *site.Airfield) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.setDestinationLocked(af)
}

func (n *Navigator) setDestinationLocked(af *site.Airfield) {
	if af == nil {
		n.logger.Info("Navigation airfield cleared")
		n.resetLocked()
		return
	}

	n.logger.Info("Navigation airfield set", "airfield", af.Name())
	n.index = n.catalog.IndexOf(af)
	n.airfield = af
	// runway and beam state belong to the previous destination
	n.runway = nil
	n.cur = emptySnapshot()
	n.cur.State = StateDestinationSet
	n.cur.Airfield = af.Name()
	n.cur.Tick = n.tick

	if n.vessel != nil {
		n.updateLocked(n.vessel)
		return
	}
	n.publishLocked()
}

// SetDestinationByName selects an airfield from the catalog by name.
// An empty name clears the destination.
func (n *Navigator) SetDestinationByName(name string) error {
	if strings.TrimSpace(name) == "" {
		n.SetDestinationAirfield(nil)
		return nil
	}
	af := n.catalog.Find(name)
	if af == nil {
		return fmt.Errorf("%w: %s", ErrUnknownAirfield, name)
	}
	n.SetDestinationAirfield(af)
	return nil
}

// SelectNextAirfield cycles through the catalog; after the last airfield
// comes "none", after "none" the first airfield.
func (n *Navigator) SelectNextAirfield() *site.Airfield {
	n.mu.Lock()
	defer n.mu.Unlock()

	next := n.index + 1
	if next >= n.catalog.Len() {
		next = noAirfield
	}
	if next == noAirfield {
		n.setDestinationLocked(nil)
		return nil
	}
	af := n.catalog.At(next)
	n.setDestinationLocked(af)
	return af
}

// Update advances the navigation state for one simulation tick.
// A nil vessel means no data is available and leaves the published state untouched.
func (n *Navigator) Update(t *sim.Telemetry) {
	if t == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	v := *t
	n.vessel = &v
	if n.airfield == nil {
		return
	}
	n.updateLocked(&v)
}

func (n *Navigator) updateLocked(t *sim.Telemetry) {
	pos := t.Position()
	s := n.cur
	n.tick++
	s.Tick = n.tick

	s.DistanceToAirfield = n.body.Distance(pos, n.airfield.Reference())
	s.BearingToAirfield = geo.Bearing(pos, n.airfield.Reference())

	// Keep the runway once established in the beam close to the field, so
	// bearing noise near the threshold cannot flip it.
	if n.runway == nil || s.DistanceToAirfield > n.proximity || !s.InBeam {
		rwy := n.airfield.GetLandingRunwayForBearing(s.BearingToAirfield)
		if rwy != n.runway {
			n.logger.Debug("Landing runway selected", "airfield", n.airfield.Name(), "runway", rwy.ID(), "bearing", s.BearingToAirfield)
		}
		n.runway = rwy
		s.ILS = rwy.HasILS()
	}

	if n.runway != nil {
		rwy := n.runway
		s.State = StateRunwaySelected
		s.Runway = rwy.ID()
		s.BearingToRunway = normalizeRunwayBearing(geo.Bearing(pos, rwy.Threshold()))
		s.DistanceToRunway = n.body.Distance(pos, rwy.Threshold())
		s.HorizontalDeviation = geo.AngularDeviation(s.BearingToRunway, rwy.Heading())
		s.VerticalDeviation = VerticalDeviation(t.AltitudeMSL, s.DistanceToRunway, rwy)

		cone := rwy.ILSCone()
		insideHorizontal := geo.InsideCone(s.BearingToRunway, rwy.Heading(), cone)
		insideVertical := geo.InsideCone(s.VerticalDeviation, 0, cone)
		s.InBeam = insideHorizontal && insideVertical && s.DistanceToRunway <= rwy.ILSRange()
	} else {
		s.State = StateDestinationSet
		s.Runway = ""
		s.BearingToRunway = 0
		s.DistanceToRunway = math.Inf(1)
		s.HorizontalDeviation = 0
		s.VerticalDeviation = 0
		s.InBeam = false
	}

	n.cur = s
	n.publishLocked()

	logging.Trace(n.logger, "Navigation update",
		"airfield", s.Airfield, "runway", s.Runway,
		"dist", s.DistanceToRunway, "brg", s.BearingToRunway,
		"hdev", s.HorizontalDeviation, "vdev", s.VerticalDeviation, "in_beam", s.InBeam)
}

func (n *Navigator) publishLocked() {
	s := n.cur
	n.snap.Store(&s)
}

// VerticalDeviation is the angle of the vessel above the threshold as seen
// from it, minus the runway glideslope. Positive means above the path.
func VerticalDeviation(altitude, distance float64, rwy *site.Runway) float64 {
	if math.IsNaN(altitude) || math.IsNaN(distance) {
		return 0
	}
	elevationAngle := math.Atan2(altitude-rwy.Elevation(), distance) * 180.0 / math.Pi
	return elevationAngle - rwy.Glideslope()
}

// normalizeRunwayBearing folds a negative bearing with 360-b, exactly as the
// gauges have always done. That is only meaningful on (-360,0); anything at
// or below -360 gets a full modulo and non-finite values become 0.
func normalizeRunwayBearing(b float64) float64 {
	switch {
	case math.IsNaN(b) || math.IsInf(b, 0):
		return 0
	case b <= -360:
		return geo.NormalizeHeading(b)
	case b < 0:
		return 360 - b
	}
	return b
}
