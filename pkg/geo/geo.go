// Package geo provides spherical geodesy helpers for navigating over a
// celestial body surface.
package geo

import (
	"math"
)

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// Point represents a geographic coordinate in degrees.
// Values outside the usual ranges are accepted as-is.
type Point struct {
	Lat float64
	Lon float64
}

// IsFinite reports whether both components are usable numbers.
func (p Point) IsFinite() bool {
	return isFinite(p.Lat) && isFinite(p.Lon)
}

// Body is a sphere used for distance calculations.
type Body struct {
	Name   string
	Radius float64 // meters
}

// Kerbin is the default body: mean radius 600 km.
var Kerbin = Body{Name: "Kerbin", Radius: 600000}

// Distance calculates the Haversine distance between two points in meters on Kerbin.
func Distance(p1, p2 Point) float64 {
	return Kerbin.Distance(p1, p2)
}

// Distance calculates the Haversine distance between two points in meters.
func (b Body) Distance(p1, p2 Point) float64 {
	if !p1.IsFinite() || !p2.IsFinite() {
		return math.Inf(1)
	}
	dLat := (p2.Lat - p1.Lat) * degToRad
	dLon := (p2.Lon - p1.Lon) * degToRad
	lat1 := p1.Lat * degToRad
	lat2 := p2.Lat * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	// rounding can push a just outside [0,1] near antipodes
	a = math.Max(0, math.Min(1, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return b.Radius * c
}

// DestinationPoint calculates the destination point from a start point, given distance (in meters) and bearing (in degrees).
func (b Body) DestinationPoint(start Point, distMeters, bearing float64) Point {
	R := b.Radius
	lat1 := start.Lat * degToRad
	lon1 := start.Lon * degToRad
	brng := bearing * degToRad

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(distMeters/R) +
		math.Cos(lat1)*math.Sin(distMeters/R)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(math.Sin(brng)*math.Sin(distMeters/R)*math.Cos(lat1),
		math.Cos(distMeters/R)-math.Sin(lat1)*math.Sin(lat2))

	return Point{
		Lat: lat2 * radToDeg,
		Lon: lon2 * radToDeg,
	}
}

// Bearing calculates the initial bearing (forward azimuth) from p1 to p2 in degrees [0,360).
// The bearing between coincident points is undefined and reported as 0.
func Bearing(p1, p2 Point) float64 {
	if !p1.IsFinite() || !p2.IsFinite() {
		return 0
	}
	lat1 := p1.Lat * degToRad
	lat2 := p2.Lat * degToRad
	dLon := (p2.Lon - p1.Lon) * degToRad

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := math.Atan2(y, x)

	return NormalizeHeading(brng * radToDeg)
}

// NormalizeHeading maps any finite angle into [0,360).
func NormalizeHeading(h float64) float64 {
	if !isFinite(h) {
		return 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	// -1e-17 + 360 rounds to 360
	if h >= 360 {
		h = 0
	}
	return h
}

// AngularDeviation returns the signed difference actual-reference in (-180,180].
func AngularDeviation(actual, reference float64) float64 {
	if !isFinite(actual) || !isFinite(reference) {
		return 0
	}
	d := math.Mod(actual-reference, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}

// HeadingDifference returns the unsigned circular distance between two headings in [0,180].
func HeadingDifference(a, b float64) float64 {
	return math.Abs(AngularDeviation(a, b))
}

// OppositeHeading returns the reciprocal of h in [0,360).
func OppositeHeading(h float64) float64 {
	return NormalizeHeading(h + 180)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
