package site

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"nanonav/pkg/config"
	"nanonav/pkg/geo"
)

// Catalog is the ordered, immutable list of selectable airfields.
type Catalog struct {
	airfields []*Airfield
	byName    map[string]*Airfield
}

// NewCatalog builds a catalog preserving the given order.
func NewCatalog(airfields ...*Airfield) (*Catalog, error) {
	c := &Catalog{
		airfields: make([]*Airfield, 0, len(airfields)),
		byName:    make(map[string]*Airfield, len(airfields)),
	}
	for _, af := range airfields {
		if af == nil {
			return nil, fmt.Errorf("nil airfield in catalog")
		}
		key := strings.ToLower(af.Name())
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("duplicate airfield '%s'", af.Name())
		}
		c.byName[key] = af
		c.airfields = append(c.airfields, af)
	}
	return c, nil
}

// FromConfig converts validated catalog entries into a Catalog.
func FromConfig(entries []config.AirfieldEntry, d Defaults) (*Catalog, error) {
	if err := config.ValidateAirfields(entries); err != nil {
		return nil, err
	}

	airfields := make([]*Airfield, 0, len(entries))
	for _, e := range entries {
		primary := NewRunway(specFromEntry(e.Runways[0]), d)
		reciprocal := NewRunway(specFromEntry(e.Runways[1]), d)
		af, err := NewAirfield(e.Name, primary, reciprocal)
		if err != nil {
			return nil, err
		}
		airfields = append(airfields, af)
	}
	return NewCatalog(airfields...)
}

func specFromEntry(e config.RunwayEntry) RunwaySpec {
	s := RunwaySpec{
		ID:         e.ID,
		Threshold:  geo.Point{Lat: e.Lat, Lon: e.Lon},
		Elevation:  e.Elevation,
		Heading:    e.Heading,
		ILSCone:    e.ILSCone,
		Glideslope: e.Glideslope,
	}
	if e.ILSRange != nil {
		m := e.ILSRange.Meters()
		s.ILSRange = &m
	}
	return s
}

// DefaultCatalog returns the built-in Kerbin catalog.
func DefaultCatalog() *Catalog {
	c, err := FromConfig(config.DefaultAirfields(), DefaultDefaults)
	if err != nil {
		panic(fmt.Sprintf("built-in airfield catalog is invalid: %v", err))
	}
	return c
}

// Len returns the number of airfields.
func (c *Catalog) Len() int { return len(c.airfields) }

// At returns the airfield at index i in catalog order.
func (c *Catalog) At(i int) *Airfield { return c.airfields[i] }

// Airfields returns a copy of the airfield list.
func (c *Catalog) Airfields() []*Airfield {
	out := make([]*Airfield, len(c.airfields))
	copy(out, c.airfields)
	return out
}

// IndexOf returns the catalog position of af, or -1.
func (c *Catalog) IndexOf(af *Airfield) int {
	for i, a := range c.airfields {
		if a == af {
			return i
		}
	}
	return -1
}

// Find looks up an airfield by name, case-insensitively.
func (c *Catalog) Find(name string) *Airfield {
	return c.byName[strings.ToLower(strings.TrimSpace(name))]
}

// Centerline returns the strip as a line from the primary to the reciprocal threshold.
func (a *Airfield) Centerline() orb.LineString {
	r0, r1 := a.runways[0].Threshold(), a.runways[1].Threshold()
	return orb.LineString{
		{r0.Lon, r0.Lat},
		{r1.Lon, r1.Lat},
	}
}

// Bound returns the bounding box of the strip.
func (a *Airfield) Bound() orb.Bound {
	return a.Centerline().Bound()
}

// GeoJSON renders the catalog as a FeatureCollection: one LineString per strip
// with its bbox and one Point per runway threshold.
func (c *Catalog) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, af := range c.airfields {
		strip := geojson.NewFeature(af.Centerline())
		strip.BBox = geojson.NewBBox(af.Bound())
		strip.Properties["kind"] = "airfield"
		strip.Properties["name"] = af.Name()
		strip.Properties["index"] = i
		fc.Append(strip)

		for _, rwy := range af.Runways() {
			th := rwy.Threshold()
			f := geojson.NewFeature(orb.Point{th.Lon, th.Lat})
			f.Properties["kind"] = "runway"
			f.Properties["airfield"] = af.Name()
			f.Properties["id"] = rwy.ID()
			f.Properties["heading"] = rwy.Heading()
			f.Properties["elevation"] = rwy.Elevation()
			f.Properties["ils"] = rwy.HasILS()
			f.Properties["ils_cone"] = rwy.ILSCone()
			f.Properties["ils_range"] = rwy.ILSRange()
			f.Properties["glideslope"] = rwy.Glideslope()
			f.Properties["glideslope_configured"] = rwy.GlideslopeConfigured()
			fc.Append(f)
		}
	}
	return fc
}
