package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is returned when an airfield catalog fails validation.
var ErrInvalidCatalog = errors.New("invalid airfield catalog")

// RunwayEntry describes one landing direction of a runway strip.
// Pointer fields are optional; nil means "not configured".
type RunwayEntry struct {
	ID         string    `yaml:"id"`
	Lat        float64   `yaml:"lat"`
	Lon        float64   `yaml:"lon"`
	Elevation  float64   `yaml:"elevation"` // threshold elevation, meters MSL
	Heading    float64   `yaml:"heading"`
	ILSCone    *float64  `yaml:"ils_cone,omitempty"`
	ILSRange   *Distance `yaml:"ils_range,omitempty"`
	Glideslope *float64  `yaml:"glideslope,omitempty"`
}

// AirfieldEntry is a named strip with its two reciprocal runways.
// The first runway is primary and provides the airfield reference point.
type AirfieldEntry struct {
	Name    string        `yaml:"name"`
	Runways []RunwayEntry `yaml:"runways"`
}

type airfieldsFile struct {
	Airfields []AirfieldEntry `yaml:"airfields"`
}

// LoadAirfields loads the airfield catalog from a YAML file.
func LoadAirfields(path string) ([]AirfieldEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read airfield catalog: %w", err)
	}

	var f airfieldsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse airfield catalog: %w", err)
	}

	if err := ValidateAirfields(f.Airfields); err != nil {
		return nil, err
	}
	return f.Airfields, nil
}

// SaveAirfields writes a catalog in the format LoadAirfields reads.
func SaveAirfields(path string, entries []AirfieldEntry) error {
	data, err := yaml.Marshal(airfieldsFile{Airfields: entries})
	if err != nil {
		return fmt.Errorf("failed to marshal airfield catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write airfield catalog: %w", err)
	}
	return nil
}

// ValidateAirfields checks names, runway counts and value ranges.
func ValidateAirfields(entries []AirfieldEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: no airfields", ErrInvalidCatalog)
	}

	seen := make(map[string]bool, len(entries))
	for _, af := range entries {
		name := strings.TrimSpace(af.Name)
		if name == "" {
			return fmt.Errorf("%w: airfield without name", ErrInvalidCatalog)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("%w: duplicate airfield '%s'", ErrInvalidCatalog, name)
		}
		seen[key] = true

		if len(af.Runways) != 2 {
			return fmt.Errorf("%w: airfield '%s' must have exactly 2 runways, has %d", ErrInvalidCatalog, name, len(af.Runways))
		}
		for _, rwy := range af.Runways {
			if rwy.ID == "" {
				return fmt.Errorf("%w: airfield '%s' has a runway without id", ErrInvalidCatalog, name)
			}
			if rwy.Heading < 0 || rwy.Heading >= 360 {
				return fmt.Errorf("%w: runway '%s' at '%s' heading %v outside [0,360)", ErrInvalidCatalog, rwy.ID, name, rwy.Heading)
			}
			if rwy.ILSCone != nil && *rwy.ILSCone < 0 {
				return fmt.Errorf("%w: runway '%s' at '%s' has negative ils_cone", ErrInvalidCatalog, rwy.ID, name)
			}
			if rwy.ILSRange != nil && *rwy.ILSRange < 0 {
				return fmt.Errorf("%w: runway '%s' at '%s' has negative ils_range", ErrInvalidCatalog, rwy.ID, name)
			}
		}
	}
	return nil
}

// DefaultAirfields returns the built-in Kerbin catalog.
func DefaultAirfields() []AirfieldEntry {
	ils := func(cone, rangeM float64) (*float64, *Distance) {
		d := Distance(rangeM)
		return &cone, &d
	}
	slope := 2.5

	kscCone090, kscRange090 := ils(5.0, 25000)
	kscCone270, kscRange270 := ils(5.0, 25000)

	return []AirfieldEntry{
		{
			Name: "Space Center",
			Runways: []RunwayEntry{
				{ID: "RWY 090", Lat: -0.0486, Lon: -74.7130, Elevation: 65.75, Heading: 90, ILSCone: kscCone090, ILSRange: kscRange090},
				{ID: "RWY 270", Lat: -0.0501, Lon: -74.5039, Elevation: 65.75, Heading: 270, ILSCone: kscCone270, ILSRange: kscRange270},
			},
		},
		{
			Name: "Old Airfield",
			Runways: []RunwayEntry{
				{ID: "RWY 090", Lat: -1.5182, Lon: -71.9663, Elevation: 65.75, Heading: 90, Glideslope: &slope},
				{ID: "RWY 270", Lat: -1.5571, Lon: -71.8900, Elevation: 65.75, Heading: 270, Glideslope: &slope},
			},
		},
	}
}
