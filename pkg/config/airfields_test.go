package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAirfields(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr error
		check   func(*testing.T, []AirfieldEntry)
	}{
		{
			name: "Valid",
			content: `
airfields:
  - name: Test Strip
    runways:
      - id: RWY 180
        lat: 1.0
        lon: 2.0
        elevation: 100
        heading: 180
        ils_cone: 4
        ils_range: 20km
      - id: RWY 360
        lat: 0.98
        lon: 2.0
        heading: 0
        glideslope: 2.5
`,
			check: func(t *testing.T, entries []AirfieldEntry) {
				require.Len(t, entries, 1)
				rwys := entries[0].Runways
				require.Len(t, rwys, 2)
				require.NotNil(t, rwys[0].ILSCone)
				assert.Equal(t, 4.0, *rwys[0].ILSCone)
				require.NotNil(t, rwys[0].ILSRange)
				assert.Equal(t, 20000.0, rwys[0].ILSRange.Meters())
				assert.Nil(t, rwys[0].Glideslope)
				assert.Nil(t, rwys[1].ILSCone)
				require.NotNil(t, rwys[1].Glideslope)
				assert.Equal(t, 2.5, *rwys[1].Glideslope)
			},
		},
		{
			name: "One runway",
			content: `
airfields:
  - name: Short
    runways:
      - {id: RWY 090, heading: 90}
`,
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "Duplicate names",
			content: `
airfields:
  - name: A
    runways: [{id: "1", heading: 10}, {id: "2", heading: 190}]
  - name: a
    runways: [{id: "1", heading: 10}, {id: "2", heading: 190}]
`,
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "Heading out of range",
			content: `
airfields:
  - name: A
    runways: [{id: "1", heading: 360}, {id: "2", heading: 180}]
`,
			wantErr: ErrInvalidCatalog,
		},
		{
			name:    "Empty",
			content: `airfields: []`,
			wantErr: ErrInvalidCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			entries, err := LoadAirfields(path)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, entries)
		})
	}
}

func TestLoadAirfields_Missing(t *testing.T) {
	_, err := LoadAirfields(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaultAirfields_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airfields.yaml")
	require.NoError(t, SaveAirfields(path, DefaultAirfields()))

	entries, err := LoadAirfields(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Space Center", entries[0].Name)
	assert.Equal(t, "Old Airfield", entries[1].Name)
	require.NotNil(t, entries[0].Runways[0].ILSRange)
	assert.Equal(t, 25000.0, entries[0].Runways[0].ILSRange.Meters())
	assert.Nil(t, entries[1].Runways[0].ILSCone)
}
