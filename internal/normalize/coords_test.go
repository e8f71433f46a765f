package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDMSToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		d, m, s  float64
		expected float64
	}{
		{
			name: "whole degrees only",
			d:    41, m: 0, s: 0,
			expected: 41,
		},
		{
			name: "degrees and minutes",
			d:    41, m: 30, s: 0,
			expected: 41.5,
		},
		{
			name: "full triple",
			d:    41, m: 59, s: 16.4,
			expected: 41 + 59.0/60 + 16.4/3600,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, DMSToDecimal(tt.d, tt.m, tt.s), 1e-9)
		})
	}
}

func TestCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		cells   []string
		wantLat *float64
		wantLon *float64
	}{
		{
			name:    "full block",
			cells:   []string{"N", "41", "59", "16.4", "E", "21", "25", "55.1"},
			wantLat: floatPtr(DMSToDecimal(41, 59, 16.4)),
			wantLon: floatPtr(DMSToDecimal(21, 25, 55.1)),
		},
		{
			name:    "cyrillic east marker",
			cells:   []string{"N", "42", "0", "3", "Е", "21", "26", "17"},
			wantLat: floatPtr(DMSToDecimal(42, 0, 3)),
			wantLon: floatPtr(DMSToDecimal(21, 26, 17)),
		},
		{
			name:    "comma decimal separators",
			cells:   []string{"N", "41", "6", "52,3", "E", "20", "48", "10,9"},
			wantLat: floatPtr(DMSToDecimal(41, 6, 52.3)),
			wantLon: floatPtr(DMSToDecimal(20, 48, 10.9)),
		},
		{
			name:    "blank cells interleaved",
			cells:   []string{"", "N", "", "41", "59", "", "16.4", "E", "21", "", "25", "55.1", ""},
			wantLat: floatPtr(DMSToDecimal(41, 59, 16.4)),
			wantLon: floatPtr(DMSToDecimal(21, 25, 55.1)),
		},
		{
			name:  "missing east marker",
			cells: []string{"N", "41", "59", "16.4"},
		},
		{
			name:  "missing north marker",
			cells: []string{"E", "21", "25", "55.1"},
		},
		{
			name:  "too few numbers after marker",
			cells: []string{"N", "41", "59", "16.4", "E", "21", "25"},
		},
		{
			name:  "empty span",
			cells: []string{"", "", ""},
		},
		{
			name:  "nil span",
			cells: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon := Coordinates(tt.cells)
			if tt.wantLat == nil {
				assert.Nil(t, lat)
				assert.Nil(t, lon)
				return
			}
			require.NotNil(t, lat)
			require.NotNil(t, lon)
			assert.InDelta(t, *tt.wantLat, *lat, 1e-9)
			assert.InDelta(t, *tt.wantLon, *lon, 1e-9)
		})
	}
}
