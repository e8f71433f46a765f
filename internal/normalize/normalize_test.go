package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text passes through",
			input:    "Скопје",
			expected: "Скопје",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  Битола \t",
			expected: "Битола",
		},
		{
			name:     "zero width space removed",
			input:    "Охрид​",
			expected: "Охрид",
		},
		{
			name:     "empty input unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only collapses to empty",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Text(tt.input))
		})
	}
}

func TestDecimal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *float64
	}{
		{
			name:     "plain decimal",
			input:    "93.5",
			expected: floatPtr(93.5),
		},
		{
			name:     "comma separator",
			input:    "89,8",
			expected: floatPtr(89.8),
		},
		{
			name:     "integer",
			input:    "26",
			expected: floatPtr(26),
		},
		{
			name:     "negative value",
			input:    "-12.5",
			expected: floatPtr(-12.5),
		},
		{
			name:     "number embedded in text",
			input:    "канал 34 хоризонтално",
			expected: floatPtr(34),
		},
		{
			name:     "first number wins",
			input:    "21 / 44",
			expected: floatPtr(21),
		},
		{
			name:     "no digits",
			input:    "нема податок",
			expected: nil,
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decimal(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 1e-9)
		})
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *time.Time
	}{
		{
			name:     "day first with dots",
			input:    "17.03.2021",
			expected: timePtr(2021, time.March, 17, 0, 0, 0),
		},
		{
			name:     "day first with slashes",
			input:    "3/4/2021",
			expected: timePtr(2021, time.April, 3, 0, 0, 0),
		},
		{
			name:     "two digit year",
			input:    "5.11.19",
			expected: timePtr(2019, time.November, 5, 0, 0, 0),
		},
		{
			name:     "year first",
			input:    "2020-06-09",
			expected: timePtr(2020, time.June, 9, 0, 0, 0),
		},
		{
			name:     "day first with time",
			input:    "17.03.2021 14:30:00",
			expected: timePtr(2021, time.March, 17, 14, 30, 0),
		},
		{
			name:     "lenient hour minute only",
			input:    "17.03.2021 14:30",
			expected: timePtr(2021, time.March, 17, 14, 30, 0),
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "free text",
			input:    "не е мерено",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Date(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.expected.Equal(*got), "expected %v, got %v", tt.expected, got)
		})
	}
}

func TestFieldStrength(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *float64
	}{
		{
			name:     "plain reading",
			input:    "54.3",
			expected: floatPtr(54.3),
		},
		{
			name:     "comma separator",
			input:    "48,7",
			expected: floatPtr(48.7),
		},
		{
			name:     "below threshold subtracts margin",
			input:    "<20",
			expected: floatPtr(19.9),
		},
		{
			name:     "below threshold with decimals",
			input:    "< 12.5",
			expected: floatPtr(12.4),
		},
		{
			name:     "below threshold floors at zero",
			input:    "<0.05",
			expected: floatPtr(0),
		},
		{
			name:     "reading embedded in text",
			input:    "измерено 61.2 dBµV/m",
			expected: floatPtr(61.2),
		},
		{
			name:     "no number",
			input:    "n/a",
			expected: nil,
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FieldStrength(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 1e-9)
		})
	}
}

func floatPtr(v float64) *float64 { return &v }

func timePtr(year int, month time.Month, day, hour, min, sec int) *time.Time {
	t := time.Date(year, month, day, hour, min, sec, 0, time.UTC)
	return &t
}
