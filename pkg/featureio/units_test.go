package featureio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseRadius drives the unit table. Bare numbers are meters, names
// match the spatial-reference spelling in any case.
func TestParseRadius(t *testing.T) {
	tests := []struct {
		cell string
		want float64
	}{
		{"250", 250},
		{"2.5", 2.5},
		{"  300  ", 300},
		{"1 KILOMETERS", 1000},
		{"1 kilometers", 1000},
		{"1 KiloMeters", 1000},
		{"5 METERS", 5},
		{"100 FEET", 30.48},
		{"12 INCHES", 0.3048},
		{"10 YARDS", 9.144},
		{"3 MILES", 4828.032},
		{"2 NAUTICALMILES", 3704},
		{"1000 MILLIMETERS", 1},
		{"100 CENTIMETERS", 1},
		{"10 DECIMETERS", 1},
	}
	for _, tc := range tests {
		got, err := ParseRadius(tc.cell)
		require.NoError(t, err, "ParseRadius(%q)", tc.cell)
		assert.InDelta(t, tc.want, got, 1e-9, "ParseRadius(%q)", tc.cell)
	}
}

func TestParseRadiusErrors(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"abc",
		"12abc",
		"1 PARSECS",
		"1 2 3",
	}
	for _, cell := range tests {
		_, err := ParseRadius(cell)
		assert.Error(t, err, "ParseRadius(%q)", cell)
	}

	// unknown units must be named in the error, the cell is user data
	_, err := ParseRadius("1 PARSECS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PARSECS")
}

// TestParseInnerRadius: a blank cell means "no cut", not an error.
func TestParseInnerRadius(t *testing.T) {
	got, err := ParseInnerRadius("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseInnerRadius("   ")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseInnerRadius("500 FEET")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 152.4, *got, 1e-9)

	_, err = ParseInnerRadius("oops")
	assert.Error(t, err)
}
