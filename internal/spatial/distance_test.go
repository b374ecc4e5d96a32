package spatial

import (
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineDistance_SamePointIsZero(t *testing.T) {
	points := [][2]float64{
		{59.954, 30.306},
		{0, 0},
		{-33.86, 151.21},
		{89.9, 179.9},
	}
	for _, p := range points {
		assert.Zero(t, HaversineDistance(p[0], p[1], p[0], p[1]))
	}
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"spb", 59.985, 30.300, 59.870, 30.480},
		{"antimeridian", 10, 179.9, 10, -179.9},
		{"near pole", 89.99, 0, 89.99, 180},
		{"equator", 0, 0, 0, 90},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ab := HaversineDistance(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
			ba := HaversineDistance(tc.lat2, tc.lon2, tc.lat1, tc.lon1)
			assert.InDelta(t, ab, ba, 1e-9)
		})
	}
}

func TestHaversineDistance_KnownValues(t *testing.T) {
	// One degree of latitude on the mean sphere.
	assert.InDelta(t, 111194.93, HaversineDistance(0, 0, 1, 0), 0.01)

	// Crossing the antimeridian takes the short way round.
	assert.InDelta(t, HaversineDistance(0, 179.5, 0, 180), HaversineDistance(0, 179.5, 0, -179.5)/2, 1e-6)

	// Quarter of the equator.
	assert.InDelta(t, EarthRadiusMeters*3.141592653589793/2, HaversineDistance(0, 0, 0, 90), 1e-6)
}

func TestHaversineDistance_MatchesS2(t *testing.T) {
	a := s2.LatLngFromDegrees(59.985, 30.300)
	b := s2.LatLngFromDegrees(59.9475, 30.3425)

	assert.InDelta(t, a.Distance(b).Radians()*EarthRadiusMeters, HaversineDistance(59.985, 30.300, 59.9475, 30.3425), 1e-3)
}

func TestDestinationPoint_RoundTrip(t *testing.T) {
	for _, bearing := range []float64{0, 45, 90, 180, 270} {
		lat, lon := DestinationPoint(59.954, 30.306, bearing, 2000)
		assert.InDelta(t, 2000, HaversineDistance(59.954, 30.306, lat, lon), 0.01, "bearing %v", bearing)
	}
}

func TestCircleRing_IsClosed(t *testing.T) {
	ring := CircleRing(59.954, 30.306, 1500, 32)

	require.Len(t, ring, 33)
	assert.Equal(t, ring[0], ring[len(ring)-1])
	for _, v := range ring {
		assert.InDelta(t, 1500, HaversineDistance(59.954, 30.306, v[1], v[0]), 0.01)
	}
}

func TestGeohash_RoundTrip(t *testing.T) {
	hash := EncodeGeohash(59.985, 30.300, CellIDPrecision)
	require.Len(t, hash, CellIDPrecision)

	lat, lon, ok := DecodeGeohash(hash)
	require.True(t, ok)
	assert.InDelta(t, 59.985, lat, 1e-3)
	assert.InDelta(t, 30.300, lon, 1e-3)

	_, _, ok = DecodeGeohash("abc!")
	assert.False(t, ok)
}

func TestGeohash_KnownValue(t *testing.T) {
	assert.Equal(t, "u4pruydqqvj", EncodeGeohash(57.64911, 10.40744, 11))
}
