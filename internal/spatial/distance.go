package spatial

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is Earth's mean radius
const EarthRadiusMeters = 6371000.0

// HaversineDistance calculates the great-circle distance between two points in meters
// using the Haversine formula
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaPhi := (lat2 - lat1) * math.Pi / 180
	deltaLambda := (lon2 - lon1) * math.Pi / 180

	sinPhi := math.Sin(deltaPhi / 2)
	sinLambda := math.Sin(deltaLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	// Rounding can push a slightly outside [0, 1] for antipodal points
	a = math.Min(math.Max(a, 0), 1)

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DestinationPoint calculates the destination point given a start point, bearing, and distance
// bearing: degrees (0-360), distance: meters
func DestinationPoint(lat, lon, bearing, distance float64) (float64, float64) {
	p := s2.LatLngFromDegrees(lat, lon)
	bearingRad := (s1.Angle(bearing) * s1.Degree).Radians()
	angularDistance := distance / EarthRadiusMeters

	latRad := p.Lat.Radians()
	lonRad := p.Lng.Radians()

	lat2 := math.Asin(math.Sin(latRad)*math.Cos(angularDistance) +
		math.Cos(latRad)*math.Sin(angularDistance)*math.Cos(bearingRad))

	lon2 := lonRad + math.Atan2(
		math.Sin(bearingRad)*math.Sin(angularDistance)*math.Cos(latRad),
		math.Cos(angularDistance)-math.Sin(latRad)*math.Sin(lat2))

	dest := s2.LatLng{Lat: s1.Angle(lat2), Lng: s1.Angle(lon2)}.Normalized()
	return dest.Lat.Degrees(), dest.Lng.Degrees()
}

// CircleRing approximates a circle on the sphere as a closed ring of [lon, lat] pairs.
// The first vertex is repeated at the end so the ring can be used as a GeoJSON polygon.
func CircleRing(lat, lon, radius float64, vertices int) [][]float64 {
	if vertices < 3 {
		vertices = 3
	}

	ring := make([][]float64, 0, vertices+1)
	for i := 0; i < vertices; i++ {
		bearing := float64(i) * 360 / float64(vertices)
		dLat, dLon := DestinationPoint(lat, lon, bearing, radius)
		ring = append(ring, []float64{dLon, dLat})
	}
	ring = append(ring, ring[0])

	return ring
}
