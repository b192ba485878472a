package spatial

import (
	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
)

// HaversineDistance calculates the great-circle distance between two points in meters
// using the Haversine formula
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Distance returns the great-circle distance between two points in meters
func Distance(a, b Point) float64 {
	return HaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon)
}

// WithinRadius reports whether any point of candidates lies within radius meters of p
func WithinRadius(p Point, candidates []Point, radius float64) bool {
	for _, c := range candidates {
		if Distance(p, c) <= radius {
			return true
		}
	}
	return false
}
