package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is Earth's mean radius
const EarthRadiusMeters = 6371000.0

// HaversineDistance calculates the great-circle distance between two points in meters
// using the Haversine formula on a spherical Earth
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Distance3D combines the horizontal great-circle distance with the elevation
// difference. Both elevations must be known; callers fall back to
// HaversineDistance otherwise.
func Distance3D(lat1, lon1, ele1, lat2, lon2, ele2 float64) float64 {
	horizontal := HaversineDistance(lat1, lon1, lat2, lon2)
	return math.Hypot(horizontal, ele2-ele1)
}
