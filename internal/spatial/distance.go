package spatial

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used for all distances
const EarthRadiusMeters = 6371000.0

// LatLon is a geographic position in degrees
type LatLon struct {
	Lat float64
	Lon float64
}

// HaversineDistance calculates the great-circle distance between two points in meters
// using the Haversine formula
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	// s2 clamps the haversine term, so antipodal and coincident points stay finite
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Distance returns the great-circle distance between two positions in meters
func Distance(p1, p2 LatLon) float64 {
	return HaversineDistance(p1.Lat, p1.Lon, p2.Lat, p2.Lon)
}

// MaxDistanceToSet returns the largest distance from point to any member of set.
// An empty set yields 0. The cost is linear in the size of the set.
func MaxDistanceToSet(point LatLon, set []LatLon) float64 {
	maxDistance := 0.0
	for _, p := range set {
		if d := Distance(point, p); d > maxDistance {
			maxDistance = d
		}
	}
	return maxDistance
}
