// Package geo computes great-circle distances and derived arrival estimates.
package geo

import (
	"math"
	"time"

	"github.com/99minutos/cargo-tracking/internal/core/domain"
)

const (
	// EarthRadiusKm is the mean radius of the sphere used by Distance.
	EarthRadiusKm = 6371.0

	// DefaultAverageSpeedKmh is used when no positive speed is supplied.
	DefaultAverageSpeedKmh = 60.0
)

// Distance returns the haversine distance between a and b in kilometers.
// Both coordinates must already be valid.
func Distance(a, b domain.Coordinates) float64 {
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Latitude))*math.Cos(radians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// rounding can push h a hair above 1 for antipodal points
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// TravelTime converts a distance into a duration at the given average speed.
func TravelTime(km, averageSpeedKmh float64) time.Duration {
	if averageSpeedKmh <= 0 {
		averageSpeedKmh = DefaultAverageSpeedKmh
	}
	return time.Duration(km / averageSpeedKmh * float64(time.Hour))
}

// EstimateArrival returns now plus the time needed to cover the remaining
// great-circle distance at averageSpeedKmh.
func EstimateArrival(current, destination domain.Coordinates, now time.Time, averageSpeedKmh float64) time.Time {
	return now.Add(TravelTime(Distance(current, destination), averageSpeedKmh))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
