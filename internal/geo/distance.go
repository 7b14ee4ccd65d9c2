// Package geo provides great-circle distance math, distance bucketing, and
// travel-time estimation for local alternative candidates.
package geo

import (
	"fmt"
	"math"

	"github.com/jonathan/ethicart/internal/types"
)

// earthRadiusMiles is the mean Earth radius used for haversine distances.
const earthRadiusMiles = 3959.0

// Distance bucket names returned by Bucket.
const (
	BucketNear    = "near"
	BucketMedium  = "medium"
	BucketFar     = "far"
	BucketVeryFar = "very-far"
)

// Distance returns the great-circle distance between two coordinates in miles.
// It is symmetric and zero (within floating tolerance) for identical points.
func Distance(a, b types.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

// Bucket assigns a distance to a coarse category. Boundaries are half-open
// on the lower bound: exactly 5.0 miles falls into "medium".
func Bucket(miles float64) string {
	switch {
	case miles < 5:
		return BucketNear
	case miles < 20:
		return BucketMedium
	case miles < 50:
		return BucketFar
	default:
		return BucketVeryFar
	}
}

// FormatLabel renders a distance for display.
func FormatLabel(miles float64) string {
	if miles < 0.1 {
		return "< 0.1 mi"
	}
	return fmt.Sprintf("%.1f mi", miles)
}

// ProximityBonus returns an informational bonus for nearby candidates.
// It is surfaced alongside a candidate but never folded into the
// authoritative alignment score.
func ProximityBonus(miles float64) int {
	switch {
	case miles < 10:
		return 20
	case miles < 25:
		return 10
	default:
		return 0
	}
}
