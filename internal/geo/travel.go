package geo

import (
	"fmt"
	"math"
)

// Assumed average driving speeds for travel-time estimation. Short hops are
// dominated by surface streets, longer trips pick up arterial roads.
const (
	shortTripMph    = 25.0
	longTripMph     = 35.0
	shortTripCutoff = 5.0 // miles
)

// TravelMinutes estimates driving time for a distance, rounded to the
// nearest whole minute.
func TravelMinutes(miles float64) int {
	mph := longTripMph
	if miles < shortTripCutoff {
		mph = shortTripMph
	}
	return int(math.Round(miles / mph * 60))
}

// FormatTravel renders an estimated travel time: "X min" under an hour,
// otherwise hours rounded to the nearest whole hour.
func FormatTravel(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := int(math.Round(float64(minutes) / 60))
	return fmt.Sprintf("%d hr", hours)
}
