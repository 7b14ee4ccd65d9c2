package geo

import "github.com/jonathan/ethicart/internal/types"

// Search radii in meters for places queries. Dense urban cores get a tighter
// radius; suburban and rural users need broader coverage to see any results.
const (
	UrbanRadiusMeters   = 5000
	DefaultRadiusMeters = 10000
)

// boundingBox is an axis-aligned lat/lon rectangle.
type boundingBox struct {
	name           string
	minLat, maxLat float64
	minLon, maxLon float64
}

// denseUrbanAreas covers metro cores where a 10 km search radius would
// return results the user cannot realistically reach.
var denseUrbanAreas = []boundingBox{
	{name: "san-francisco", minLat: 37.70, maxLat: 37.83, minLon: -122.53, maxLon: -122.35},
	{name: "new-york", minLat: 40.55, maxLat: 40.92, minLon: -74.10, maxLon: -73.70},
	{name: "chicago", minLat: 41.78, maxLat: 42.02, minLon: -87.85, maxLon: -87.55},
	{name: "boston", minLat: 42.30, maxLat: 42.42, minLon: -71.15, maxLon: -70.95},
	{name: "seattle", minLat: 47.50, maxLat: 47.74, minLon: -122.44, maxLon: -122.24},
	{name: "los-angeles", minLat: 33.90, maxLat: 34.15, minLon: -118.50, maxLon: -118.15},
	{name: "washington-dc", minLat: 38.80, maxLat: 38.99, minLon: -77.12, maxLon: -76.91},
	{name: "philadelphia", minLat: 39.90, maxLat: 40.05, minLon: -75.25, maxLon: -75.10},
}

// SearchRadiusMeters selects the places search radius for a user location.
// Coordinates inside a known dense-urban bounding box use the urban radius.
func SearchRadiusMeters(c types.Coordinate) int {
	for _, box := range denseUrbanAreas {
		if c.Lat >= box.minLat && c.Lat <= box.maxLat &&
			c.Lon >= box.minLon && c.Lon <= box.maxLon {
			return UrbanRadiusMeters
		}
	}
	return DefaultRadiusMeters
}
