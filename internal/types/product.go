// Package types provides type definitions for structured data used throughout the ethicart system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// ProductQuery represents a single product detection event from the extension.
// It is constructed once per detection and discarded after the response is sent.
type ProductQuery struct {
	Name         string `json:"name"`
	CategoryHint string `json:"category_hint,omitempty"` // Optional category supplied by the scraper
}

// UserPreferences is a read-only snapshot of the user's settings taken at call time.
type UserPreferences struct {
	AvoidedBrands        []string    `json:"avoided_brands,omitempty"`
	Location             *Coordinate `json:"location,omitempty"`
	SupportLocalEnabled  bool        `json:"support_local_enabled,omitempty"`
	SustainablePreferred bool        `json:"sustainable_preferred,omitempty"`
}

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both components are finite and in range.
// Invalid coordinates must be rejected before any distance math.
func (c Coordinate) Valid() bool {
	if c.Lat != c.Lat || c.Lon != c.Lon { // NaN
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Validate returns a descriptive error for out-of-range coordinates.
func (c Coordinate) Validate() error {
	if !c.Valid() {
		return fmt.Errorf("invalid coordinate (%v, %v): latitude must be in [-90,90], longitude in [-180,180]", c.Lat, c.Lon)
	}
	return nil
}
