package types

// BusinessStatus values reported by the places provider.
const (
	StatusOpen       = "open"
	StatusClosedTemp = "closed-temp"
	StatusClosedPerm = "closed-perm"
)

// PlaceRecord is a raw candidate as returned by the places provider,
// before filtering and relevance ranking.
type PlaceRecord struct {
	ID             string     `json:"id"`
	DisplayName    string     `json:"display_name"`
	FormattedAddr  string     `json:"formatted_address,omitempty"`
	Location       Coordinate `json:"location"`
	Rating         float64    `json:"rating,omitempty"`
	Types          []string   `json:"types,omitempty"`
	BusinessStatus string     `json:"business_status,omitempty"`
}

// SearchResult is a raw result from the generic web-search provider.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// LocalPlace is a ranked brick-and-mortar alternative.
type LocalPlace struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Address        string     `json:"address,omitempty"`
	Location       Coordinate `json:"location"`
	Rating         float64    `json:"rating,omitempty"`
	URL            string     `json:"url,omitempty"`
	PlaceTypes     []string   `json:"place_types,omitempty"`
	BusinessStatus string     `json:"business_status,omitempty"`
	RelevanceScore int        `json:"-"` // Sort key only, never shown to the user
	DistanceMiles  float64    `json:"distance_miles,omitempty"`
	DistanceLabel  string     `json:"distance_label,omitempty"`
	TravelMinutes  int        `json:"travel_minutes,omitempty"`
	TravelLabel    string     `json:"travel_label,omitempty"`
	ProximityBonus int        `json:"proximity_bonus,omitempty"` // Informational only, not part of the alignment score
}

// OnlineRetailer is a supplementary online alternative.
type OnlineRetailer struct {
	Name         string   `json:"name"`
	URL          string   `json:"url"`
	Domain       string   `json:"domain"`
	Description  string   `json:"description,omitempty"`
	ScrapedPrice *float64 `json:"scraped_price,omitempty"`
	HasPrice     bool     `json:"has_price"`
}

// AlternativesResult is the final ordered collection, local candidates first.
// Created fresh per product query and never persisted.
type AlternativesResult struct {
	Local  []LocalPlace     `json:"local"`
	Online []OnlineRetailer `json:"online"`
}

// Total returns the combined candidate count.
func (r *AlternativesResult) Total() int {
	return len(r.Local) + len(r.Online)
}
