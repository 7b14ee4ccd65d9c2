package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonathan/ethicart/internal/types"
)

// DefaultPlacesBaseURL is the Places API (New) endpoint root.
const DefaultPlacesBaseURL = "https://places.googleapis.com"

// placesFieldMask limits the response to the fields the pipeline consumes.
const placesFieldMask = "places.id,places.displayName,places.formattedAddress,places.location,places.rating,places.types,places.businessStatus"

// PlacesQuery describes one text search against the places provider.
type PlacesQuery struct {
	Text      string
	Center    types.Coordinate
	RadiusM   int
	ResultCap int
}

// PlacesClient is an HTTP client for the places-search provider.
type PlacesClient struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
}

// NewPlacesClient creates a places client. The limiter keeps a burst of
// aggregator strategies (up to 5 queries per product) under the provider's
// per-minute quota.
func NewPlacesClient(apiKey, baseURL string) *PlacesClient {
	if baseURL == "" {
		baseURL = DefaultPlacesBaseURL
	}
	return &PlacesClient{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

type placesSearchRequest struct {
	TextQuery      string        `json:"textQuery"`
	MaxResultCount int           `json:"maxResultCount,omitempty"`
	LocationBias   *locationBias `json:"locationBias,omitempty"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type placesSearchResponse struct {
	Places []struct {
		ID          string `json:"id"`
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		FormattedAddress string   `json:"formattedAddress"`
		Location         latLng   `json:"location"`
		Rating           float64  `json:"rating"`
		Types            []string `json:"types"`
		BusinessStatus   string   `json:"businessStatus"`
	} `json:"places"`
}

// SearchText runs one text query biased to the given center and radius and
// returns raw place records in provider order.
func (c *PlacesClient) SearchText(ctx context.Context, q PlacesQuery) ([]types.PlaceRecord, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqBody := placesSearchRequest{
		TextQuery:      q.Text,
		MaxResultCount: q.ResultCap,
	}
	if q.Center.Valid() && q.RadiusM > 0 {
		reqBody.LocationBias = &locationBias{Circle: circle{
			Center: latLng{Latitude: q.Center.Lat, Longitude: q.Center.Lon},
			Radius: float64(q.RadiusM),
		}}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode places request: %w", err)
	}

	url := c.baseURL + "/v1/places:searchText"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create places request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", placesFieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrProviderFailure, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrProviderRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[PLACES] search %q failed: status %d", q.Text, resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrProviderFailure, resp.StatusCode)
	}

	var parsed placesSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrProviderFailure, err)
	}

	records := make([]types.PlaceRecord, 0, len(parsed.Places))
	for _, p := range parsed.Places {
		records = append(records, types.PlaceRecord{
			ID:             p.ID,
			DisplayName:    p.DisplayName.Text,
			FormattedAddr:  p.FormattedAddress,
			Location:       types.Coordinate{Lat: p.Location.Latitude, Lon: p.Location.Longitude},
			Rating:         p.Rating,
			Types:          p.Types,
			BusinessStatus: mapBusinessStatus(p.BusinessStatus),
		})
	}

	log.Printf("[PLACES] search %q returned %d places", q.Text, len(records))
	return records, nil
}

// mapBusinessStatus converts provider status strings to canonical values.
func mapBusinessStatus(status string) string {
	switch status {
	case "CLOSED_TEMPORARILY":
		return types.StatusClosedTemp
	case "CLOSED_PERMANENTLY":
		return types.StatusClosedPerm
	default:
		return types.StatusOpen
	}
}
