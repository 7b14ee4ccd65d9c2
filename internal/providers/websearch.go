package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonathan/ethicart/internal/types"
)

// DefaultSearchBaseURL is the web-search provider endpoint root.
const DefaultSearchBaseURL = "https://api.search.brave.com"

// SearchClient is an HTTP client for the generic web-search provider.
type SearchClient struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
}

// NewSearchClient creates a web-search client.
func NewSearchClient(apiKey, baseURL string) *SearchClient {
	if baseURL == "" {
		baseURL = DefaultSearchBaseURL
	}
	return &SearchClient{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(1), 3),
	}
}

type webSearchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search runs one query and returns results in provider order, capped at
// resultCap.
func (c *SearchClient) Search(ctx context.Context, query string, resultCap int) ([]types.SearchResult, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", fmt.Sprintf("%d", resultCap))

	reqURL := fmt.Sprintf("%s/res/v1/web/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

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
		log.Printf("[SEARCH] query %q failed: status %d", query, resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrProviderFailure, resp.StatusCode)
	}

	var parsed webSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrProviderFailure, err)
	}

	results := make([]types.SearchResult, 0, len(parsed.Web.Results))
	for _, r := range parsed.Web.Results {
		results = append(results, types.SearchResult{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Description,
		})
		if len(results) >= resultCap {
			break
		}
	}

	log.Printf("[SEARCH] query %q returned %d results", query, len(results))
	return results, nil
}
