// Package online finds supplementary online alternatives through a generic
// web-search provider and annotates them with best-effort scraped prices.
package online

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ethicart/internal/denylist"
	"github.com/jonathan/ethicart/internal/types"
)

// WebSearcher is the slice of the search client the finder needs.
type WebSearcher interface {
	Search(ctx context.Context, query string, resultCap int) ([]types.SearchResult, error)
}

// Result and candidate caps for one finder run.
const (
	searchResultCap     = 8
	candidateScrapeCap  = 4
	maxOnlineRetailers  = 2
	concurrentFetchCap  = 2
	minDescriptionChars = 50
	maxQueryExclusions  = 5
)

// Finder sources online retailer candidates.
type Finder struct {
	search WebSearcher
	tables *denylist.Tables
	// scrape is swapped out in tests; defaults to ScrapePrice.
	scrape func(ctx context.Context, pageURL string) *float64
}

// NewFinder creates a finder over a search provider and denylist tables.
func NewFinder(search WebSearcher, tables *denylist.Tables) *Finder {
	return &Finder{
		search: search,
		tables: tables,
		scrape: func(ctx context.Context, pageURL string) *float64 {
			return ScrapePrice(ctx, pageURL, nil)
		},
	}
}

// WithScraper overrides the price scraper. Used by callers that manage
// their own fetch policy and by tests.
func (f *Finder) WithScraper(scrape func(ctx context.Context, pageURL string) *float64) *Finder {
	f.scrape = scrape
	return f
}

// Find returns up to two ranked online retailers for a product. Candidates
// with a scraped price sort before those without; ties keep search-result
// order. A provider failure degrades to an empty list.
func (f *Finder) Find(ctx context.Context, productName, productCategory string) []types.OnlineRetailer {
	query := f.buildQuery(productName, productCategory)

	results, err := f.search.Search(ctx, query, searchResultCap)
	if err != nil {
		log.Printf("[ONLINE] search failed: %v", err)
		return nil
	}

	candidates := f.filterResults(results, productName)
	if len(candidates) > candidateScrapeCap {
		candidates = candidates[:candidateScrapeCap]
	}

	f.scrapePrices(ctx, candidates)

	// Priced candidates first; otherwise preserve provider order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].HasPrice && !candidates[j].HasPrice
	})

	if len(candidates) > maxOnlineRetailers {
		candidates = candidates[:maxOnlineRetailers]
	}
	return candidates
}

// buildQuery appends exclusion terms for known mega-retailer domains so the
// provider does the first round of filtering.
func (f *Finder) buildQuery(productName, productCategory string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(productName))
	if c := strings.TrimSpace(productCategory); c != "" {
		sb.WriteString(" ")
		sb.WriteString(c)
	}
	sb.WriteString(" buy independent shop")
	for i, domain := range f.tables.MegaRetailerDomains {
		if i >= maxQueryExclusions {
			break
		}
		sb.WriteString(fmt.Sprintf(" -site:%s", domain))
	}
	return sb.String()
}

func (f *Finder) filterResults(results []types.SearchResult, productName string) []types.OnlineRetailer {
	firstWord := firstProductWord(productName)

	var kept []types.OnlineRetailer
	for _, r := range results {
		domain := domainOf(r.URL)
		if domain == "" {
			continue
		}
		if f.tables.IsMegaRetailerDomain(domain) || f.tables.IsIrrelevantDomain(domain) {
			continue
		}
		// Short titles without the product word are the dominant
		// false-positive source.
		titleHasWord := firstWord != "" && strings.Contains(strings.ToLower(r.Title), firstWord)
		if !titleHasWord && len(r.Description) < minDescriptionChars {
			continue
		}

		kept = append(kept, types.OnlineRetailer{
			Name:        extractBusinessName(r.Title, domain),
			URL:         r.URL,
			Domain:      domain,
			Description: r.Description,
		})
	}
	return kept
}

// scrapePrices fetches candidate pages concurrently. Each fetch is bounded
// and read-only; a failed or slow scrape leaves HasPrice false, it never
// drops the candidate.
func (f *Finder) scrapePrices(ctx context.Context, candidates []types.OnlineRetailer) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrentFetchCap)

	var mu sync.Mutex
	for i := range candidates {
		g.Go(func() error {
			price := f.scrape(gctx, candidates[i].URL)
			mu.Lock()
			defer mu.Unlock()
			if price != nil {
				candidates[i].ScrapedPrice = price
				candidates[i].HasPrice = true
			}
			return nil
		})
	}
	_ = g.Wait()
}

// extractBusinessName pulls a human-readable business name from a result
// title by taking the last segment after common separators, falling back to
// a titleized domain.
func extractBusinessName(title, domain string) string {
	for _, sep := range []string{" - ", " | ", ": "} {
		if strings.Contains(title, sep) {
			parts := strings.Split(title, sep)
			last := strings.TrimSpace(parts[len(parts)-1])
			if last != "" {
				return last
			}
		}
	}
	return titleizeDomain(domain)
}

// titleizeDomain turns "mountain-supply.com" into "Mountain Supply".
func titleizeDomain(domain string) string {
	base := strings.TrimPrefix(strings.ToLower(domain), "www.")
	if idx := strings.Index(base, "."); idx > 0 {
		base = base[:idx]
	}
	words := strings.Split(base, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func firstProductWord(productName string) string {
	fields := strings.Fields(strings.ToLower(productName))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func domainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
}
