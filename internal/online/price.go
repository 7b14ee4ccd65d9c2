package online

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/ethicart/internal/fetch"
)

// Sanity bounds for scraped prices. Values outside this range are treated
// as markup noise and discarded.
const (
	minSanePrice = 5.0
	maxSanePrice = 1000.0
)

var (
	dollarPattern    = regexp.MustCompile(`\$(\d{1,4}(?:,\d{3})*(?:\.\d{2})?)`)
	jsonPricePattern = regexp.MustCompile(`"price"\s*:\s*"?(\d+(?:\.\d+)?)"?`)
)

// ScrapeOptions tunes price scraping. The zero value uses the bounded
// defaults.
type ScrapeOptions struct {
	FetchOptions *fetch.Options
	// UseBrowser enables a headless-browser retry when the static HTML is
	// too thin to scrape. The caller's deadline still applies, so a slow
	// render yields no price rather than a stall.
	UseBrowser bool
}

// ScrapePrice attempts to extract a product price from a page. It is
/// best-effort and bounded: any failure, timeout, or implausible value
// returns nil, never an error.
func ScrapePrice(ctx context.Context, pageURL string, opts *ScrapeOptions) *float64 {
	if opts == nil {
		opts = &ScrapeOptions{}
	}

	result, err := fetch.URL(ctx, pageURL, opts.FetchOptions)
	if err != nil {
		log.Printf("[PRICE] fetch failed for %s: %v", pageURL, err)
		return nil
	}

	html := result.HTML
	if opts.UseBrowser && fetch.ShouldUseBrowser(html) {
		rendered, err := fetch.WithBrowser(ctx, pageURL)
		if err != nil {
			log.Printf("[PRICE] browser render failed for %s: %v", pageURL, err)
			return nil
		}
		html = rendered
	}

	return ExtractPrice(html)
}

// ExtractPrice pulls a price out of raw page HTML. Preference order:
// structured product data, visible dollar amounts, JSON-ish price fields,
// then microdata/OpenGraph attributes.
func ExtractPrice(html string) *float64 {
	doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(html))

	if docErr == nil {
		if price := priceFromStructuredData(doc); price != nil {
			return price
		}
	}

	if m := dollarPattern.FindStringSubmatch(html); m != nil {
		// A leading dollar sign already denotes dollars; the cents
		// heuristic below is for bare markup values only.
		if price := sanityCheck(parseNumeric(m[1])); price != nil {
			return price
		}
	}

	if m := jsonPricePattern.FindStringSubmatch(html); m != nil {
		if price := sanityCheck(normalizeCents(m[1])); price != nil {
			return price
		}
	}

	if docErr == nil {
		if price := priceFromMetaAttributes(doc); price != nil {
			return price
		}
	}

	return nil
}

// ldProduct is the subset of a schema.org Product block we read.
type ldProduct struct {
	Type   string          `json:"@type"`
	Graph  []ldProduct     `json:"@graph"`
	Offers json.RawMessage `json:"offers"`
}

type ldOffer struct {
	Price json.RawMessage `json:"price"`
}

// priceFromStructuredData reads embedded ld+json blocks describing a
// Product with an offers.price.
func priceFromStructuredData(doc *goquery.Document) *float64 {
	var found *float64
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var block ldProduct
		if err := json.Unmarshal([]byte(s.Text()), &block); err != nil {
			return true
		}
		nodes := append([]ldProduct{block}, block.Graph...)
		for _, node := range nodes {
			if !strings.EqualFold(node.Type, "Product") || node.Offers == nil {
				continue
			}
			if price := priceFromOffers(node.Offers); price != nil {
				found = price
				return false
			}
		}
		return true
	})
	return found
}

func priceFromOffers(raw json.RawMessage) *float64 {
	var single ldOffer
	if err := json.Unmarshal(raw, &single); err == nil && single.Price != nil {
		if p := priceFromRaw(single.Price); p != nil {
			return p
		}
	}

	var many []ldOffer
	if err := json.Unmarshal(raw, &many); err == nil {
		for _, offer := range many {
			if offer.Price == nil {
				continue
			}
			if p := priceFromRaw(offer.Price); p != nil {
				return p
			}
		}
	}
	return nil
}

func priceFromRaw(raw json.RawMessage) *float64 {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return sanityCheck(normalizeCents(asString))
	}
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return sanityCheck(&asNumber)
	}
	return nil
}

// priceFromMetaAttributes checks common microdata and OpenGraph price
// attributes.
func priceFromMetaAttributes(doc *goquery.Document) *float64 {
	selectors := []string{
		`[itemprop="price"]`,
		`meta[property="product:price:amount"]`,
		`meta[property="og:price:amount"]`,
	}
	for _, selector := range selectors {
		var found *float64
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			value, ok := s.Attr("content")
			if !ok {
				value = strings.TrimSpace(s.Text())
			}
			value = strings.TrimPrefix(strings.TrimSpace(value), "$")
			if value == "" {
				return true
			}
			if price := sanityCheck(normalizeCents(value)); price != nil {
				found = price
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// normalizeCents parses a numeric string, dividing by 100 when the value
// has no decimal point and exceeds 100. Some markup reports integer cents
// where dollars are expected.
func normalizeCents(value string) *float64 {
	parsed := parseNumeric(value)
	if parsed == nil {
		return nil
	}
	if !strings.Contains(value, ".") && *parsed > 100 {
		cents := *parsed / 100
		return &cents
	}
	return parsed
}

func parseNumeric(value string) *float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func sanityCheck(price *float64) *float64 {
	if price == nil {
		return nil
	}
	if *price < minSanePrice || *price > maxSanePrice {
		return nil
	}
	return price
}
