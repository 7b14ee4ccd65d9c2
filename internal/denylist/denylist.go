// Package denylist provides the fixed exclusion and relevance tables used by
// the alternative-sourcing pipeline. The tables are data, not code: they are
// embedded as a single JSON document so they can be tested and extended
// independently of the ranking logic.
package denylist

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed data.json
var dataFile []byte

// CategoryExclusion removes candidates whose provider types or names are
// known false positives for a product category (e.g. furniture stores
// surfacing for luggage searches).
type CategoryExclusion struct {
	CategoryKeywords   []string `json:"category_keywords"`
	ExcludedTypes      []string `json:"excluded_types"`
	ExcludedNameTokens []string `json:"excluded_name_tokens"`
}

// Tables holds every fixed list the pipeline consults.
type Tables struct {
	// MegaRetailerBrands are brand-name tokens for big-box retailers the
	// feature exists to route around.
	MegaRetailerBrands []string `json:"mega_retailer_brands"`
	// MegaRetailerDomains are web domains of the same retailers.
	MegaRetailerDomains []string `json:"mega_retailer_domains"`
	// IrrelevantSearchDomains are social media, marketplaces, comparison
	// and coupon sites, and aggregators already covered elsewhere.
	IrrelevantSearchDomains []string `json:"irrelevant_search_domains"`
	// IrrelevantPlaceTypes are provider place types that never sell products.
	IrrelevantPlaceTypes []string `json:"irrelevant_place_types"`
	// RelevanceTable maps a place type to category keywords that indicate a
	// strong type/category match.
	RelevanceTable map[string][]string `json:"relevance_table"`
	// CategoryExclusions is the per-category exclusion table.
	CategoryExclusions []CategoryExclusion `json:"category_exclusions"`
}

var (
	loadOnce sync.Once
	loaded   *Tables
	loadErr  error
)

// Load parses the embedded tables. The result is cached after the first call.
func Load() (*Tables, error) {
	loadOnce.Do(func() {
		var t Tables
		if err := json.Unmarshal(dataFile, &t); err != nil {
			loadErr = fmt.Errorf("failed to parse denylist data: %w", err)
			return
		}
		loaded = &t
	})
	return loaded, loadErr
}

// MustLoad parses the embedded tables, panicking on malformed data.
// The file is compiled in, so a failure here is a build defect.
func MustLoad() *Tables {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// IsMegaRetailerName reports whether a business name matches a big-box
// retailer brand token, case-insensitively.
func (t *Tables) IsMegaRetailerName(name string) bool {
	lower := strings.ToLower(name)
	for _, brand := range t.MegaRetailerBrands {
		if strings.Contains(lower, brand) {
			return true
		}
	}
	return false
}

// IsMegaRetailerDomain reports whether a domain belongs to a big-box retailer.
func (t *Tables) IsMegaRetailerDomain(domain string) bool {
	return matchesDomain(domain, t.MegaRetailerDomains)
}

// IsIrrelevantDomain reports whether a search-result domain is on the
// irrelevant-domain list.
func (t *Tables) IsIrrelevantDomain(domain string) bool {
	return matchesDomain(domain, t.IrrelevantSearchDomains)
}

// IsIrrelevantPlaceType reports whether any of the candidate's provider
// types is on the irrelevant place-type list.
func (t *Tables) IsIrrelevantPlaceType(placeTypes []string) bool {
	for _, pt := range placeTypes {
		ptLower := strings.ToLower(pt)
		for _, bad := range t.IrrelevantPlaceTypes {
			if ptLower == bad {
				return true
			}
		}
	}
	return false
}

// ExclusionsFor returns the category exclusions that apply to a product
// category, matched by case-insensitive keyword search.
func (t *Tables) ExclusionsFor(productCategory string) []CategoryExclusion {
	catLower := strings.ToLower(productCategory)
	var matched []CategoryExclusion
	for _, excl := range t.CategoryExclusions {
		for _, kw := range excl.CategoryKeywords {
			if strings.Contains(catLower, kw) {
				matched = append(matched, excl)
				break
			}
		}
	}
	return matched
}

func matchesDomain(domain string, list []string) bool {
	d := strings.ToLower(strings.TrimPrefix(domain, "www."))
	for _, entry := range list {
		if d == entry || strings.HasSuffix(d, "."+entry) {
			return true
		}
	}
	return false
}
