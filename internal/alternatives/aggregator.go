// Package alternatives sources and ranks local alternative stores for a
// product. The aggregator merges several places queries into one
// deduplicated candidate list; the ranker filters and orders it.
package alternatives

import (
	"context"
	"log"

	"github.com/jonathan/ethicart/internal/geo"
	"github.com/jonathan/ethicart/internal/providers"
	"github.com/jonathan/ethicart/internal/types"
)

// PlacesSearcher is the slice of the places client the aggregator needs.
type PlacesSearcher interface {
	SearchText(ctx context.Context, q providers.PlacesQuery) ([]types.PlaceRecord, error)
}

// Query limits for one aggregation run.
const (
	maxStoreTypeQueries = 2
	maxStoreNameQueries = 2
	fallbackThreshold   = 3
	perQueryCap         = 5
)

// Aggregate runs the three discovery strategies in order and merges their
// results, deduplicated by provider ID with discovery order preserved.
// Strategy three only fires when the first two produced fewer than three
// candidates. A missing or invalid user coordinate makes this a no-op, and
// any single query failure degrades to an empty contribution.
func Aggregate(ctx context.Context, searcher PlacesSearcher, analysis *types.CompanyAnalysis, userLoc *types.Coordinate) []types.PlaceRecord {
	if userLoc == nil || !userLoc.Valid() {
		return nil
	}

	radius := geo.SearchRadiusMeters(*userLoc)
	seen := make(map[string]bool)
	var merged []types.PlaceRecord

	runQuery := func(text string) {
		records, err := searcher.SearchText(ctx, providers.PlacesQuery{
			Text:      text,
			Center:    *userLoc,
			RadiusM:   radius,
			ResultCap: perQueryCap,
		})
		if err != nil {
			log.Printf("[AGGREGATOR] places query %q failed: %v", text, err)
			return
		}
		for _, rec := range records {
			if rec.ID == "" || seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
			merged = append(merged, rec)
		}
	}

	// Strategy 1: suggested store types.
	for i, storeType := range analysis.SuggestedStoreTypes {
		if i >= maxStoreTypeQueries {
			break
		}
		runQuery(storeType)
	}

	// Strategy 2: suggested store names.
	for i, storeName := range analysis.SuggestedStoreNames {
		if i >= maxStoreNameQueries {
			break
		}
		runQuery(storeName)
	}

	// Strategy 3: generic category fallback, only when the targeted
	// strategies came up short.
	if len(merged) < fallbackThreshold && analysis.ProductCategory != "" {
		runQuery(analysis.ProductCategory + " store")
	}

	return merged
}
