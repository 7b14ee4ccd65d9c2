package alternatives

import (
	"sort"
	"strings"

	"github.com/jonathan/ethicart/internal/denylist"
	"github.com/jonathan/ethicart/internal/geo"
	"github.com/jonathan/ethicart/internal/types"
)

// DefaultLocalCap is the number of local alternatives recommended by default.
const DefaultLocalCap = 3

// Relevance score deltas for type/category matches.
const (
	typeCategoryMatch = 10
	typeOnlyMatch     = 2
	genericStoreMatch = 1
)

// Rank filters the merged candidate list, scores the survivors by
// type/category match, sorts descending (stable, so ties keep discovery
// order), caps the result, and annotates distance and travel estimates.
func Rank(records []types.PlaceRecord, productCategory, currentSiteHostname string, userLoc *types.Coordinate, tables *denylist.Tables, limit int) []types.LocalPlace {
	if limit <= 0 {
		limit = DefaultLocalCap
	}

	selfToken := hostBrandToken(currentSiteHostname)
	exclusions := tables.ExclusionsFor(productCategory)
	catLower := strings.ToLower(productCategory)

	var ranked []types.LocalPlace
	for _, rec := range records {
		if !keep(rec, selfToken, exclusions, tables) {
			continue
		}

		place := types.LocalPlace{
			ID:             rec.ID,
			Name:           rec.DisplayName,
			Address:        rec.FormattedAddr,
			Location:       rec.Location,
			Rating:         rec.Rating,
			PlaceTypes:     rec.Types,
			BusinessStatus: rec.BusinessStatus,
			RelevanceScore: relevanceScore(rec.Types, catLower, tables),
		}
		ranked = append(ranked, place)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	if userLoc != nil && userLoc.Valid() {
		for i := range ranked {
			annotateTravel(&ranked[i], *userLoc)
		}
	}

	return ranked
}

// keep applies the drop filters; a candidate is dropped if any holds.
func keep(rec types.PlaceRecord, selfToken string, exclusions []denylist.CategoryExclusion, tables *denylist.Tables) bool {
	if rec.BusinessStatus == types.StatusClosedPerm || rec.BusinessStatus == types.StatusClosedTemp {
		return false
	}

	nameLower := strings.ToLower(rec.DisplayName)

	// Never recommend the retailer the user is already on.
	if selfToken != "" && strings.Contains(nameLower, selfToken) {
		return false
	}

	if tables.IsMegaRetailerName(rec.DisplayName) {
		return false
	}

	if tables.IsIrrelevantPlaceType(rec.Types) {
		return false
	}

	for _, excl := range exclusions {
		for _, t := range rec.Types {
			for _, bad := range excl.ExcludedTypes {
				if strings.EqualFold(t, bad) {
					return false
				}
			}
		}
		for _, token := range excl.ExcludedNameTokens {
			if strings.Contains(nameLower, token) {
				return false
			}
		}
	}

	return true
}

// relevanceScore is additive: all matching rules apply.
func relevanceScore(placeTypes []string, catLower string, tables *denylist.Tables) int {
	score := 0
	for _, pt := range placeTypes {
		ptLower := strings.ToLower(pt)
		if ptLower == "store" {
			score += genericStoreMatch
			continue
		}
		keywords, ok := tables.RelevanceTable[ptLower]
		if !ok {
			continue
		}
		matched := false
		for _, kw := range keywords {
			if strings.Contains(catLower, kw) {
				matched = true
				break
			}
		}
		if matched {
			score += typeCategoryMatch
		} else {
			score += typeOnlyMatch
		}
	}
	return score
}

func annotateTravel(place *types.LocalPlace, userLoc types.Coordinate) {
	if !place.Location.Valid() {
		return
	}
	miles := geo.Distance(userLoc, place.Location)
	place.DistanceMiles = miles
	place.DistanceLabel = geo.FormatLabel(miles)
	place.TravelMinutes = geo.TravelMinutes(miles)
	place.TravelLabel = geo.FormatTravel(place.TravelMinutes)
	place.ProximityBonus = geo.ProximityBonus(miles)
}

// hostBrandToken extracts the brand token from a retailer hostname:
// "www.walmart.com" yields "walmart".
func hostBrandToken(hostname string) string {
	h := strings.ToLower(strings.TrimSpace(hostname))
	h = strings.TrimPrefix(h, "www.")
	if h == "" {
		return ""
	}
	if idx := strings.Index(h, "."); idx > 0 {
		h = h[:idx]
	}
	// Single-letter tokens match everything; treat them as no token.
	if len(h) < 3 {
		return ""
	}
	return h
}
