package scoring

import (
	"fmt"

	"github.com/jonathan/ethicart/internal/types"
)

// DetectAvoided performs the brand/subsidiary substring match used to flag
// the UI warning banner. It is independent of the score: the first match
// wins and produces a human-readable reason.
func DetectAvoided(analysis *types.CompanyAnalysis, avoidedBrands []string) (bool, string) {
	if brand := matchAvoidedBrand(analysis.ParentCompany, avoidedBrands); brand != "" {
		return true, fmt.Sprintf("%s is owned by %s, which is on your avoid list", analysis.ParentCompany, brand)
	}
	if brand, sub := matchAvoidedSubsidiary(analysis.Subsidiaries, avoidedBrands); brand != "" {
		return true, fmt.Sprintf("%s owns %s, which matches %s on your avoid list", analysis.ParentCompany, sub, brand)
	}
	return false, ""
}
