// Package scoring implements the deterministic, additive alignment model.
// Every rule that fires appends a reasoned component to the breakdown, so a
// caller can always recompute the final score by summing deltas onto 100.
package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/ethicart/internal/types"
)

// Rule deltas for the alignment model. Kept in one place so the breakdown
// tests can reference them.
const (
	deltaMegaCorp      = -15
	deltaLargeCorp     = -10
	deltaMediumCorp    = -5
	deltaSmallBusiness = 10

	deltaPublicMega    = -10
	deltaPrivateEquity = -5
	deltaFamilyOwned   = 10
	deltaCoOpOrBCorp   = 15

	deltaAvoidedParent     = -30
	deltaAvoidedSubsidiary = -25

	deltaLaborConcern       = -10
	deltaEnvironmentConcern = -10
	deltaMonopolyConcern    = -5
	deltaPoliticalConcern   = -5
)

// concernRule groups concern keywords into a penalty category. Each
// category fires at most once no matter how many entries match.
type concernRule struct {
	label    string
	keywords []string
	delta    int
}

var concernRules = []concernRule{
	{label: "labor practices", keywords: []string{"labor", "worker", "wage"}, delta: deltaLaborConcern},
	{label: "environmental impact", keywords: []string{"environment", "pollution", "climate"}, delta: deltaEnvironmentConcern},
	{label: "market concentration", keywords: []string{"monopoly", "anti-competitive", "antitrust"}, delta: deltaMonopolyConcern},
	{label: "political activity", keywords: []string{"political", "lobbying", "controversy"}, delta: deltaPoliticalConcern},
}

// certificationRule awards a bonus for a recognized certification when the
// user prefers sustainable companies. Multiple certifications stack.
type certificationRule struct {
	name  string
	delta int
}

var certificationRules = []certificationRule{
	{name: "b-corp", delta: 15},
	{name: "fair trade", delta: 10},
	{name: "carbon neutral", delta: 5},
	{name: "living wage", delta: 10},
}

// Score computes the alignment score and its breakdown for an analysis
// against the user's preferences. Rules apply in a fixed order; within a
// group the first matching case wins.
func Score(analysis *types.CompanyAnalysis, prefs types.UserPreferences) (int, []types.ScoreComponent) {
	var breakdown []types.ScoreComponent
	add := func(reason string, delta int) {
		breakdown = append(breakdown, types.ScoreComponent{Reason: reason, Delta: delta})
	}

	// 1. Company size.
	switch analysis.CompanySize {
	case types.SizeMegaCorp:
		add("Mega-corporation", deltaMegaCorp)
	case types.SizeLargeCorp:
		add("Large corporation", deltaLargeCorp)
	case types.SizeMediumCorp:
		add("Medium corporation", deltaMediumCorp)
	case types.SizeSmallBusiness:
		add("Small business", deltaSmallBusiness)
	}

	// 2. Ownership, in priority order; mutually exclusive.
	switch {
	case analysis.OwnershipType == types.OwnershipPublic && analysis.CompanySize == types.SizeMegaCorp:
		add("Publicly traded mega-corporation", deltaPublicMega)
	case analysis.OwnershipType == types.OwnershipPrivateEquity:
		add("Private equity owned", deltaPrivateEquity)
	case analysis.OwnershipType == types.OwnershipFamilyOwned:
		add("Family owned", deltaFamilyOwned)
	case analysis.OwnershipType == types.OwnershipCoOp || analysis.OwnershipType == types.OwnershipBCorp:
		add("Co-op or B-Corp structure", deltaCoOpOrBCorp)
	}

	// 3. Avoid-list match: parent company first, then subsidiaries.
	// Only the first match counts.
	if brand := matchAvoidedBrand(analysis.ParentCompany, prefs.AvoidedBrands); brand != "" {
		add(fmt.Sprintf("%s is on your avoid list", brand), deltaAvoidedParent)
	} else if brand, sub := matchAvoidedSubsidiary(analysis.Subsidiaries, prefs.AvoidedBrands); brand != "" {
		add(fmt.Sprintf("Owns %s, which is on your avoid list", sub), deltaAvoidedSubsidiary)
	}

	// 4. Documented concerns, each category at most once.
	for _, rule := range concernRules {
		if anyConcernMatches(analysis.FactualConcerns, rule.keywords) {
			add(fmt.Sprintf("Documented concerns: %s", rule.label), rule.delta)
		}
	}

	// 5. Certifications, only when the user prefers sustainable companies.
	if prefs.SustainablePreferred {
		for _, rule := range certificationRules {
			for _, cert := range analysis.Certifications {
				if strings.Contains(normalizeCert(cert), rule.name) {
					add(fmt.Sprintf("Certified: %s", cert), rule.delta)
					break
				}
			}
		}
	}

	return types.BreakdownTotal(breakdown), breakdown
}

// Apply scores the analysis in place, setting AlignmentScore, the breakdown,
// and the avoid-list flag used for UI warnings.
func Apply(analysis *types.CompanyAnalysis, prefs types.UserPreferences) {
	analysis.AlignmentScore, analysis.ScoreBreakdown = Score(analysis, prefs)
	analysis.IsOnAvoidList, analysis.AvoidReason = DetectAvoided(analysis, prefs.AvoidedBrands)
}

func matchAvoidedBrand(company string, avoided []string) string {
	companyLower := strings.ToLower(company)
	for _, brand := range avoided {
		b := strings.ToLower(strings.TrimSpace(brand))
		if b != "" && strings.Contains(companyLower, b) {
			return brand
		}
	}
	return ""
}

func matchAvoidedSubsidiary(subsidiaries, avoided []string) (brand, subsidiary string) {
	for _, sub := range subsidiaries {
		if b := matchAvoidedBrand(sub, avoided); b != "" {
			return b, sub
		}
	}
	return "", ""
}

func anyConcernMatches(concerns, keywords []string) bool {
	for _, concern := range concerns {
		lower := strings.ToLower(concern)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// normalizeCert lowercases and strips separators so "B Corp", "B-Corp" and
// "bcorp" all match the same rule.
func normalizeCert(cert string) string {
	lower := strings.ToLower(cert)
	lower = strings.ReplaceAll(lower, "_", " ")
	if strings.Contains(lower, "bcorp") || strings.Contains(lower, "b corp") {
		return "b-corp"
	}
	return lower
}
