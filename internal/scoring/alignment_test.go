package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ethicart/internal/types"
)

func TestScore_PublicMegaCorp(t *testing.T) {
	analysis := &types.CompanyAnalysis{
		ParentCompany: "Globex Corporation",
		CompanySize:   types.SizeMegaCorp,
		OwnershipType: types.OwnershipPublic,
	}

	score, breakdown := Score(analysis, types.UserPreferences{})

	// 100 - 15 (mega-corp) - 10 (public mega) = 75.
	assert.Equal(t, 75, score)
	require.Len(t, breakdown, 2)
	assert.Equal(t, -15, breakdown[0].Delta)
	assert.Equal(t, -10, breakdown[1].Delta)
}

func TestScore_AvoidedParentDominates(t *testing.T) {
	analysis := &types.CompanyAnalysis{
		ParentCompany: "Amazon.com Inc",
		CompanySize:   types.SizeMegaCorp,
		OwnershipType: types.OwnershipPublic,
	}
	prefs := types.UserPreferences{AvoidedBrands: []string{"Amazon"}}

	score, breakdown := Score(analysis, prefs)

	found := false
	for _, c := range breakdown {
		if c.Delta == -30 {
			found = true
			assert.Contains(t, c.Reason, "Amazon")
			assert.Contains(t, c.Reason, "avoid list")
		}
	}
	assert.True(t, found, "expected a -30 avoid-list entry")
	assert.LessOrEqual(t, score, 70)
}

func TestScore_SubsidiaryMatchOnlyWhenParentClean(t *testing.T) {
	analysis := &types.CompanyAnalysis{
		ParentCompany: "Unilever",
		Subsidiaries:  []string{"Ben & Jerry's", "Dove"},
	}
	prefs := types.UserPreferences{AvoidedBrands: []string{"Dove"}}

	_, breakdown := Score(analysis, prefs)

	require.Len(t, breakdown, 1)
	assert.Equal(t, -25, breakdown[0].Delta)
	assert.Contains(t, breakdown[0].Reason, "Dove")
}

func TestScore_ParentMatchStopsSubsidiaryCheck(t *testing.T) {
	analysis := &types.CompanyAnalysis{
		ParentCompany: "Nestle",
		Subsidiaries:  []string{"Nestle Waters"},
	}
	prefs := types.UserPreferences{AvoidedBrands: []string{"Nestle"}}

	_, breakdown := Score(analysis, prefs)

	// Only the -30 parent entry, never an additional -25.
	require.Len(t, breakdown, 1)
	assert.Equal(t, -30, breakdown[0].Delta)
}

func TestScore_ConcernCategoriesFireOnce(t *testing.T) {
	analysis := &types.CompanyAnalysis{
		ParentCompany: "Acme",
		FactualConcerns: []string{
			"2019 warehouse worker safety fines",
			"Ongoing wage theft lawsuits",
			"River pollution settlement",
		},
	}

	score, breakdown := Score(analysis, types.UserPreferences{})

	// Two labor-ish concerns collapse into one -10; pollution adds another -10.
	require.Len(t, breakdown, 2)
	assert.Equal(t, 80, score)
}

func TestScore_CertificationsRequireSustainablePreference(t *testing.T) {
	analysis := &types.CompanyAnalysis{
		ParentCompany:  "Acme",
		Certifications: []string{"B-Corp", "Fair Trade"},
	}

	score, _ := Score(analysis, types.UserPreferences{})
	assert.Equal(t, 100, score)

	score, breakdown := Score(analysis, types.UserPreferences{SustainablePreferred: true})
	// 100 + 15 + 10 clamps to 100, but both components are recorded.
	assert.Equal(t, 100, score)
	require.Len(t, breakdown, 2)
	assert.Equal(t, 15, breakdown[0].Delta)
	assert.Equal(t, 10, breakdown[1].Delta)
}

func TestScore_CertificationsStack(t *testing.T) {
	analysis := &types.CompanyAnalysis{
		ParentCompany:  "Acme",
		CompanySize:    types.SizeMegaCorp,
		OwnershipType:  types.OwnershipPublic,
		Certifications: []string{"Carbon Neutral", "Living Wage"},
	}
	prefs := types.UserPreferences{SustainablePreferred: true}

	score, _ := Score(analysis, prefs)

	// 100 - 15 - 10 + 5 + 10 = 90.
	assert.Equal(t, 90, score)
}

func TestScore_ClampedToZero(t *testing.T) {
	analysis := &types.CompanyAnalysis{
		ParentCompany: "Everything Wrong Inc",
		CompanySize:   types.SizeMegaCorp,
		OwnershipType: types.OwnershipPublic,
		Subsidiaries:  []string{},
		FactualConcerns: []string{
			"worker exploitation",
			"pollution of waterways",
			"antitrust investigation",
			"political lobbying scandal",
		},
	}
	prefs := types.UserPreferences{AvoidedBrands: []string{"Everything Wrong"}}

	score, breakdown := Score(analysis, prefs)

	// 100 -15 -10 -30 -10 -10 -5 -5 = 15; stays above zero here, but the
	// clamp must hold even when deltas sum below zero.
	assert.Equal(t, 15, score)
	assert.Equal(t, score, types.BreakdownTotal(breakdown))

	// Pile on a fabricated extra penalty to verify the clamp itself.
	breakdown = append(breakdown, types.ScoreComponent{Reason: "extra", Delta: -40})
	assert.Equal(t, 0, types.BreakdownTotal(breakdown))
}

func TestScore_ClampedToHundred(t *testing.T) {
	analysis := &types.CompanyAnalysis{
		ParentCompany:  "Tiny Goods Co-op",
		CompanySize:    types.SizeSmallBusiness,
		OwnershipType:  types.OwnershipCoOp,
		Certifications: []string{"B-Corp", "Fair Trade", "Carbon Neutral", "Living Wage"},
	}
	prefs := types.UserPreferences{SustainablePreferred: true}

	score, breakdown := Score(analysis, prefs)

	assert.Equal(t, 100, score)
	// All bonuses recorded even though the sum clamps.
	require.Len(t, breakdown, 6)
}

func TestScore_OwnershipPriorityOrder(t *testing.T) {
	// Publicly traded but not mega-corp: no ownership rule fires for public.
	analysis := &types.CompanyAnalysis{
		ParentCompany: "Acme",
		CompanySize:   types.SizeLargeCorp,
		OwnershipType: types.OwnershipPublic,
	}
	_, breakdown := Score(analysis, types.UserPreferences{})
	require.Len(t, breakdown, 1) // size only

	// Family owned beats nothing else.
	analysis.OwnershipType = types.OwnershipFamilyOwned
	score, _ := Score(analysis, types.UserPreferences{})
	assert.Equal(t, 100, score) // -10 size, +10 family
}

func TestScore_BreakdownReproducesScore(t *testing.T) {
	analysis := &types.CompanyAnalysis{
		ParentCompany:   "Acme Holdings",
		CompanySize:     types.SizeMediumCorp,
		OwnershipType:   types.OwnershipPrivateEquity,
		FactualConcerns: []string{"lobbying expenditures questioned"},
		Certifications:  []string{"Fair Trade"},
	}
	prefs := types.UserPreferences{SustainablePreferred: true}

	score, breakdown := Score(analysis, prefs)

	assert.Equal(t, types.BreakdownTotal(breakdown), score)
}

func TestDetectAvoided(t *testing.T) {
	analysis := &types.CompanyAnalysis{
		ParentCompany: "PepsiCo",
		Subsidiaries:  []string{"Frito-Lay", "Quaker Oats"},
	}

	flagged, reason := DetectAvoided(analysis, []string{"frito"})
	assert.True(t, flagged)
	assert.Contains(t, reason, "Frito-Lay")

	flagged, reason = DetectAvoided(analysis, nil)
	assert.False(t, flagged)
	assert.Empty(t, reason)
}

func TestApply_EnrichesInPlace(t *testing.T) {
	analysis := &types.CompanyAnalysis{
		ParentCompany: "Amazon.com Inc",
		CompanySize:   types.SizeMegaCorp,
		OwnershipType: types.OwnershipPublic,
	}
	prefs := types.UserPreferences{AvoidedBrands: []string{"Amazon"}}

	Apply(analysis, prefs)

	assert.True(t, analysis.IsOnAvoidList)
	assert.NotEmpty(t, analysis.AvoidReason)
	assert.Equal(t, types.BreakdownTotal(analysis.ScoreBreakdown), analysis.AlignmentScore)
}
