package types

// CompanySize values recognized in parsed analyses. Anything else normalizes to unknown.
const (
	SizeMegaCorp      = "mega-corp"
	SizeLargeCorp     = "large-corp"
	SizeMediumCorp    = "medium-corp"
	SizeSmallBusiness = "small-business"
	SizeUnknown       = "unknown"
)

// OwnershipType values recognized in parsed analyses.
const (
	OwnershipPublic        = "publicly-traded"
	OwnershipPrivateEquity = "private-equity"
	OwnershipFamilyOwned   = "family-owned"
	OwnershipCoOp          = "co-op"
	OwnershipBCorp         = "b-corp"
	OwnershipUnknown       = "unknown"
)

// CompanyAnalysis is the canonical record produced by the response parser
// and enriched by the alignment scorer. Downstream code operates only on
// this validated type, never on raw completion text.
type CompanyAnalysis struct {
	ParentCompany       string   `json:"parentCompany"`
	CompanySize         string   `json:"companySize"`
	OwnershipType       string   `json:"ownershipType"`
	FactualConcerns     []string `json:"factualConcerns"`
	Certifications      []string `json:"certifications"`
	Subsidiaries        []string `json:"subsidiaries"`
	ProductCategory     string   `json:"productCategory"`
	SuggestedStoreTypes []string `json:"suggestedStoreTypes"`
	SuggestedStoreNames []string `json:"suggestedStoreNames"`
	ImpactExplanation   string   `json:"impactExplanation"`

	// Enrichment applied by the scorer after parsing. Never mutated once
	// the response has been sent.
	IsOnAvoidList  bool             `json:"isOnAvoidList"`
	AvoidReason    string           `json:"avoidReason,omitempty"`
	AlignmentScore int              `json:"alignmentScore"`
	ScoreBreakdown []ScoreComponent `json:"scoreBreakdown"`
}

// ScoreComponent is one rule application in the additive alignment model.
// The final score is always clamp(100 + sum of deltas, 0, 100).
type ScoreComponent struct {
	Reason string `json:"reason"`
	Delta  int    `json:"delta"`
}

// BreakdownTotal sums deltas onto the base score of 100 and clamps to [0,100].
// Callers use this to verify a breakdown reproduces the reported score.
func BreakdownTotal(breakdown []ScoreComponent) int {
	total := 100
	for _, c := range breakdown {
		total += c.Delta
	}
	if total < 0 {
		return 0
	}
	if total > 100 {
		return 100
	}
	return total
}
