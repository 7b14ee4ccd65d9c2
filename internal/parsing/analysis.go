// Package parsing turns raw completion text into a validated CompanyAnalysis.
// This is the single parse-and-validate boundary: all downstream code
// operates on the typed record, never on raw model output.
package parsing

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/ethicart/internal/types"
)

//go:embed analysis_schema.json
var analysisSchema []byte

// rawAnalysis mirrors the response shape the prompt requests. The legacy
// ethicalScore field is accepted for older cached prompts but superseded by
// the scorer's transparent breakdown.
type rawAnalysis struct {
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
	EthicalScore        *float64 `json:"ethicalScore"`
}

// ParseCompanyAnalysis parses and validates the completion text.
// It strips code-fence wrappers, enforces the response schema, defaults
// optional fields, and screens for known hallucination patterns.
func ParseCompanyAnalysis(text string) (*types.CompanyAnalysis, error) {
	cleaned := StripCodeFence(text)
	if cleaned == "" {
		return nil, &ParseError{Message: "empty response"}
	}

	if err := validateSchema(cleaned); err != nil {
		return nil, err
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &ParseError{Message: "failed to decode analysis JSON", Cause: err}
	}

	if strings.TrimSpace(raw.ParentCompany) == "" {
		return nil, &ParseError{Message: "missing required field parentCompany"}
	}

	analysis := &types.CompanyAnalysis{
		ParentCompany:       strings.TrimSpace(raw.ParentCompany),
		CompanySize:         normalizeEnum(raw.CompanySize, validSizes),
		OwnershipType:       normalizeEnum(raw.OwnershipType, validOwnerships),
		FactualConcerns:     defaultSlice(raw.FactualConcerns),
		Certifications:      defaultSlice(raw.Certifications),
		Subsidiaries:        defaultSlice(raw.Subsidiaries),
		ProductCategory:     strings.TrimSpace(raw.ProductCategory),
		SuggestedStoreTypes: defaultSlice(raw.SuggestedStoreTypes),
		SuggestedStoreNames: defaultSlice(raw.SuggestedStoreNames),
		ImpactExplanation:   strings.TrimSpace(raw.ImpactExplanation),
	}

	// Best-effort hallucination screening. Filters, never fails.
	analysis.FactualConcerns = ScreenConcerns(analysis.FactualConcerns)
	analysis.ImpactExplanation = ScreenExplanation(analysis.ImpactExplanation)

	// The legacy opaque score is clamped and held provisionally; the
	// alignment scorer always recomputes it with a breakdown.
	if raw.EthicalScore != nil {
		analysis.AlignmentScore = clampScore(*raw.EthicalScore)
	}

	return analysis, nil
}

// StripCodeFence removes leading/trailing markdown code-fence markers,
// language-tagged or bare, and surrounding whitespace. Models wrap JSON in
// fences even when told not to.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Skip a language tag on the fence line ("json", "JSON", etc.).
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(text[:idx])
		if firstLine != "" && len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[") {
			text = text[idx+1:]
		}
	} else {
		text = strings.TrimPrefix(text, "json")
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

var validSizes = []string{
	types.SizeMegaCorp,
	types.SizeLargeCorp,
	types.SizeMediumCorp,
	types.SizeSmallBusiness,
}

var validOwnerships = []string{
	types.OwnershipPublic,
	types.OwnershipPrivateEquity,
	types.OwnershipFamilyOwned,
	types.OwnershipCoOp,
	types.OwnershipBCorp,
}

func validateSchema(jsonText string) error {
	schemaLoader := gojsonschema.NewBytesLoader(analysisSchema)
	docLoader := gojsonschema.NewStringLoader(jsonText)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return &ParseError{Message: "response is not a JSON document", Cause: err}
	}
	if !result.Valid() {
		errs := result.Errors()
		first := "schema validation failed"
		field := ""
		if len(errs) > 0 {
			first = errs[0].Description()
			field = errs[0].Field()
		}
		return &ParseError{Message: "invalid analysis document", Cause: &ValidationError{Message: first, Field: field}}
	}
	return nil
}

func normalizeEnum(value string, valid []string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range valid {
		if v == candidate {
			return candidate
		}
	}
	return types.SizeUnknown
}

func defaultSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, 0, len(s))
	for _, entry := range s {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func clampScore(score float64) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}
