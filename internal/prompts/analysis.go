package prompts

import "strings"

// AnalysisFile is the embedded template file for company research prompts.
const AnalysisFile = "analysis.json"

// AnalysisRequest carries the per-product values interpolated into the
// company research prompt.
type AnalysisRequest struct {
	ProductName   string
	SiteHostname  string
	CategoryHint  string
	AvoidedBrands []string
}

// BuildAnalysisPrompt renders the company research prompt for one product.
func BuildAnalysisPrompt(req AnalysisRequest) (string, error) {
	template, err := Get(AnalysisFile, "company-analysis")
	if err != nil {
		return "", err
	}

	avoided := "none"
	if len(req.AvoidedBrands) > 0 {
		avoided = strings.Join(req.AvoidedBrands, ", ")
	}

	return Format(template, map[string]string{
		"ProductName":   strings.TrimSpace(req.ProductName),
		"SiteHostname":  strings.TrimSpace(req.SiteHostname),
		"CategoryHint":  strings.TrimSpace(req.CategoryHint),
		"AvoidedBrands": avoided,
	}), nil
}

// BuildCategoryPrompt renders the lightweight category-only fallback prompt.
func BuildCategoryPrompt(productName string) (string, error) {
	template, err := Get(AnalysisFile, "category-fallback")
	if err != nil {
		return "", err
	}
	return Format(template, map[string]string{
		"ProductName": strings.TrimSpace(productName),
	}), nil
}
