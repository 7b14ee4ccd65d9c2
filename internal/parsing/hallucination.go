package parsing

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// NeutralExplanation replaces impact explanations that look like model
// repetition loops. Repetitive text is a known upstream failure mode and
// must not reach the user verbatim.
const NeutralExplanation = "Information about this company's broader impact is limited; consider researching further before purchasing."

// earliestPlausibleYear bounds year tokens in factual concerns. Anything
// earlier predates the companies this feature covers.
const earliestPlausibleYear = 1800

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// placeholderMarkers flag concern entries the model filled with template
// text instead of facts.
var placeholderMarkers = []string{"example", "placeholder"}

// ScreenConcerns drops concern entries that carry hallucination signals:
// four-digit year tokens outside [1800, current year], or literal
// placeholder markers. Screening filters, it never fails.
func ScreenConcerns(concerns []string) []string {
	currentYear := time.Now().Year()
	kept := make([]string, 0, len(concerns))

	for _, concern := range concerns {
		if hasImplausibleYear(concern, currentYear) {
			continue
		}
		if hasPlaceholderMarker(concern) {
			continue
		}
		kept = append(kept, concern)
	}
	return kept
}

// ScreenExplanation detects repetition loops in the impact explanation.
// If the text has more than 10 words and fewer than half of them are
// distinct, it is replaced with a fixed neutral sentence.
func ScreenExplanation(explanation string) string {
	words := strings.Fields(strings.ToLower(explanation))
	if len(words) <= 10 {
		return explanation
	}

	distinct := make(map[string]struct{}, len(words))
	for _, w := range words {
		distinct[w] = struct{}{}
	}

	ratio := float64(len(distinct)) / float64(len(words))
	if ratio < 0.5 {
		return NeutralExplanation
	}
	return explanation
}

func hasImplausibleYear(text string, currentYear int) bool {
	for _, match := range yearPattern.FindAllString(text, -1) {
		year, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		if year < earliestPlausibleYear || year > currentYear {
			return true
		}
	}
	return false
}

func hasPlaceholderMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
