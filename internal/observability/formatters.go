// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ethicart/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis outputs a human-readable summary of a scored company analysis.
func (p *Printer) PrintAnalysis(analysis *types.CompanyAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Parent company:  %s\n", analysis.ParentCompany))
	sb.WriteString(fmt.Sprintf("Size/ownership:  %s / %s\n", analysis.CompanySize, analysis.OwnershipType))
	sb.WriteString(fmt.Sprintf("Alignment score: %d\n", analysis.AlignmentScore))
	if analysis.IsOnAvoidList {
		sb.WriteString(fmt.Sprintf("Avoid list:      %s\n", analysis.AvoidReason))
	}

	if len(analysis.ScoreBreakdown) > 0 {
		sb.WriteString("\nScore breakdown:\n")
		for _, comp := range analysis.ScoreBreakdown {
			sb.WriteString(fmt.Sprintf("  %+d  %s\n", comp.Delta, comp.Reason))
		}
	}

	if len(analysis.FactualConcerns) > 0 {
		sb.WriteString("\nConcerns:\n")
		count := min(len(analysis.FactualConcerns), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", analysis.FactualConcerns[i]))
		}
		if len(analysis.FactualConcerns) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(analysis.FactualConcerns)-maxItemsToShow))
		}
	}

	p.printBox("COMPANY ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAlternatives outputs the local and online alternatives found for a
// product, with distance and price annotations where available.
func (p *Printer) PrintAlternatives(alts *types.AlternativesResult) {
	if alts == nil || alts.Total() == 0 {
		return
	}

	var sb strings.Builder

	if len(alts.Local) > 0 {
		sb.WriteString("Local:\n")
		for _, place := range alts.Local {
			sb.WriteString(fmt.Sprintf("  • %s", place.Name))
			if place.DistanceLabel != "" {
				sb.WriteString(fmt.Sprintf(" (%s, %s)", place.DistanceLabel, place.TravelLabel))
			}
			sb.WriteString("\n")
		}
	}

	if len(alts.Online) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("Online:\n")
		for _, retailer := range alts.Online {
			sb.WriteString(fmt.Sprintf("  • %s", retailer.Name))
			if retailer.HasPrice && retailer.ScrapedPrice != nil {
				sb.WriteString(fmt.Sprintf(" ($%.2f)", *retailer.ScrapedPrice))
			}
			sb.WriteString(fmt.Sprintf(" via %s\n", retailer.Domain))
		}
	}

	p.printBox("ALTERNATIVES", strings.TrimSuffix(sb.String(), "\n"))
}
