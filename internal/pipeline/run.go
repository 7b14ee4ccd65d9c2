// Package pipeline provides the high-level orchestration for a single
// product analysis: prompt construction, LLM company research, parsing and
// screening, alignment scoring, and alternative sourcing.
package pipeline

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ethicart/internal/alternatives"
	"github.com/jonathan/ethicart/internal/denylist"
	"github.com/jonathan/ethicart/internal/llm"
	"github.com/jonathan/ethicart/internal/observability"
	"github.com/jonathan/ethicart/internal/online"
	"github.com/jonathan/ethicart/internal/parsing"
	"github.com/jonathan/ethicart/internal/prompts"
	"github.com/jonathan/ethicart/internal/scoring"
	"github.com/jonathan/ethicart/internal/types"
)

// fallbackScoreDelta produces the neutral score of 50 when company research
// is unavailable.
const fallbackScoreDelta = -50

// Request is one product analysis request. It lives for the duration of a
// single Run call; nothing here is persisted.
type Request struct {
	Product             types.ProductQuery
	Preferences         types.UserPreferences
	CurrentSiteHostname string
}

// Result is the complete response for one product analysis.
type Result struct {
	RequestID    string                   `json:"request_id"`
	Analysis     *types.CompanyAnalysis   `json:"analysis"`
	Alternatives types.AlternativesResult `json:"alternatives"`
	// Fallback is set when company research failed and the neutral
	// analysis was substituted.
	Fallback bool `json:"fallback,omitempty"`
}

// Options wires the runner's collaborators. Places and Search are optional;
// a nil provider disables the corresponding alternative source instead of
// failing requests.
type Options struct {
	LLM    llm.Client
	Places alternatives.PlacesSearcher
	Search online.WebSearcher
	// Finder overrides the finder built from Search, for callers that
	// need a custom price scraping policy.
	Finder   *online.Finder
	Tables   *denylist.Tables
	Printer  *observability.Printer
	MaxLocal int
	Verbose  bool
}

// Runner executes product analyses. Safe for concurrent use.
type Runner struct {
	opts   Options
	finder *online.Finder
}

// NewRunner validates the options and builds a runner.
func NewRunner(opts Options) (*Runner, error) {
	if opts.LLM == nil {
		return nil, &ConfigError{Message: "LLM client is required"}
	}
	if opts.Tables == nil {
		opts.Tables = denylist.MustLoad()
	}
	if opts.MaxLocal <= 0 {
		opts.MaxLocal = alternatives.DefaultLocalCap
	}

	finder := opts.Finder
	if finder == nil && opts.Search != nil {
		finder = online.NewFinder(opts.Search, opts.Tables)
	}

	return &Runner{opts: opts, finder: finder}, nil
}

// Run analyzes one product and sources alternatives. Company research
// failures degrade to a neutral analysis; only misconfiguration, invalid
// input, and provider rate limits surface as errors.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Product.Name) == "" {
		return nil, &ConfigError{Message: "product name is required"}
	}
	if req.Preferences.Location != nil {
		if err := req.Preferences.Location.Validate(); err != nil {
			return nil, &ConfigError{Message: "invalid location", Cause: err}
		}
	}

	requestID := uuid.NewString()
	log.Printf("[PIPELINE] %s analyzing %q from %q", requestID, req.Product.Name, req.CurrentSiteHostname)

	analysis, fallback, err := r.analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	if !fallback {
		scoring.Apply(analysis, req.Preferences)
	}
	if r.opts.Verbose && r.opts.Printer != nil {
		r.opts.Printer.PrintAnalysis(analysis)
	}

	result := &Result{
		RequestID: requestID,
		Analysis:  analysis,
		Fallback:  fallback,
	}

	// Local and online sourcing run concurrently; they write disjoint
	// result fields and individually degrade to empty lists.
	g, gctx := errgroup.WithContext(ctx)

	if r.opts.Places != nil && req.Preferences.SupportLocalEnabled {
		g.Go(func() error {
			records := alternatives.Aggregate(gctx, r.opts.Places, analysis, req.Preferences.Location)
			result.Alternatives.Local = alternatives.Rank(
				records, analysis.ProductCategory, req.CurrentSiteHostname,
				req.Preferences.Location, r.opts.Tables, r.opts.MaxLocal)
			return nil
		})
	}

	if r.finder != nil {
		g.Go(func() error {
			result.Alternatives.Online = r.finder.Find(gctx, req.Product.Name, analysis.ProductCategory)
			return nil
		})
	}

	_ = g.Wait()

	if r.opts.Verbose && r.opts.Printer != nil {
		r.opts.Printer.PrintAlternatives(&result.Alternatives)
	}

	log.Printf("[PIPELINE] %s done: score=%d local=%d online=%d fallback=%t",
		requestID, analysis.AlignmentScore, len(result.Alternatives.Local),
		len(result.Alternatives.Online), fallback)

	return result, nil
}

// analyze runs company research and parsing. The bool result reports
// whether the neutral fallback was substituted.
func (r *Runner) analyze(ctx context.Context, req Request) (*types.CompanyAnalysis, bool, error) {
	prompt, err := prompts.BuildAnalysisPrompt(prompts.AnalysisRequest{
		ProductName:   req.Product.Name,
		SiteHostname:  req.CurrentSiteHostname,
		CategoryHint:  req.Product.CategoryHint,
		AvoidedBrands: req.Preferences.AvoidedBrands,
	})
	if err != nil {
		return nil, false, &ConfigError{Message: "failed to build analysis prompt", Cause: err}
	}

	raw, err := r.opts.LLM.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		if errors.Is(err, llm.ErrRateLimited) {
			return nil, false, &RateLimitError{Provider: "llm", Cause: err}
		}
		// A dead request context is the caller's timeout, not a provider
		// outage; a fabricated neutral analysis would be misleading there.
		if ctx.Err() != nil {
			return nil, false, &NetworkError{Provider: "llm", Cause: err}
		}
		log.Printf("[PIPELINE] company research failed, using neutral fallback: %v", err)
		return neutralFallback(req.Product), true, nil
	}

	analysis, err := parsing.ParseCompanyAnalysis(raw)
	if err != nil {
		var parseErr *parsing.ParseError
		if errors.As(err, &parseErr) {
			log.Printf("[PIPELINE] unparseable analysis, using neutral fallback: %v", err)
			return neutralFallback(req.Product), true, nil
		}
		return nil, false, err
	}

	if analysis.ProductCategory == "" {
		analysis.ProductCategory = r.inferCategory(ctx, req.Product)
	}

	return analysis, false, nil
}

// inferCategory fills a missing product category, preferring the caller's
// hint over a lite-tier completion. Failures leave the category empty; the
// ranker and finder both tolerate that.
func (r *Runner) inferCategory(ctx context.Context, product types.ProductQuery) string {
	if hint := strings.TrimSpace(product.CategoryHint); hint != "" {
		return hint
	}

	prompt, err := prompts.BuildCategoryPrompt(product.Name)
	if err != nil {
		return ""
	}
	category, err := r.opts.LLM.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		log.Printf("[PIPELINE] category fallback failed: %v", err)
		return ""
	}
	return strings.ToLower(strings.TrimSpace(category))
}

// neutralFallback is the analysis returned when company research fails.
// It scores exactly 50 and carries the neutral explanation.
func neutralFallback(product types.ProductQuery) *types.CompanyAnalysis {
	analysis := &types.CompanyAnalysis{
		ParentCompany:       "Unknown",
		CompanySize:         types.SizeUnknown,
		OwnershipType:       types.OwnershipUnknown,
		FactualConcerns:     []string{},
		Certifications:      []string{},
		Subsidiaries:        []string{},
		ProductCategory:     strings.TrimSpace(product.CategoryHint),
		SuggestedStoreTypes: []string{},
		SuggestedStoreNames: []string{},
		ImpactExplanation:   parsing.NeutralExplanation,
		ScoreBreakdown: []types.ScoreComponent{
			{Reason: "Company analysis unavailable", Delta: fallbackScoreDelta},
		},
	}
	analysis.AlignmentScore = types.BreakdownTotal(analysis.ScoreBreakdown)
	return analysis
}
