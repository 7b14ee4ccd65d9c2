package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ethicart/internal/denylist"
	"github.com/jonathan/ethicart/internal/llm"
	"github.com/jonathan/ethicart/internal/online"
	"github.com/jonathan/ethicart/internal/parsing"
	"github.com/jonathan/ethicart/internal/providers"
	"github.com/jonathan/ethicart/internal/types"
)

type fakeLLM struct {
	response string
	content  string
	err      error
	prompts  []string
}

func (f *fakeLLM) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeLLM) Close() error                  { return nil }

type fakePlaces struct {
	records []types.PlaceRecord
	calls   int
}

func (f *fakePlaces) SearchText(_ context.Context, _ providers.PlacesQuery) ([]types.PlaceRecord, error) {
	f.calls++
	return f.records, nil
}

type fakeSearch struct {
	results []types.SearchResult
	calls   int
}

func (f *fakeSearch) Search(_ context.Context, _ string, _ int) ([]types.SearchResult, error) {
	f.calls++
	return f.results, nil
}

const analysisJSON = `{
	"parentCompany": "Hydro Holdings",
	"companySize": "small-business",
	"ownershipType": "family-owned",
	"factualConcerns": [],
	"certifications": ["B-Corp"],
	"subsidiaries": [],
	"productCategory": "water bottle",
	"suggestedStoreTypes": ["sporting_goods_store"],
	"suggestedStoreNames": ["Mission Outfitters"],
	"impactExplanation": "A small family-owned drinkware maker."
}`

func sfLocation() *types.Coordinate {
	return &types.Coordinate{Lat: 37.7749, Lon: -122.4194}
}

func newRunner(t *testing.T, opts Options) *Runner {
	t.Helper()
	runner, err := NewRunner(opts)
	require.NoError(t, err)
	return runner
}

func TestNewRunner_RequiresLLM(t *testing.T) {
	_, err := NewRunner(Options{})

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestRun_FullAnalysis(t *testing.T) {
	client := &fakeLLM{response: analysisJSON}
	places := &fakePlaces{records: []types.PlaceRecord{{
		ID:             "p1",
		DisplayName:    "Mission Outfitters",
		Location:       types.Coordinate{Lat: 37.76, Lon: -122.42},
		Types:          []string{"sporting_goods_store"},
		BusinessStatus: types.StatusOpen,
	}}}
	search := &fakeSearch{results: []types.SearchResult{{
		Title:       "Steel Bottle - Mountain Supply",
		URL:         "https://mountain-supply.com/p/1",
		Description: "Independent retailer stocking insulated steel water bottles and outdoor gear.",
	}}}
	finder := online.NewFinder(search, denylist.MustLoad()).
		WithScraper(func(context.Context, string) *float64 { return nil })

	runner := newRunner(t, Options{LLM: client, Places: places, Search: search, Finder: finder})

	result, err := runner.Run(context.Background(), Request{
		Product: types.ProductQuery{Name: "steel water bottle"},
		Preferences: types.UserPreferences{
			Location:             sfLocation(),
			SupportLocalEnabled:  true,
			SustainablePreferred: true,
		},
		CurrentSiteHostname: "hydroflask.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RequestID)
	assert.False(t, result.Fallback)
	assert.Equal(t, "Hydro Holdings", result.Analysis.ParentCompany)
	// small-business +10, family-owned +10, B-Corp +15, clamped to 100.
	assert.Equal(t, 100, result.Analysis.AlignmentScore)
	assert.Equal(t, result.Analysis.AlignmentScore, types.BreakdownTotal(result.Analysis.ScoreBreakdown))

	require.Len(t, result.Alternatives.Local, 1)
	assert.Equal(t, "Mission Outfitters", result.Alternatives.Local[0].Name)
	assert.NotEmpty(t, result.Alternatives.Local[0].DistanceLabel)

	require.Len(t, result.Alternatives.Online, 1)
	assert.Equal(t, "mountain-supply.com", result.Alternatives.Online[0].Domain)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "steel water bottle")
	assert.Contains(t, client.prompts[0], "hydroflask.com")
}

func TestRun_AvoidedBrandEnrichment(t *testing.T) {
	client := &fakeLLM{response: `{
		"parentCompany": "Amazon",
		"companySize": "mega-corp",
		"ownershipType": "publicly-traded"
	}`}
	runner := newRunner(t, Options{LLM: client})

	result, err := runner.Run(context.Background(), Request{
		Product:     types.ProductQuery{Name: "steel bottle"},
		Preferences: types.UserPreferences{AvoidedBrands: []string{"Amazon"}},
	})
	require.NoError(t, err)

	assert.True(t, result.Analysis.IsOnAvoidList)
	// mega-corp -15, public mega -10, avoided parent -30.
	assert.Equal(t, 45, result.Analysis.AlignmentScore)
}

func TestRun_CategoryFallbackUsesLiteCompletion(t *testing.T) {
	client := &fakeLLM{
		response: `{
			"parentCompany": "Hydro Holdings",
			"companySize": "small-business",
			"ownershipType": "family-owned"
		}`,
		content: "Water Bottle\n",
	}
	runner := newRunner(t, Options{LLM: client})

	result, err := runner.Run(context.Background(), Request{
		Product: types.ProductQuery{Name: "steel water bottle"},
	})
	require.NoError(t, err)

	assert.Equal(t, "water bottle", result.Analysis.ProductCategory)
	require.Len(t, client.prompts, 2)
	assert.Contains(t, client.prompts[1], "steel water bottle")
}

func TestRun_CategoryHintSkipsFallbackCompletion(t *testing.T) {
	client := &fakeLLM{
		response: `{
			"parentCompany": "Hydro Holdings",
			"companySize": "small-business",
			"ownershipType": "family-owned"
		}`,
	}
	runner := newRunner(t, Options{LLM: client})

	result, err := runner.Run(context.Background(), Request{
		Product: types.ProductQuery{Name: "steel bottle", CategoryHint: "drinkware"},
	})
	require.NoError(t, err)

	assert.Equal(t, "drinkware", result.Analysis.ProductCategory)
	require.Len(t, client.prompts, 1)
}

func TestRun_RateLimitSurfaced(t *testing.T) {
	client := &fakeLLM{err: fmt.Errorf("%w: quota exhausted", llm.ErrRateLimited)}
	runner := newRunner(t, Options{LLM: client})

	_, err := runner.Run(context.Background(), Request{
		Product: types.ProductQuery{Name: "steel bottle"},
	})

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "llm", rlErr.Provider)
}

func TestRun_UnavailableFallsBack(t *testing.T) {
	client := &fakeLLM{err: fmt.Errorf("%w: connection refused", llm.ErrUnavailable)}
	runner := newRunner(t, Options{LLM: client})

	result, err := runner.Run(context.Background(), Request{
		Product: types.ProductQuery{Name: "steel bottle", CategoryHint: "drinkware"},
	})
	require.NoError(t, err)

	assert.True(t, result.Fallback)
	assert.Equal(t, "Unknown", result.Analysis.ParentCompany)
	assert.Equal(t, 50, result.Analysis.AlignmentScore)
	assert.Equal(t, "drinkware", result.Analysis.ProductCategory)
	assert.Equal(t, parsing.NeutralExplanation, result.Analysis.ImpactExplanation)
}

func TestRun_DeadContextSurfacesNetworkError(t *testing.T) {
	client := &fakeLLM{err: fmt.Errorf("%w: context canceled", llm.ErrUnavailable)}
	runner := newRunner(t, Options{LLM: client})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, Request{
		Product: types.ProductQuery{Name: "steel bottle"},
	})

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "llm", netErr.Provider)
}

func TestRun_UnparseableFallsBack(t *testing.T) {
	client := &fakeLLM{response: "I could not find any information about this company."}
	runner := newRunner(t, Options{LLM: client})

	result, err := runner.Run(context.Background(), Request{
		Product: types.ProductQuery{Name: "steel bottle"},
	})
	require.NoError(t, err)

	assert.True(t, result.Fallback)
	assert.Equal(t, 50, result.Analysis.AlignmentScore)
}

func TestRun_RequiresProductName(t *testing.T) {
	runner := newRunner(t, Options{LLM: &fakeLLM{response: analysisJSON}})

	_, err := runner.Run(context.Background(), Request{})

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestRun_RejectsInvalidLocation(t *testing.T) {
	runner := newRunner(t, Options{LLM: &fakeLLM{response: analysisJSON}})

	_, err := runner.Run(context.Background(), Request{
		Product:     types.ProductQuery{Name: "steel bottle"},
		Preferences: types.UserPreferences{Location: &types.Coordinate{Lat: 123, Lon: 0}},
	})
	assert.Error(t, err)
}

func TestRun_LocalDisabledWithoutOptIn(t *testing.T) {
	client := &fakeLLM{response: analysisJSON}
	places := &fakePlaces{}
	runner := newRunner(t, Options{LLM: client, Places: places})

	result, err := runner.Run(context.Background(), Request{
		Product:     types.ProductQuery{Name: "steel bottle"},
		Preferences: types.UserPreferences{Location: sfLocation(), SupportLocalEnabled: false},
	})
	require.NoError(t, err)

	assert.Zero(t, places.calls)
	assert.Empty(t, result.Alternatives.Local)
}

func TestRun_ProvidersOptional(t *testing.T) {
	runner := newRunner(t, Options{LLM: &fakeLLM{response: analysisJSON}})

	result, err := runner.Run(context.Background(), Request{
		Product:     types.ProductQuery{Name: "steel bottle"},
		Preferences: types.UserPreferences{Location: sfLocation(), SupportLocalEnabled: true},
	})
	require.NoError(t, err)
	assert.Zero(t, result.Alternatives.Total())
}

func TestErrorTypes_Unwrap(t *testing.T) {
	cause := errors.New("root cause")

	assert.ErrorIs(t, &ConfigError{Message: "m", Cause: cause}, cause)
	assert.ErrorIs(t, &RateLimitError{Provider: "llm", Cause: cause}, cause)
	assert.ErrorIs(t, &NetworkError{Provider: "places", Cause: cause}, cause)
}
