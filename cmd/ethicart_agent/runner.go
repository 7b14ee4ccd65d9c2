package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/ethicart/internal/config"
	"github.com/jonathan/ethicart/internal/denylist"
	"github.com/jonathan/ethicart/internal/llm"
	"github.com/jonathan/ethicart/internal/observability"
	"github.com/jonathan/ethicart/internal/online"
	"github.com/jonathan/ethicart/internal/pipeline"
	"github.com/jonathan/ethicart/internal/providers"
)

// loadConfig layers the optional config file under the environment.
func loadConfig(path string) (config.Config, error) {
	cfg := config.FromEnv()
	if path != "" {
		fileCfg, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	cfg = cfg.WithDefaults()
	return cfg, cfg.Validate()
}

// buildRunner wires providers from configuration. The returned cleanup
// releases the LLM client.
func buildRunner(ctx context.Context, cfg config.Config, verbose bool) (*pipeline.Runner, func(), error) {
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	cleanup := func() { _ = client.Close() }

	opts := pipeline.Options{
		LLM:      client,
		Printer:  observability.NewPrinter(os.Stdout),
		MaxLocal: cfg.MaxLocalResults,
		Verbose:  verbose || cfg.Verbose,
	}

	if cfg.PlacesAPIKey != "" {
		opts.Places = providers.NewPlacesClient(cfg.PlacesAPIKey, providers.DefaultPlacesBaseURL)
	}
	if cfg.SearchAPIKey != "" {
		opts.Search = providers.NewSearchClient(cfg.SearchAPIKey, providers.DefaultSearchBaseURL)
		if cfg.UseBrowser {
			scrapeOpts := &online.ScrapeOptions{UseBrowser: true}
			opts.Finder = online.NewFinder(opts.Search, denylist.MustLoad()).
				WithScraper(func(ctx context.Context, pageURL string) *float64 {
					return online.ScrapePrice(ctx, pageURL, scrapeOpts)
				})
		}
	}

	runner, err := pipeline.NewRunner(opts)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return runner, cleanup, nil
}
