package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ethicart/internal/pipeline"
	"github.com/jonathan/ethicart/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a single product from the command line",
	Long: `Runs one product analysis end-to-end: company research, alignment
scoring, and alternative sourcing. Results print as JSON; use --verbose for
a formatted summary alongside.`,
	RunE: runAnalyze,
}

var (
	analyzeConfigPath  string
	analyzeProduct     string
	analyzeCategory    string
	analyzeSite        string
	analyzeAvoid       []string
	analyzeLat         float64
	analyzeLon         float64
	analyzeLocal       bool
	analyzeSustainable bool
	analyzeVerbose     bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json (environment variables take priority)")
	analyzeCmd.Flags().StringVarP(&analyzeProduct, "product", "p", "", "Product name as shown on the retail page (required)")
	analyzeCmd.Flags().StringVar(&analyzeCategory, "category", "", "Optional product category hint")
	analyzeCmd.Flags().StringVar(&analyzeSite, "site", "", "Hostname of the page the product was seen on")
	analyzeCmd.Flags().StringSliceVar(&analyzeAvoid, "avoid", nil, "Brands to avoid (repeatable or comma-separated)")
	analyzeCmd.Flags().Float64Var(&analyzeLat, "lat", 0, "User latitude for local alternatives")
	analyzeCmd.Flags().Float64Var(&analyzeLon, "lon", 0, "User longitude for local alternatives")
	analyzeCmd.Flags().BoolVar(&analyzeLocal, "local", false, "Enable local brick-and-mortar alternatives")
	analyzeCmd.Flags().BoolVar(&analyzeSustainable, "sustainable", false, "Award certification bonuses in the alignment score")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print formatted analysis boxes")

	_ = analyzeCmd.MarkFlagRequired("product")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(analyzeConfigPath)
	if err != nil {
		return err
	}

	runner, cleanup, err := buildRunner(ctx, cfg, analyzeVerbose)
	if err != nil {
		return err
	}
	defer cleanup()

	prefs := types.UserPreferences{
		AvoidedBrands:        analyzeAvoid,
		SupportLocalEnabled:  analyzeLocal,
		SustainablePreferred: analyzeSustainable,
	}
	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
		prefs.Location = &types.Coordinate{Lat: analyzeLat, Lon: analyzeLon}
	}

	result, err := runner.Run(ctx, pipeline.Request{
		Product: types.ProductQuery{
			Name:         analyzeProduct,
			CategoryHint: analyzeCategory,
		},
		Preferences:         prefs,
		CurrentSiteHostname: analyzeSite,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
