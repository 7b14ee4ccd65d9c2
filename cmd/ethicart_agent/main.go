// Package main provides the entry point for the Ethicart API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ethicart_agent",
	Short: "Ethicart product analysis service",
	Long:  "Ethicart researches the corporate ownership behind a product, scores how well it aligns with the shopper's values, and suggests local and independent online alternatives.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
