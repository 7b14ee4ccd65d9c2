package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ethicart/internal/server"
)

var (
	serveConfigPath string
	serveAddr       string
	serveVerbose    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start the HTTP server the browser extension talks to. Exposes POST /analyze and GET /health.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json (environment variables take priority)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to ETHICART_ADDR or :8090)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print formatted analysis boxes per request")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.ListenAddr = serveAddr
	}

	runner, cleanup, err := buildRunner(context.Background(), cfg, serveVerbose)
	if err != nil {
		return err
	}
	defer cleanup()

	srv, err := server.New(server.Config{
		Addr:      cfg.ListenAddr,
		AuthToken: cfg.AuthToken,
	}, runner)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
