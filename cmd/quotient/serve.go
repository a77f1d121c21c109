package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mateo/quotient/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for cost estimates and workflow orchestration.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	scanURL := os.Getenv("SCAN_SERVICE_URL")
	if scanURL == "" {
		return fmt.Errorf("SCAN_SERVICE_URL environment variable is required")
	}

	cfg := server.Config{
		Port:           servePort,
		DatabaseURL:    databaseURL,
		GeminiAPIKey:   apiKey,
		ScanServiceURL: scanURL,
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
