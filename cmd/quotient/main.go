// Package main provides the entry point for the Quotient estimation server
// and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quotient",
	Short: "Cost estimation and workflow orchestration service",
	Long:  "Quotient turns analysis goals into itemized cost quotes and walks data-analysis projects through a fixed intake pipeline via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
