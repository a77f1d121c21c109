package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mateo/quotient/internal/decomposition"
	"github.com/mateo/quotient/internal/estimation"
	"github.com/mateo/quotient/internal/observability"
	"github.com/mateo/quotient/internal/pricing"
	"github.com/mateo/quotient/internal/types"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Generate a cost quote for a set of analysis goals",
	Long:  "Decomposes analysis goals into work items via the model provider, prices them, and writes an itemized CostQuote JSON. With --quick, computes an offline ballpark total instead.",
	RunE:  runEstimate,
}

var (
	estimateGoals      []string
	estimateQuestions  []string
	estimateJourney    string
	estimateComplexity string
	estimateDataSizeMB float64
	estimateOutput     string
	estimateQuick      bool
	estimateVerbose    bool
)

func init() {
	estimateCmd.Flags().StringArrayVarP(&estimateGoals, "goal", "g", nil, "Analysis goal (repeatable, at least one required)")
	estimateCmd.Flags().StringArrayVarP(&estimateQuestions, "question", "q", nil, "Analysis question (repeatable)")
	estimateCmd.Flags().StringVar(&estimateJourney, "journey", "guided", "Journey type: guided, business, or technical")
	estimateCmd.Flags().StringVar(&estimateComplexity, "complexity", "", "Complexity tier for --quick: basic, intermediate, or advanced")
	estimateCmd.Flags().Float64Var(&estimateDataSizeMB, "data-size-mb", 0, "Dataset size in MB")
	estimateCmd.Flags().StringVarP(&estimateOutput, "out", "o", "", "Path to output CostQuote JSON file (default: stdout)")
	estimateCmd.Flags().BoolVar(&estimateQuick, "quick", false, "Compute an offline ballpark total without the model provider")
	estimateCmd.Flags().BoolVarP(&estimateVerbose, "verbose", "v", false, "Print a formatted quote summary")

	if err := estimateCmd.MarkFlagRequired("goal"); err != nil {
		panic(fmt.Sprintf("failed to mark goal flag as required: %v", err))
	}

	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(_ *cobra.Command, _ []string) error {
	if estimateQuick {
		total := estimation.QuickEstimate(len(estimateGoals), len(estimateQuestions),
			types.JourneyType(estimateJourney), types.ComplexityTier(estimateComplexity))
		fmt.Fprintf(os.Stdout, "Quick estimate: %s\n", pricing.FormatMinorUnits(total))
		return nil
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	ctx := context.Background()
	adapter, err := decomposition.NewGeminiAdapter(ctx, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create decomposition adapter: %w", err)
	}
	defer adapter.Close()

	quote := estimation.NewEstimator(adapter).EstimateFull(ctx, estimation.Request{
		Goals:       estimateGoals,
		Questions:   estimateQuestions,
		Journey:     types.JourneyType(estimateJourney),
		DataContext: types.DataContext{SizeInMB: estimateDataSizeMB},
	})

	if estimateVerbose {
		observability.NewPrinter(os.Stdout).PrintQuote(quote)
	}

	jsonOutput, err := json.MarshalIndent(quote, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal quote to JSON: %w", err)
	}

	if estimateOutput == "" {
		fmt.Fprintln(os.Stdout, string(jsonOutput))
		return nil
	}

	outputDir := filepath.Dir(estimateOutput)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}
	if err := os.WriteFile(estimateOutput, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write quote to output file %s: %w", estimateOutput, err)
	}

	fmt.Fprintf(os.Stdout, "Wrote quote with %d line items to %s\n", len(quote.LineItems), estimateOutput)
	return nil
}
