// Package decomposition defines the goal decomposition collaborator boundary
// and a Gemini-backed implementation of it.
package decomposition

import (
	"context"

	"github.com/mateo/quotient/internal/types"
)

// Analysis is the collaborator's output for one estimation request: typed
// work items plus qualitative risk factors and aggregate scores.
type Analysis struct {
	WorkItems            []types.WorkItem `json:"work_items"`
	RiskFactors          []string         `json:"risk_factors"`
	TotalComplexityScore float64          `json:"total_complexity_score"`
	EstimatedTotalHours  float64          `json:"estimated_total_hours"`
}

// Adapter decomposes analysis goals and questions into priced work. Any
// returned error is caught by the aggregator and converted to a fallback
// quote; it is never surfaced to the caller of the estimation entry point.
type Adapter interface {
	Analyze(ctx context.Context, goals, questions []string, journey types.JourneyType, dataCtx types.DataContext) (*Analysis, error)
}
