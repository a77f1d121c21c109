// Package estimation aggregates priced work items into itemized cost quotes.
package estimation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mateo/quotient/internal/decomposition"
	"github.com/mateo/quotient/internal/pricing"
	"github.com/mateo/quotient/internal/types"
)

// Request is the input to the full estimation path.
type Request struct {
	Goals       []string
	Questions   []string
	Journey     types.JourneyType
	DataContext types.DataContext
}

// Estimator turns goals and questions into cost quotes. It is stateless and
// safe for concurrent use; construct one at startup and share it.
type Estimator struct {
	adapter decomposition.Adapter
}

// NewEstimator creates an estimator backed by the given decomposition
// adapter.
func NewEstimator(adapter decomposition.Adapter) *Estimator {
	return &Estimator{adapter: adapter}
}

// EstimateFull produces an itemized quote for the request. The decomposition
// collaborator may fail; that failure is absorbed here and a flagged
// fallback quote is returned instead, so the caller always receives a quote.
func (e *Estimator) EstimateFull(ctx context.Context, req Request) *types.CostQuote {
	analysis, err := e.adapter.Analyze(ctx, req.Goals, req.Questions, req.Journey, req.DataContext)
	if err != nil {
		return e.fallbackQuote(req)
	}

	lineItems := e.priceAll(ctx, analysis.WorkItems, req.Journey, req.DataContext.SizeInMB)

	var subtotal int64
	var totalHours float64
	for i, li := range lineItems {
		subtotal += li.FinalCost
		totalHours += analysis.WorkItems[i].EstimatedHours
	}
	if analysis.EstimatedTotalHours > 0 {
		totalHours = analysis.EstimatedTotalHours
	}

	riskMultiplier := computeRiskMultiplier(analysis.RiskFactors, req.Journey, analysis.WorkItems)
	riskPercent := (riskMultiplier - 1.0) * 100.0

	total := pricing.RoundMinorUnits(
		decimal.NewFromInt(subtotal).Mul(decimal.NewFromFloat(riskMultiplier)))

	return &types.CostQuote{
		LineItems:             lineItems,
		TotalCost:             total,
		TotalHours:            totalHours,
		ComplexityScore:       analysis.TotalComplexityScore,
		RiskAdjustmentPercent: riskPercent,
		Recommendations:       buildRecommendations(req, analysis.WorkItems, lineItems),
	}
}

// priceAll prices every work item through the cost model. Items are priced
// in parallel but written to their original index, so the output order (and
// therefore the serialized quote) is deterministic.
func (e *Estimator) priceAll(ctx context.Context, items []types.WorkItem, journey types.JourneyType, dataSizeMB float64) []types.CostLineItem {
	lineItems := make([]types.CostLineItem, len(items))

	g, _ := errgroup.WithContext(ctx)
	for i, item := range items {
		g.Go(func() error {
			lineItems[i] = pricing.PriceWorkItem(item, journey, dataSizeMB)
			return nil
		})
	}
	// Pricing never fails, so Wait only synchronizes.
	_ = g.Wait()

	return lineItems
}

// QuickEstimate is the coarse synchronous path: a flat per-goal and
// per-question price scaled by the same complexity and journey tables as the
// full path, so relative ordering between journey and complexity
// combinations matches the itemized quotes. Returns minor currency units.
func QuickEstimate(goalCount, questionCount int, journey types.JourneyType, complexity types.ComplexityTier) int64 {
	if goalCount < 0 {
		goalCount = 0
	}
	if questionCount < 0 {
		questionCount = 0
	}

	base := int64(goalCount)*2500 + int64(questionCount)*1000
	complexityMult, _ := pricing.ComplexityMultiplier(complexity)
	journeyMult, _ := pricing.JourneyMultiplier(journey)

	return pricing.RoundMinorUnits(
		decimal.NewFromInt(base).
			Mul(decimal.NewFromFloat(complexityMult)).
			Mul(decimal.NewFromFloat(journeyMult)))
}

// describeGoalCount renders a goal count for recommendation text.
func describeGoalCount(n int) string {
	if n == 1 {
		return "1 goal"
	}
	return fmt.Sprintf("%d goals", n)
}
