package estimation

import (
	"github.com/shopspring/decimal"

	"github.com/mateo/quotient/internal/pricing"
	"github.com/mateo/quotient/internal/types"
)

// fallbackQuote is the degraded path used when the decomposition
// collaborator fails. It synthesizes two deterministic work items sized by
// goal count, prices them through the normal cost model, and applies a fixed
// 20% risk adjustment. Availability over precision: a labeled, conservative
// quote beats no quote.
func (e *Estimator) fallbackQuote(req Request) *types.CostQuote {
	goalCount := len(req.Goals)
	if goalCount < 1 {
		goalCount = 1
	}

	items := []types.WorkItem{
		{
			ID:             "fallback_analysis",
			Name:           "Basic analysis",
			Description:    "Baseline statistical analysis across stated goals",
			Type:           types.WorkItemStatisticalAnalysis,
			Complexity:     types.ComplexityBasic,
			EstimatedHours: 2.0 * float64(goalCount),
		},
		{
			ID:             "fallback_visualization",
			Name:           "Basic visualization",
			Description:    "Summary charts for the analysis results",
			Type:           types.WorkItemVisualization,
			Complexity:     types.ComplexityBasic,
			EstimatedHours: 1.0 * float64(goalCount),
		},
	}

	lineItems := make([]types.CostLineItem, len(items))
	var subtotal int64
	var totalHours float64
	for i, item := range items {
		lineItems[i] = pricing.PriceWorkItem(item, req.Journey, req.DataContext.SizeInMB)
		subtotal += lineItems[i].FinalCost
		totalHours += item.EstimatedHours
	}

	total := pricing.RoundMinorUnits(
		decimal.NewFromInt(subtotal).Mul(decimal.NewFromFloat(fallbackRiskMultiplier)))

	return &types.CostQuote{
		LineItems:             lineItems,
		TotalCost:             total,
		TotalHours:            totalHours,
		ComplexityScore:       float64(goalCount),
		RiskAdjustmentPercent: fallbackRiskPercent,
		Recommendations: []string{
			"Automatic goal decomposition was unavailable, so this is a conservative baseline estimate; resubmit later for an itemized quote.",
		},
	}
}
