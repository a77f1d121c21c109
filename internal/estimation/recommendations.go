package estimation

import (
	"fmt"

	"github.com/mateo/quotient/internal/pricing"
	"github.com/mateo/quotient/internal/types"
)

// Thresholds for recommendation rules.
const (
	expensiveLineItemCents = 150000 // $1500
	highDataSizeMultiplier = 1.5
	manyGoalsThreshold     = 5
)

// buildRecommendations runs the independent recommendation rules. The rules
// are not mutually exclusive; every rule that fires contributes one string,
// in a fixed order.
func buildRecommendations(req Request, items []types.WorkItem, lineItems []types.CostLineItem) []string {
	recs := make([]string, 0, 4)

	for _, li := range lineItems {
		if li.FinalCost > expensiveLineItemCents {
			recs = append(recs, fmt.Sprintf(
				"%q is a major cost driver at %s; consider simplifying or splitting it.",
				li.Name, pricing.FormatMinorUnits(li.FinalCost)))
			break
		}
	}

	if req.Journey == types.JourneyGuided && hasAdvancedItem(items) {
		recs = append(recs,
			"This plan includes advanced work; the business or technical journey may fit better than guided.")
	}

	for _, li := range lineItems {
		if li.DataSizeMultiplier > highDataSizeMultiplier {
			recs = append(recs,
				"Data volume is driving costs up significantly; consider analyzing a representative sample first.")
			break
		}
	}

	if len(req.Goals) > manyGoalsThreshold {
		recs = append(recs, fmt.Sprintf(
			"%s is a lot for one request; phasing the work across multiple requests will keep each estimate tighter.",
			describeGoalCount(len(req.Goals))))
	}

	return recs
}
