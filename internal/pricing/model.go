package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mateo/quotient/internal/types"
)

// PriceWorkItem converts one work item into a cost line item. It never
// fails: out-of-range inputs are clamped or defaulted and the adjustment is
// flagged in the reasoning string, because a quote must always be producible.
//
// FinalCost is round-half-up(baseCost * complexity * journey * dataSize),
// computed with decimal arithmetic so identical inputs always produce
// bit-identical results.
func PriceWorkItem(item types.WorkItem, journey types.JourneyType, dataSizeMB float64) types.CostLineItem {
	var notes []string

	rate, knownType := HourlyRate(item.Type)
	if !knownType {
		notes = append(notes, fmt.Sprintf("unrecognized work item type %q, default rate applied", string(item.Type)))
	}

	hours := item.EstimatedHours
	if hours <= 0 {
		notes = append(notes, fmt.Sprintf("estimated hours %.1f invalid, floor of %.1fh applied", hours, minimumHours))
		hours = minimumHours
	}

	complexityMult, knownTier := ComplexityMultiplier(item.Complexity)
	if !knownTier {
		notes = append(notes, fmt.Sprintf("unrecognized complexity %q, treated as basic", string(item.Complexity)))
	}

	journeyMult, knownJourney := JourneyMultiplier(journey)
	if !knownJourney {
		notes = append(notes, fmt.Sprintf("unrecognized journey %q, treated as guided", string(journey)))
	}

	if dataSizeMB < 0 {
		notes = append(notes, fmt.Sprintf("data size %.1fMB invalid, treated as 0", dataSizeMB))
		dataSizeMB = 0
	}
	sizeMult := dataSizeMultiplier(item.Type, dataSizeMB)

	base := decimal.NewFromInt(rate).Mul(decimal.NewFromFloat(hours))
	final := base.
		Mul(decimal.NewFromFloat(complexityMult)).
		Mul(decimal.NewFromFloat(journeyMult)).
		Mul(decimal.NewFromFloat(sizeMult)).
		Round(0).IntPart()

	baseCost, _ := base.Float64()

	return types.CostLineItem{
		WorkItemID:           item.ID,
		Name:                 item.Name,
		Type:                 item.Type,
		BaseCost:             baseCost,
		ComplexityMultiplier: complexityMult,
		JourneyMultiplier:    journeyMult,
		DataSizeMultiplier:   sizeMult,
		FinalCost:            final,
		Reasoning:            buildReasoning(item, journey, hours, rate, complexityMult, journeyMult, sizeMult, notes),
	}
}

// dataSizeMultiplier computes 1 + sizeMB * factor / 10000 for the item type.
func dataSizeMultiplier(t types.WorkItemType, sizeMB float64) float64 {
	if sizeMB <= 0 {
		return 1.0
	}
	return 1.0 + sizeMB*SizeFactor(t)/10000.0
}

// buildReasoning assembles the audit string for a line item. Factors at
// their neutral value (1.0) are omitted to keep the payload focused on what
// actually moved the price. The order of parts is fixed so identical inputs
// produce identical strings.
func buildReasoning(item types.WorkItem, journey types.JourneyType, hours float64, rate int64, complexityMult, journeyMult, sizeMult float64, notes []string) string {
	parts := make([]string, 0, 4+len(notes))
	parts = append(parts, fmt.Sprintf("base: %.1fh × %s/h", hours, FormatMinorUnits(rate)))

	if complexityMult != 1.0 {
		parts = append(parts, fmt.Sprintf("%s complexity: ×%.2f", string(item.Complexity), complexityMult))
	}
	if journeyMult != 1.0 {
		parts = append(parts, fmt.Sprintf("%s journey: ×%.2f", string(journey), journeyMult))
	}
	if sizeMult != 1.0 {
		parts = append(parts, fmt.Sprintf("data size: ×%.3f", sizeMult))
	}
	parts = append(parts, notes...)

	return strings.Join(parts, "; ")
}

// RoundMinorUnits applies round-half-up to amount and returns the result in
// minor currency units. Aggregation uses the same rounding as line items so
// quote totals reconstruct exactly.
func RoundMinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(0).IntPart()
}

// FormatMinorUnits renders a minor-unit amount as a dollar string.
func FormatMinorUnits(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
