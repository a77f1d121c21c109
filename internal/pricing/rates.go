// Package pricing converts decomposed work items into fully explained
// monetary costs. All amounts are in minor currency units (cents).
package pricing

import "github.com/mateo/quotient/internal/types"

// defaultHourlyRate is applied when a work item carries a type outside the
// known set. The fallback is always surfaced in the line item reasoning.
const defaultHourlyRate int64 = 15000

// minimumHours is the floor applied to missing or non-positive hour
// estimates so that every item remains priceable.
const minimumHours = 0.5

// hourlyRates maps each work item type to its rate in cents per hour.
var hourlyRates = map[types.WorkItemType]int64{
	types.WorkItemDataPreparation:     12000,
	types.WorkItemStatisticalAnalysis: 15000,
	types.WorkItemMLModeling:          22000,
	types.WorkItemVisualization:       10000,
	types.WorkItemValidation:          11000,
}

// complexityMultipliers scales cost by how demanding the item is.
var complexityMultipliers = map[types.ComplexityTier]float64{
	types.ComplexityBasic:        1.0,
	types.ComplexityIntermediate: 1.3,
	types.ComplexityAdvanced:     1.8,
}

// journeyMultipliers scales cost by the service track the user selected.
var journeyMultipliers = map[types.JourneyType]float64{
	types.JourneyGuided:    1.0,
	types.JourneyBusiness:  1.15,
	types.JourneyTechnical: 1.4,
}

// sizeFactors drives the data size multiplier: larger inputs cost
// disproportionately more for heavier item types. The multiplier is
// 1 + sizeMB * factor / 10000.
var sizeFactors = map[types.WorkItemType]float64{
	types.WorkItemDataPreparation:     4.0,
	types.WorkItemStatisticalAnalysis: 5.0,
	types.WorkItemMLModeling:          8.0,
	types.WorkItemVisualization:       1.5,
	types.WorkItemValidation:          3.0,
}

// defaultSizeFactor is used together with defaultHourlyRate for unknown types.
const defaultSizeFactor = 4.0

// HourlyRate returns the rate for a work item type and whether the type was
// found in the rate table.
func HourlyRate(t types.WorkItemType) (int64, bool) {
	rate, ok := hourlyRates[t]
	if !ok {
		return defaultHourlyRate, false
	}
	return rate, true
}

// ComplexityMultiplier returns the multiplier for a tier. Unknown tiers map
// to the neutral multiplier 1.0 and report ok=false.
func ComplexityMultiplier(c types.ComplexityTier) (float64, bool) {
	m, ok := complexityMultipliers[c]
	if !ok {
		return 1.0, false
	}
	return m, true
}

// JourneyMultiplier returns the multiplier for a journey type. Unknown
// journeys map to the neutral multiplier 1.0 and report ok=false.
func JourneyMultiplier(j types.JourneyType) (float64, bool) {
	m, ok := journeyMultipliers[j]
	if !ok {
		return 1.0, false
	}
	return m, true
}

// SizeFactor returns the per-type data size factor.
func SizeFactor(t types.WorkItemType) float64 {
	f, ok := sizeFactors[t]
	if !ok {
		return defaultSizeFactor
	}
	return f
}
