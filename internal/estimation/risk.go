package estimation

import (
	"strings"

	"github.com/mateo/quotient/internal/types"
)

// Additive risk increments. Each rule that matches adds its increment to a
// base multiplier of 1.0; the rules are independent and all that apply are
// summed, which keeps the risk surface linear and explainable. No upper cap
// is enforced.
const (
	riskComplexAnalysis    = 0.15
	riskManyGoals          = 0.10
	riskNeedsClarification = 0.20
	riskGuidedWithAdvanced = 0.10
	fallbackRiskPercent    = 20.0
	fallbackRiskMultiplier = 1.20
)

// computeRiskMultiplier accumulates the fixed increments for every risk
// factor pattern present in the decomposition output, plus the structural
// guided-journey-with-advanced-work rule.
func computeRiskMultiplier(riskFactors []string, journey types.JourneyType, items []types.WorkItem) float64 {
	multiplier := 1.0

	if anyFactorContains(riskFactors, "complex analysis") {
		multiplier += riskComplexAnalysis
	}
	if anyFactorContains(riskFactors, "large number of goals") {
		multiplier += riskManyGoals
	}
	if anyFactorRequiresClarification(riskFactors) {
		multiplier += riskNeedsClarification
	}
	if journey == types.JourneyGuided && hasAdvancedItem(items) {
		multiplier += riskGuidedWithAdvanced
	}

	return multiplier
}

// anyFactorRequiresClarification matches "require clarification" phrasings.
// The require stem must co-occur with "clarification" so wording like "no
// clarification needed" does not count as a risk.
func anyFactorRequiresClarification(factors []string) bool {
	for _, f := range factors {
		lower := strings.ToLower(f)
		if strings.Contains(lower, "clarification") && strings.Contains(lower, "requir") {
			return true
		}
	}
	return false
}

// anyFactorContains reports whether any risk factor contains the pattern,
// case-insensitively.
func anyFactorContains(factors []string, pattern string) bool {
	for _, f := range factors {
		if strings.Contains(strings.ToLower(f), pattern) {
			return true
		}
	}
	return false
}

// hasAdvancedItem reports whether any work item is advanced complexity.
func hasAdvancedItem(items []types.WorkItem) bool {
	for _, item := range items {
		if item.Complexity == types.ComplexityAdvanced {
			return true
		}
	}
	return false
}
