package estimation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mateo/quotient/internal/types"
)

func TestQuickEstimate_BaseFormula(t *testing.T) {
	// 2 goals * 2500 + 3 questions * 1000 = 8000, neutral multipliers.
	got := QuickEstimate(2, 3, types.JourneyGuided, types.ComplexityBasic)
	assert.Equal(t, int64(8000), got)
}

func TestQuickEstimate_AppliesMultiplierTables(t *testing.T) {
	// 8000 * 1.3 (intermediate) * 1.15 (business) = 11960.
	got := QuickEstimate(2, 3, types.JourneyBusiness, types.ComplexityIntermediate)
	assert.Equal(t, int64(11960), got)
}

func TestQuickEstimate_JourneyOrderingMatchesFullPath(t *testing.T) {
	guided := QuickEstimate(3, 2, types.JourneyGuided, types.ComplexityIntermediate)
	business := QuickEstimate(3, 2, types.JourneyBusiness, types.ComplexityIntermediate)
	technical := QuickEstimate(3, 2, types.JourneyTechnical, types.ComplexityIntermediate)

	assert.Greater(t, business, guided)
	assert.Greater(t, technical, business)
}

func TestQuickEstimate_ComplexityOrdering(t *testing.T) {
	basic := QuickEstimate(3, 2, types.JourneyGuided, types.ComplexityBasic)
	intermediate := QuickEstimate(3, 2, types.JourneyGuided, types.ComplexityIntermediate)
	advanced := QuickEstimate(3, 2, types.JourneyGuided, types.ComplexityAdvanced)

	assert.Greater(t, intermediate, basic)
	assert.Greater(t, advanced, intermediate)
}

func TestQuickEstimate_NegativeCountsClamped(t *testing.T) {
	got := QuickEstimate(-4, -1, types.JourneyGuided, types.ComplexityBasic)
	assert.Equal(t, int64(0), got)
}

func TestQuickEstimate_UnknownEnumsNeutral(t *testing.T) {
	got := QuickEstimate(1, 0, types.JourneyType("mystery"), types.ComplexityTier("odd"))
	assert.Equal(t, int64(2500), got)
}
