package estimation

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateo/quotient/internal/decomposition"
	"github.com/mateo/quotient/internal/types"
)

// stubAdapter returns a fixed analysis or error.
type stubAdapter struct {
	analysis *decomposition.Analysis
	err      error
}

func (s *stubAdapter) Analyze(_ context.Context, _, _ []string, _ types.JourneyType, _ types.DataContext) (*decomposition.Analysis, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.analysis, nil
}

func churnAnalysis() *decomposition.Analysis {
	return &decomposition.Analysis{
		WorkItems: []types.WorkItem{
			{
				ID:             "wi_001",
				Name:           "Prepare churn dataset",
				Type:           types.WorkItemDataPreparation,
				Complexity:     types.ComplexityBasic,
				EstimatedHours: 3,
			},
			{
				ID:             "wi_002",
				Name:           "Segment churn analysis",
				Type:           types.WorkItemStatisticalAnalysis,
				Complexity:     types.ComplexityIntermediate,
				EstimatedHours: 6,
			},
		},
		RiskFactors:          nil,
		TotalComplexityScore: 5.0,
		EstimatedTotalHours:  9,
	}
}

func churnRequest() Request {
	return Request{
		Goals:       []string{"Identify churn"},
		Questions:   []string{"Which segment churns most?"},
		Journey:     types.JourneyTechnical,
		DataContext: types.DataContext{SizeInMB: 50},
	}
}

func TestEstimateFull_ChurnScenario(t *testing.T) {
	est := NewEstimator(&stubAdapter{analysis: churnAnalysis()})

	quote := est.EstimateFull(context.Background(), churnRequest())
	require.NotNil(t, quote)
	require.Len(t, quote.LineItems, 2)

	// No risk factors in the mocked output, so no risk adjustment.
	assert.Equal(t, 0.0, quote.RiskAdjustmentPercent)
	assert.Equal(t, quote.Subtotal(), quote.TotalCost)
	assert.Equal(t, 9.0, quote.TotalHours)
	assert.Equal(t, 5.0, quote.ComplexityScore)
}

func TestEstimateFull_Deterministic(t *testing.T) {
	est := NewEstimator(&stubAdapter{analysis: churnAnalysis()})
	req := churnRequest()

	first, err := json.Marshal(est.EstimateFull(context.Background(), req))
	require.NoError(t, err)
	second, err := json.Marshal(est.EstimateFull(context.Background(), req))
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must yield byte-identical quotes")
}

func TestEstimateFull_InvariantReconstruction(t *testing.T) {
	analysis := churnAnalysis()
	analysis.RiskFactors = []string{"Complex analysis spanning several techniques"}
	est := NewEstimator(&stubAdapter{analysis: analysis})

	quote := est.EstimateFull(context.Background(), churnRequest())

	recomputed := decimal.NewFromInt(quote.Subtotal()).
		Mul(decimal.NewFromFloat(1.0 + quote.RiskAdjustmentPercent/100.0)).
		Round(0).IntPart()
	assert.Equal(t, recomputed, quote.TotalCost)
}

func TestEstimateFull_RiskFactorsAccumulate(t *testing.T) {
	analysis := churnAnalysis()
	analysis.WorkItems[1].Complexity = types.ComplexityAdvanced
	analysis.RiskFactors = []string{
		"Complex analysis across multiple techniques",
		"Large number of goals in one request",
		"Several goals require clarification",
	}
	est := NewEstimator(&stubAdapter{analysis: analysis})

	req := churnRequest()
	req.Journey = types.JourneyGuided // triggers the guided+advanced rule too

	quote := est.EstimateFull(context.Background(), req)

	// 0.15 + 0.10 + 0.20 + 0.10 on top of 1.0.
	assert.InDelta(t, 55.0, quote.RiskAdjustmentPercent, 1e-9)
}

func TestEstimateFull_RiskRulesIndependent(t *testing.T) {
	analysis := churnAnalysis()
	analysis.RiskFactors = []string{"Goals require clarification before scoping"}
	est := NewEstimator(&stubAdapter{analysis: analysis})

	quote := est.EstimateFull(context.Background(), churnRequest())
	assert.InDelta(t, 20.0, quote.RiskAdjustmentPercent, 1e-9)
}

func TestEstimateFull_ClarificationRiskNeedsRequireStem(t *testing.T) {
	analysis := churnAnalysis()
	analysis.RiskFactors = []string{"No clarification needed for the stated goals"}
	est := NewEstimator(&stubAdapter{analysis: analysis})

	quote := est.EstimateFull(context.Background(), churnRequest())
	assert.Equal(t, 0.0, quote.RiskAdjustmentPercent,
		"mentioning clarification without a require stem is not a risk")
}

func TestEstimateFull_GuidedAdvancedRecommendation(t *testing.T) {
	analysis := churnAnalysis()
	analysis.WorkItems[0].Complexity = types.ComplexityAdvanced
	est := NewEstimator(&stubAdapter{analysis: analysis})

	req := churnRequest()
	req.Journey = types.JourneyGuided

	quote := est.EstimateFull(context.Background(), req)

	assert.True(t, anyContains(quote.Recommendations, "journey"),
		"expected a journey recommendation, got %v", quote.Recommendations)
}

func TestEstimateFull_PhasingRecommendation(t *testing.T) {
	est := NewEstimator(&stubAdapter{analysis: churnAnalysis()})

	req := churnRequest()
	req.Goals = []string{"g1", "g2", "g3", "g4", "g5", "g6"}

	quote := est.EstimateFull(context.Background(), req)

	assert.True(t, anyContains(quote.Recommendations, "phasing"),
		"expected a phasing recommendation, got %v", quote.Recommendations)
}

func TestEstimateFull_LineItemOrderMatchesWorkItems(t *testing.T) {
	est := NewEstimator(&stubAdapter{analysis: churnAnalysis()})

	quote := est.EstimateFull(context.Background(), churnRequest())
	require.Len(t, quote.LineItems, 2)
	assert.Equal(t, "wi_001", quote.LineItems[0].WorkItemID)
	assert.Equal(t, "wi_002", quote.LineItems[1].WorkItemID)
}

// anyContains reports whether any string in list contains the substring,
// case-insensitively.
func anyContains(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(strings.ToLower(s), sub) {
			return true
		}
	}
	return false
}
