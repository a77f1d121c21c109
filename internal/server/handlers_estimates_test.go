package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateo/quotient/internal/decomposition"
	"github.com/mateo/quotient/internal/types"
)

func analysisFixture() *decomposition.Analysis {
	return &decomposition.Analysis{
		WorkItems: []types.WorkItem{
			{
				ID:             "wi_001",
				Name:           "Prepare customer data",
				Type:           types.WorkItemDataPreparation,
				Complexity:     types.ComplexityBasic,
				EstimatedHours: 3,
			},
			{
				ID:             "wi_002",
				Name:           "Churn driver analysis",
				Type:           types.WorkItemStatisticalAnalysis,
				Complexity:     types.ComplexityIntermediate,
				EstimatedHours: 6,
			},
		},
		TotalComplexityScore: 5.0,
		EstimatedTotalHours:  9,
	}
}

func TestHandleCreateEstimate(t *testing.T) {
	s, _ := newTestServer(t, &stubAdapter{analysis: analysisFixture()})

	rec := doJSON(t, s, http.MethodPost, "/estimates", map[string]any{
		"goals":        []string{"Identify churn drivers"},
		"questions":    []string{"Which segment churns most?"},
		"journey":      "technical",
		"data_size_mb": 50.0,
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var quote types.CostQuote
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&quote))
	require.Len(t, quote.LineItems, 2)
	assert.Equal(t, quote.Subtotal(), quote.TotalCost, "no risk factors, so total equals subtotal")
	assert.Greater(t, quote.TotalCost, int64(0))
}

func TestHandleCreateEstimate_MissingGoals(t *testing.T) {
	s, _ := newTestServer(t, &stubAdapter{analysis: analysisFixture()})

	rec := doJSON(t, s, http.MethodPost, "/estimates", map[string]any{
		"questions": []string{"Which segment churns most?"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCreateEstimate_InvalidJSON(t *testing.T) {
	s, _ := newTestServer(t, &stubAdapter{analysis: analysisFixture()})

	req := doJSON(t, s, http.MethodPost, "/estimates", nil)
	assert.Equal(t, http.StatusBadRequest, req.Code)
}

func TestHandleCreateEstimate_AdapterFailureFallsBack(t *testing.T) {
	s, _ := newTestServer(t, &stubAdapter{err: assert.AnError})

	rec := doJSON(t, s, http.MethodPost, "/estimates", map[string]any{
		"goals": []string{"Identify churn drivers"},
	})

	require.Equal(t, http.StatusOK, rec.Code, "fallback quote is a success response")

	var quote types.CostQuote
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&quote))
	assert.Equal(t, 20.0, quote.RiskAdjustmentPercent)
	assert.NotEmpty(t, quote.LineItems)
}

func TestHandleQuickEstimate(t *testing.T) {
	s, _ := newTestServer(t, &stubAdapter{})

	rec := doJSON(t, s, http.MethodPost, "/estimates/quick", map[string]any{
		"goal_count":     2,
		"question_count": 3,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TotalCost      int64  `json:"total_cost"`
		FormattedTotal string `json:"formatted_total"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(8000), resp.TotalCost, "2 goals and 3 questions at neutral multipliers")
	assert.Equal(t, "$80.00", resp.FormattedTotal)
}

func TestHandleQuickEstimate_AppliesMultipliers(t *testing.T) {
	s, _ := newTestServer(t, &stubAdapter{})

	rec := doJSON(t, s, http.MethodPost, "/estimates/quick", map[string]any{
		"goal_count":     2,
		"question_count": 3,
		"journey":        "technical",
		"complexity":     "advanced",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TotalCost int64 `json:"total_cost"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Greater(t, resp.TotalCost, int64(8000))
}
