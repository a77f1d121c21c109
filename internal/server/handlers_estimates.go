package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/mateo/quotient/internal/estimation"
	"github.com/mateo/quotient/internal/pricing"
	"github.com/mateo/quotient/internal/types"
)

// estimateRequest is the payload for a full estimate.
type estimateRequest struct {
	ProjectID   string   `json:"project_id" validate:"omitempty,uuid"`
	Goals       []string `json:"goals" validate:"required,min=1,dive,min=1"`
	Questions   []string `json:"questions" validate:"omitempty,dive,min=1"`
	Journey     string   `json:"journey"`
	DataSizeMB  float64  `json:"data_size_mb"`
	RecordCount int64    `json:"record_count"`
	Columns     int      `json:"columns"`
	Complexity  string   `json:"complexity"`
}

// handleCreateEstimate runs the full decomposition-and-pricing path. The
// estimator never fails outright; on adapter trouble the response is the
// conservative fallback quote.
func (s *Server) handleCreateEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	quote := s.estimator.EstimateFull(r.Context(), estimation.Request{
		Goals:     req.Goals,
		Questions: req.Questions,
		Journey:   types.JourneyType(req.Journey),
		DataContext: types.DataContext{
			SizeInMB:    req.DataSizeMB,
			RecordCount: req.RecordCount,
			Columns:     req.Columns,
			Complexity:  req.Complexity,
		},
	})

	// Persist only when the caller tied the estimate to a project.
	if req.ProjectID != "" && s.db != nil {
		projectID, err := uuid.Parse(req.ProjectID)
		if err == nil {
			if err := s.db.SaveQuote(r.Context(), projectID, quote); err != nil {
				s.errorResponse(w, http.StatusInternalServerError, "failed to save quote")
				return
			}
		}
	}

	s.jsonResponse(w, http.StatusOK, quote)
}

// quickEstimateRequest is the payload for the synchronous ballpark figure.
type quickEstimateRequest struct {
	GoalCount     int    `json:"goal_count"`
	QuestionCount int    `json:"question_count"`
	Journey       string `json:"journey"`
	Complexity    string `json:"complexity"`
}

// handleQuickEstimate returns a ballpark total without calling the model
// provider.
func (s *Server) handleQuickEstimate(w http.ResponseWriter, r *http.Request) {
	var req quickEstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	total := estimation.QuickEstimate(req.GoalCount, req.QuestionCount,
		types.JourneyType(req.Journey), types.ComplexityTier(req.Complexity))

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"total_cost":      total,
		"formatted_total": pricing.FormatMinorUnits(total),
	})
}
