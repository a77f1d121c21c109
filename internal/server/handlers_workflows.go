package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/mateo/quotient/internal/types"
	"github.com/mateo/quotient/internal/workflow"
)

// createWorkflowRequest is the payload to start a workflow for a project.
type createWorkflowRequest struct {
	ProjectID   string `json:"project_id" validate:"required,uuid"`
	ServiceType string `json:"service_type" validate:"required,min=1"`
	UserID      string `json:"user_id" validate:"required,uuid"`
}

// handleCreateWorkflow initializes a workflow at the questions step. Repeated
// calls for the same project return the current state.
func (s *Server) handleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req createWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	projectID, _ := uuid.Parse(req.ProjectID)
	userID, _ := uuid.Parse(req.UserID)

	cfg, err := s.manager.InitializeWorkflow(r.Context(), projectID, req.ServiceType, userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, cfg)
}

// handleGetWorkflow returns the workflow view for a project.
func (s *Server) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.PathValue("project_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid project id")
		return
	}

	cfg, err := s.manager.GetWorkflowStatus(r.Context(), projectID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if cfg == nil {
		s.errorResponse(w, http.StatusNotFound, "workflow not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, cfg)
}

// handleUpdateStep completes a step and advances the workflow. An infected
// scan verdict comes back as a 200 with advanced=false.
func (s *Server) handleUpdateStep(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.PathValue("project_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid project id")
		return
	}
	stepID := types.StepID(r.PathValue("step_id"))

	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	outcome, err := s.manager.UpdateWorkflowStep(r.Context(), projectID, stepID, data)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, outcome)
}

// handleValidateStep runs step validation without touching workflow state, so
// clients can pre-check input before submitting.
func (s *Server) handleValidateStep(w http.ResponseWriter, r *http.Request) {
	stepID := types.StepID(r.PathValue("step_id"))

	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result := workflow.ValidateStepRequirements(stepID, data)
	s.jsonResponse(w, http.StatusOK, result)
}

// handleGetQuote returns the stored quote for a project.
func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.PathValue("project_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid project id")
		return
	}

	if s.db == nil {
		s.errorResponse(w, http.StatusNotFound, "no quote for project")
		return
	}

	quote, err := s.db.GetQuote(r.Context(), projectID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if quote == nil {
		s.errorResponse(w, http.StatusNotFound, "no quote for project")
		return
	}

	s.jsonResponse(w, http.StatusOK, quote)
}
