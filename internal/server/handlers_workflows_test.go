package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateo/quotient/internal/types"
	"github.com/mateo/quotient/internal/workflow"
)

func createWorkflow(t *testing.T, s *Server) uuid.UUID {
	t.Helper()
	projectID := uuid.New()
	rec := doJSON(t, s, http.MethodPost, "/workflows", map[string]any{
		"project_id":   projectID.String(),
		"service_type": "data-analysis",
		"user_id":      uuid.NewString(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return projectID
}

func TestHandleCreateWorkflow(t *testing.T) {
	s, _ := newTestServer(t, &stubAdapter{})
	projectID := createWorkflow(t, s)

	rec := doJSON(t, s, http.MethodGet, "/workflows/"+projectID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg types.WorkflowConfig
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cfg))
	assert.Equal(t, types.StepQuestions, cfg.CurrentStep)
	assert.Len(t, cfg.Steps, 6)
}

func TestHandleCreateWorkflow_MissingFields(t *testing.T) {
	s, _ := newTestServer(t, &stubAdapter{})

	rec := doJSON(t, s, http.MethodPost, "/workflows", map[string]any{
		"project_id": uuid.NewString(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetWorkflow_NotFound(t *testing.T) {
	s, _ := newTestServer(t, &stubAdapter{})

	rec := doJSON(t, s, http.MethodGet, "/workflows/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetWorkflow_BadID(t *testing.T) {
	s, _ := newTestServer(t, &stubAdapter{})

	rec := doJSON(t, s, http.MethodGet, "/workflows/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpdateStep_AdvancesWorkflow(t *testing.T) {
	s, _ := newTestServer(t, &stubAdapter{})
	projectID := createWorkflow(t, s)

	rec := doJSON(t, s, http.MethodPost, "/workflows/"+projectID.String()+"/steps/questions", map[string]any{
		"questions": []string{"What drives churn?"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var outcome workflow.StepOutcome
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&outcome))
	assert.True(t, outcome.Advanced)
	assert.Equal(t, types.StepUpload, outcome.NextStep)
}

func TestHandleUpdateStep_InvalidInput(t *testing.T) {
	s, _ := newTestServer(t, &stubAdapter{})
	projectID := createWorkflow(t, s)

	rec := doJSON(t, s, http.MethodPost, "/workflows/"+projectID.String()+"/steps/questions", map[string]any{
		"questions": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpdateStep_ReplayConflicts(t *testing.T) {
	s, _ := newTestServer(t, &stubAdapter{})
	projectID := createWorkflow(t, s)

	body := map[string]any{"questions": []string{"q"}}
	rec := doJSON(t, s, http.MethodPost, "/workflows/"+projectID.String()+"/steps/questions", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/workflows/"+projectID.String()+"/steps/questions", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleUpdateStep_UnknownProject(t *testing.T) {
	s, _ := newTestServer(t, &stubAdapter{})

	rec := doJSON(t, s, http.MethodPost, "/workflows/"+uuid.NewString()+"/steps/questions", map[string]any{
		"questions": []string{"q"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleValidateStep_IsStateless(t *testing.T) {
	s, store := newTestServer(t, &stubAdapter{})

	rec := doJSON(t, s, http.MethodPost, "/steps/questions/validate", map[string]any{
		"questions": []string{},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result types.ValidationResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "At least one analysis question is required")
	assert.Empty(t, store.workflows, "validation creates no workflow state")
}
