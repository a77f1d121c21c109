package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mateo/quotient/internal/decomposition"
	"github.com/mateo/quotient/internal/estimation"
	"github.com/mateo/quotient/internal/types"
	"github.com/mateo/quotient/internal/workflow"
)

// stubAdapter returns a fixed decomposition result.
type stubAdapter struct {
	analysis *decomposition.Analysis
	err      error
}

func (s *stubAdapter) Analyze(context.Context, []string, []string, types.JourneyType, types.DataContext) (*decomposition.Analysis, error) {
	return s.analysis, s.err
}

// memStore backs the workflow manager in handler tests.
type memStore struct {
	workflows map[uuid.UUID]*types.WorkflowInstance
	uploads   map[uuid.UUID]*types.Upload
	verdicts  map[uuid.UUID]*types.ScanVerdict
}

func newMemStore() *memStore {
	return &memStore{
		workflows: map[uuid.UUID]*types.WorkflowInstance{},
		uploads:   map[uuid.UUID]*types.Upload{},
		verdicts:  map[uuid.UUID]*types.ScanVerdict{},
	}
}

func (s *memStore) UpsertWorkflow(_ context.Context, inst *types.WorkflowInstance) (*types.WorkflowInstance, error) {
	if existing, ok := s.workflows[inst.ProjectID]; ok {
		return existing, nil
	}
	stored := *inst
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	s.workflows[inst.ProjectID] = &stored
	return &stored, nil
}

func (s *memStore) GetWorkflow(_ context.Context, projectID uuid.UUID) (*types.WorkflowInstance, error) {
	inst, ok := s.workflows[projectID]
	if !ok {
		return nil, nil
	}
	return inst, nil
}

func (s *memStore) AdvanceStep(_ context.Context, projectID uuid.UUID, from, to types.StepID, stepData []byte) error {
	inst, ok := s.workflows[projectID]
	if !ok || inst.CurrentStep != from {
		return workflow.ErrStepConflict
	}
	if inst.StepData == nil {
		inst.StepData = map[types.StepID]json.RawMessage{}
	}
	inst.StepData[from] = stepData
	inst.CurrentStep = to
	inst.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memStore) CreateUpload(_ context.Context, up *types.Upload) error {
	stored := *up
	s.uploads[up.ID] = &stored
	return nil
}

func (s *memStore) GetUpload(_ context.Context, uploadID uuid.UUID) (*types.Upload, error) {
	up, ok := s.uploads[uploadID]
	if !ok {
		return nil, nil
	}
	return up, nil
}

func (s *memStore) SaveScanVerdict(_ context.Context, uploadID uuid.UUID, verdict *types.ScanVerdict) error {
	s.verdicts[uploadID] = verdict
	return nil
}

func (s *memStore) UpdateProjectDataSource(context.Context, uuid.UUID, string, float64) error {
	return nil
}

// stubScanner returns a fixed scan verdict.
type stubScanner struct {
	verdict *types.ScanVerdict
}

func (s *stubScanner) ScanFile(context.Context, string, string) (*types.ScanVerdict, error) {
	return s.verdict, nil
}

// newTestServer builds a server around in-memory fakes. Auth is disabled
// unless the test sets JWT_SECRET.
func newTestServer(t *testing.T, adapter decomposition.Adapter) (*Server, *memStore) {
	t.Helper()
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	store := newMemStore()
	scanner := &stubScanner{verdict: &types.ScanVerdict{Clean: true, ScannedAt: time.Now().UTC()}}
	manager := workflow.NewManager(store, scanner)
	s := newServer(nil, estimation.NewEstimator(adapter), manager, 0)
	return s, store
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t, &stubAdapter{})

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %q", resp["status"])
	}
}

func TestProtectedRoutesRequireAuthWhenConfigured(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	s, _ := newTestServer(t, &stubAdapter{})

	rec := doJSON(t, s, http.MethodPost, "/workflows", map[string]any{
		"project_id":   uuid.NewString(),
		"service_type": "data-analysis",
		"user_id":      uuid.NewString(),
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestProtectedRoutesAcceptValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	s, _ := newTestServer(t, &stubAdapter{})

	token, err := s.jwtService.GenerateToken(uuid.New())
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	body, _ := json.Marshal(map[string]any{
		"project_id":   uuid.NewString(),
		"service_type": "data-analysis",
		"user_id":      uuid.NewString(),
	})
	req := httptest.NewRequest(http.MethodPost, "/workflows", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 with valid token, got %d: %s", rec.Code, rec.Body.String())
	}
}
