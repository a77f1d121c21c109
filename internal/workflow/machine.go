package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/mateo/quotient/internal/scanning"
	"github.com/mateo/quotient/internal/types"
)

// Manager runs the project pipeline against a durable store, delegating
// scanning to the external collaborator. It holds no per-project state and
// is safe for concurrent use; conflicting writers are resolved by the
// store's compare-and-swap transition.
type Manager struct {
	store   Store
	scanner scanning.Scanner
}

// NewManager creates a workflow manager.
func NewManager(store Store, scanner scanning.Scanner) *Manager {
	return &Manager{store: store, scanner: scanner}
}

// UploadRequest carries the upload-step input for record creation.
type UploadRequest struct {
	FileName    string
	SourceType  string
	MimeType    string
	StoragePath string
	SizeInMB    float64
}

// UploadResult is returned after the upload side effect runs. ScanRequired
// is always true: every upload must pass the scan step before processing.
type UploadResult struct {
	UploadID     uuid.UUID `json:"upload_id"`
	ScanRequired bool      `json:"scan_required"`
}

// StepOutcome reports what completing a step produced. Advanced is false
// when the scan verdict blocked the transition; the verdict itself is data,
// not an error.
type StepOutcome struct {
	Step     types.StepID       `json:"step"`
	Advanced bool               `json:"advanced"`
	NextStep types.StepID       `json:"next_step,omitempty"`
	Upload   *UploadResult      `json:"upload,omitempty"`
	Verdict  *types.ScanVerdict `json:"verdict,omitempty"`
}

// InitializeWorkflow creates the workflow instance for a project if it does
// not exist yet. The upsert is idempotent: re-initializing an in-flight
// project returns its current state untouched.
func (m *Manager) InitializeWorkflow(ctx context.Context, projectID uuid.UUID, serviceType string, userID uuid.UUID) (*types.WorkflowConfig, error) {
	inst := &types.WorkflowInstance{
		ProjectID:   projectID,
		ServiceType: serviceType,
		CurrentStep: types.StepQuestions,
		UserID:      userID,
	}

	stored, err := m.store.UpsertWorkflow(ctx, inst)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize workflow: %w", err)
	}

	return toConfig(stored), nil
}

// GetWorkflowStatus returns the current workflow view for a project, or
// (nil, nil) when the project has not started a workflow. Absence is not an
// error.
func (m *Manager) GetWorkflowStatus(ctx context.Context, projectID uuid.UUID) (*types.WorkflowConfig, error) {
	inst, err := m.store.GetWorkflow(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}
	if inst == nil {
		return nil, nil
	}
	return toConfig(inst), nil
}

// ValidateStepRequirements exposes pure step validation on the manager.
func (m *Manager) ValidateStepRequirements(stepID types.StepID, data map[string]any) types.ValidationResult {
	return ValidateStepRequirements(stepID, data)
}

// UpdateWorkflowStep completes the given step and advances the workflow to
// the next entry in the fixed order. Transitions are strictly forward only.
// Invalid input rejects with ErrInvalidStepInput and changes nothing; a step
// that is not the workflow's current step rejects with ErrStepConflict
// before any side effect runs; an infected scan verdict returns
// Advanced=false with the verdict attached.
func (m *Manager) UpdateWorkflowStep(ctx context.Context, projectID uuid.UUID, step types.StepID, data map[string]any) (*StepOutcome, error) {
	inst, err := m.store.GetWorkflow(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}
	if inst == nil {
		return nil, &ErrWorkflowNotFound{ProjectID: projectID}
	}
	if inst.CurrentStep == types.StepComplete {
		return nil, &ErrWorkflowComplete{ProjectID: projectID}
	}

	if result := ValidateStepRequirements(step, data); !result.Valid {
		return nil, &ErrInvalidStepInput{Step: string(step), Errors: result.Errors}
	}

	// The store's compare-and-swap is the last line of defense against
	// concurrent writers, but the upload and scan side effects below touch
	// durable state before it runs. An out-of-order submission must be
	// rejected here so those side effects never fire for a step that is
	// not due.
	if inst.CurrentStep != step {
		return nil, ErrStepConflict
	}

	// Enrich a copy; the caller's payload stays untouched.
	data = maps.Clone(data)
	if data == nil {
		data = map[string]any{}
	}

	outcome := &StepOutcome{Step: step}

	switch step {
	case types.StepUpload:
		upload, err := m.ProcessUploadStep(ctx, projectID, uploadRequestFromData(data))
		if err != nil {
			return nil, err
		}
		outcome.Upload = upload
		// Carry the reference forward so the scan step can resolve it.
		data["uploadId"] = upload.UploadID.String()

	case types.StepScan:
		uploadID, err := uuid.Parse(stringValue(data["uploadId"]))
		if err != nil {
			return nil, &ErrInvalidStepInput{Step: string(step), Errors: []string{"An upload reference is required before scanning"}}
		}
		verdict, err := m.scanUpload(ctx, uploadID)
		if err != nil {
			return nil, err
		}
		outcome.Verdict = verdict
		if !verdict.Clean {
			// Deliberate dead end: the workflow stays at scan until the
			// caller intervenes with a re-upload.
			return outcome, nil
		}
	}

	next, err := NextStep(step)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal step data: %w", err)
	}

	if err := m.store.AdvanceStep(ctx, projectID, step, next, payload); err != nil {
		return nil, err
	}

	outcome.Advanced = true
	outcome.NextStep = next
	return outcome, nil
}

// ProcessUploadStep creates the upload record and updates the project's
// data-source fields. It does not advance the workflow; the caller advances
// through UpdateWorkflowStep.
func (m *Manager) ProcessUploadStep(ctx context.Context, projectID uuid.UUID, req UploadRequest) (*UploadResult, error) {
	up := &types.Upload{
		ID:          uuid.New(),
		ProjectID:   projectID,
		FileName:    req.FileName,
		SourceType:  req.SourceType,
		MimeType:    req.MimeType,
		StoragePath: req.StoragePath,
		SizeInMB:    req.SizeInMB,
	}

	if err := m.store.CreateUpload(ctx, up); err != nil {
		return nil, fmt.Errorf("failed to create upload record: %w", err)
	}
	if err := m.store.UpdateProjectDataSource(ctx, projectID, req.SourceType, req.SizeInMB); err != nil {
		return nil, fmt.Errorf("failed to update project data source: %w", err)
	}

	return &UploadResult{UploadID: up.ID, ScanRequired: true}, nil
}

// ProcessScanStep scans the referenced upload and advances scan → schema
// only on a clean verdict. An infected verdict leaves the workflow at scan
// and is the caller's signal to halt the user-facing flow; there is no
// automatic retry.
func (m *Manager) ProcessScanStep(ctx context.Context, projectID, uploadID uuid.UUID) (*types.ScanVerdict, error) {
	verdict, err := m.scanUpload(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if !verdict.Clean {
		return verdict, nil
	}

	payload, err := json.Marshal(map[string]any{"uploadId": uploadID.String(), "verdict": verdict})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scan data: %w", err)
	}
	if err := m.store.AdvanceStep(ctx, projectID, types.StepScan, types.StepSchema, payload); err != nil {
		return nil, err
	}
	return verdict, nil
}

// scanUpload runs the scanner against a stored upload and persists the
// verdict regardless of outcome.
func (m *Manager) scanUpload(ctx context.Context, uploadID uuid.UUID) (*types.ScanVerdict, error) {
	up, err := m.store.GetUpload(ctx, uploadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load upload: %w", err)
	}
	if up == nil {
		return nil, fmt.Errorf("upload not found: %s", uploadID)
	}

	verdict, err := m.scanner.ScanFile(ctx, up.StoragePath, up.MimeType)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	if err := m.store.SaveScanVerdict(ctx, uploadID, verdict); err != nil {
		return nil, fmt.Errorf("failed to save scan verdict: %w", err)
	}
	return verdict, nil
}

// uploadRequestFromData extracts the upload fields from a step payload.
// Validation has already ensured the required fields are present.
func uploadRequestFromData(data map[string]any) UploadRequest {
	sizeMB, _ := data["sizeInMB"].(float64)
	return UploadRequest{
		FileName:    stringValue(data["fileName"]),
		SourceType:  stringValue(data["sourceType"]),
		MimeType:    stringValue(data["mimeType"]),
		StoragePath: stringValue(data["storagePath"]),
		SizeInMB:    sizeMB,
	}
}

// toConfig derives the caller-facing view from a stored instance.
func toConfig(inst *types.WorkflowInstance) *types.WorkflowConfig {
	return &types.WorkflowConfig{
		ProjectID:   inst.ProjectID,
		ServiceType: inst.ServiceType,
		CurrentStep: inst.CurrentStep,
		Steps:       BuildSteps(inst.CurrentStep),
		UserID:      inst.UserID,
		CreatedAt:   inst.CreatedAt,
		UpdatedAt:   inst.UpdatedAt,
	}
}
