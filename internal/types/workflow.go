package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StepID identifies one stage of the fixed project pipeline.
type StepID string

// The six pipeline steps, in their fixed order.
const (
	StepQuestions StepID = "questions"
	StepUpload    StepID = "upload"
	StepScan      StepID = "scan"
	StepSchema    StepID = "schema"
	StepAnalysis  StepID = "analysis"
	StepComplete  StepID = "complete"
)

// WorkflowInstance is the persisted workflow record for one project. It is
// created once, mutated only by forward transitions, and never deleted.
type WorkflowInstance struct {
	ProjectID   uuid.UUID                  `json:"project_id"`
	ServiceType string                     `json:"service_type"`
	CurrentStep StepID                     `json:"current_step"`
	StepData    map[StepID]json.RawMessage `json:"step_data,omitempty"`
	UserID      uuid.UUID                  `json:"user_id"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// WorkflowStep is a derived descriptor for one pipeline step. Completed is
// always recomputed from the step's position relative to the current step,
// never stored.
type WorkflowStep struct {
	ID          StepID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Completed   bool   `json:"completed"`
}

// WorkflowConfig is the caller-facing view of a workflow instance together
// with its derived step descriptors.
type WorkflowConfig struct {
	ProjectID   uuid.UUID      `json:"project_id"`
	ServiceType string         `json:"service_type"`
	CurrentStep StepID         `json:"current_step"`
	Steps       []WorkflowStep `json:"steps"`
	UserID      uuid.UUID      `json:"user_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Upload is the persisted record of one uploaded data source.
type Upload struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	FileName    string    `json:"file_name"`
	SourceType  string    `json:"source_type"`
	MimeType    string    `json:"mime_type"`
	StoragePath string    `json:"storage_path"`
	SizeInMB    float64   `json:"size_in_mb"`
	CreatedAt   time.Time `json:"created_at"`
}

// ScanVerdict is the result the scanning collaborator returns for an upload.
// An infected verdict is business data, not an error.
type ScanVerdict struct {
	Clean     bool      `json:"clean"`
	Threats   []string  `json:"threats,omitempty"`
	ScannedAt time.Time `json:"scanned_at"`
}

// ValidationResult is the outcome of pure step-input validation. A failed
// validation carries user-facing error strings and causes no state change.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}
