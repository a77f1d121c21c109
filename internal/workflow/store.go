package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mateo/quotient/internal/types"
)

// ErrStepConflict is returned by Store.AdvanceStep when the workflow's
// current step no longer matches the step being completed: either a
// concurrent writer advanced it first, or the caller is replaying an
// already-completed step.
var ErrStepConflict = errors.New("workflow step changed concurrently")

// Store is the durable persistence collaborator for workflow state, keyed by
// project id. Reads return (nil, nil) when no record exists.
type Store interface {
	// UpsertWorkflow creates the instance if absent and returns the stored
	// record either way. Creation is idempotent; an existing instance is
	// never reset.
	UpsertWorkflow(ctx context.Context, inst *types.WorkflowInstance) (*types.WorkflowInstance, error)

	// GetWorkflow returns the instance for a project, or (nil, nil).
	GetWorkflow(ctx context.Context, projectID uuid.UUID) (*types.WorkflowInstance, error)

	// AdvanceStep moves current_step from `from` to `to` and records the
	// step payload, but only while the stored current step still equals
	// `from`. Returns ErrStepConflict otherwise.
	AdvanceStep(ctx context.Context, projectID uuid.UUID, from, to types.StepID, stepData []byte) error

	// CreateUpload persists an upload record.
	CreateUpload(ctx context.Context, up *types.Upload) error

	// GetUpload returns an upload by id, or (nil, nil).
	GetUpload(ctx context.Context, uploadID uuid.UUID) (*types.Upload, error)

	// SaveScanVerdict records the scan outcome for an upload.
	SaveScanVerdict(ctx context.Context, uploadID uuid.UUID, verdict *types.ScanVerdict) error

	// UpdateProjectDataSource updates the project's data source and size
	// fields after a successful upload.
	UpdateProjectDataSource(ctx context.Context, projectID uuid.UUID, sourceType string, sizeInMB float64) error
}
