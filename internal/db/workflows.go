package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mateo/quotient/internal/types"
	"github.com/mateo/quotient/internal/workflow"
)

// UpsertWorkflow inserts the workflow instance if the project has none yet and
// returns the stored record either way. ON CONFLICT DO NOTHING keeps creation
// idempotent: an in-flight workflow is never reset by a repeated initialize.
func (db *DB) UpsertWorkflow(ctx context.Context, inst *types.WorkflowInstance) (*types.WorkflowInstance, error) {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO workflows (project_id, service_type, current_step, step_data, user_id)
		 VALUES ($1, $2, $3, '{}'::jsonb, $4)
		 ON CONFLICT (project_id) DO NOTHING`,
		inst.ProjectID, inst.ServiceType, inst.CurrentStep, inst.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert workflow: %w", err)
	}

	stored, err := db.GetWorkflow(ctx, inst.ProjectID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("workflow missing after upsert: %s", inst.ProjectID)
	}
	return stored, nil
}

// GetWorkflow retrieves the workflow instance for a project, or (nil, nil)
// when the project has no workflow.
func (db *DB) GetWorkflow(ctx context.Context, projectID uuid.UUID) (*types.WorkflowInstance, error) {
	var inst types.WorkflowInstance
	var stepDataJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT project_id, service_type, current_step, step_data, user_id, created_at, updated_at
		 FROM workflows WHERE project_id = $1`,
		projectID,
	).Scan(&inst.ProjectID, &inst.ServiceType, &inst.CurrentStep, &stepDataJSON,
		&inst.UserID, &inst.CreatedAt, &inst.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	if len(stepDataJSON) > 0 {
		if err := json.Unmarshal(stepDataJSON, &inst.StepData); err != nil {
			return nil, fmt.Errorf("failed to decode step data: %w", err)
		}
	}

	return &inst, nil
}

// AdvanceStep moves current_step forward and merges the completed step's
// payload into step_data, guarded by a compare-and-swap on the stored current
// step. A zero row count means the step already moved, either under a
// concurrent writer or a replayed completion.
func (db *DB) AdvanceStep(ctx context.Context, projectID uuid.UUID, from, to types.StepID, stepData []byte) error {
	if len(stepData) == 0 {
		stepData = []byte("{}")
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE workflows
		 SET current_step = $1,
		     step_data = step_data || jsonb_build_object($2::text, $3::jsonb),
		     updated_at = NOW()
		 WHERE project_id = $4 AND current_step = $2`,
		to, from, stepData, projectID,
	)
	if err != nil {
		return fmt.Errorf("failed to advance workflow step: %w", err)
	}
	if result.RowsAffected() == 0 {
		return workflow.ErrStepConflict
	}
	return nil
}
