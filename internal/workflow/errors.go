package workflow

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrWorkflowNotFound indicates no workflow instance exists for a project.
// GetWorkflowStatus treats absence as "not started" and returns nil instead;
// this error is only produced by operations that require an instance.
type ErrWorkflowNotFound struct {
	ProjectID uuid.UUID
}

func (e *ErrWorkflowNotFound) Error() string {
	return fmt.Sprintf("workflow not found for project: %s", e.ProjectID)
}

// ErrInvalidStepInput indicates a step payload failed validation. The
// workflow instance is left unchanged.
type ErrInvalidStepInput struct {
	Step   string
	Errors []string
}

func (e *ErrInvalidStepInput) Error() string {
	return fmt.Sprintf("invalid input for step %s: %s", e.Step, strings.Join(e.Errors, "; "))
}

// ErrWorkflowComplete indicates an attempt to advance a terminal workflow.
type ErrWorkflowComplete struct {
	ProjectID uuid.UUID
}

func (e *ErrWorkflowComplete) Error() string {
	return fmt.Sprintf("workflow already complete for project: %s", e.ProjectID)
}
