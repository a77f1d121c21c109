// Package workflow implements the six-step project pipeline: validation,
// strictly forward transitions, and scan gating.
package workflow

import (
	"fmt"

	"github.com/mateo/quotient/internal/types"
)

// stepDefinition holds the static metadata for one pipeline step.
type stepDefinition struct {
	ID          types.StepID
	Title       string
	Description string
	Required    bool
}

// stepOrder is the fixed, linear pipeline. There is no branching: every
// project passes through these steps in this order, and `complete` is
// terminal.
var stepOrder = []stepDefinition{
	{
		ID:          types.StepQuestions,
		Title:       "Analysis questions",
		Description: "Define the goals and questions the analysis should answer",
		Required:    true,
	},
	{
		ID:          types.StepUpload,
		Title:       "Data upload",
		Description: "Provide the data source to analyze",
		Required:    true,
	},
	{
		ID:          types.StepScan,
		Title:       "Security scan",
		Description: "Scan the uploaded file before it enters processing",
		Required:    true,
	},
	{
		ID:          types.StepSchema,
		Title:       "Schema review",
		Description: "Confirm the detected columns and their types",
		Required:    true,
	},
	{
		ID:          types.StepAnalysis,
		Title:       "Analysis",
		Description: "Run the selected analyses against the dataset",
		Required:    true,
	},
	{
		ID:          types.StepComplete,
		Title:       "Complete",
		Description: "All pipeline steps are finished",
		Required:    false,
	},
}

// stepIndex returns the position of a step in the fixed order, or -1.
func stepIndex(id types.StepID) int {
	for i, def := range stepOrder {
		if def.ID == id {
			return i
		}
	}
	return -1
}

// KnownStep reports whether the id names a pipeline step.
func KnownStep(id types.StepID) bool {
	return stepIndex(id) >= 0
}

// NextStep returns the step immediately following completed in the fixed
// order. Completing the last required step lands on `complete`; `complete`
// itself has no successor.
func NextStep(completed types.StepID) (types.StepID, error) {
	idx := stepIndex(completed)
	if idx < 0 {
		return "", fmt.Errorf("unknown workflow step: %s", completed)
	}
	if stepOrder[idx].ID == types.StepComplete {
		return "", fmt.Errorf("workflow step %s is terminal", completed)
	}
	return stepOrder[idx+1].ID, nil
}

// BuildSteps derives the descriptor list for a workflow sitting at current.
// Completed is recomputed from index comparison on every call; it is never
// stored, so it cannot drift from the current step.
func BuildSteps(current types.StepID) []types.WorkflowStep {
	currentIdx := stepIndex(current)
	steps := make([]types.WorkflowStep, len(stepOrder))
	for i, def := range stepOrder {
		steps[i] = types.WorkflowStep{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Required:    def.Required,
			Completed:   i < currentIdx,
		}
	}
	return steps
}
