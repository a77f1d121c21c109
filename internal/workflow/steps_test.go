package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateo/quotient/internal/types"
)

func TestStepOrder_Fixed(t *testing.T) {
	want := []types.StepID{
		types.StepQuestions,
		types.StepUpload,
		types.StepScan,
		types.StepSchema,
		types.StepAnalysis,
		types.StepComplete,
	}

	require.Len(t, stepOrder, len(want))
	for i, def := range stepOrder {
		assert.Equal(t, want[i], def.ID)
	}
}

func TestNextStep_WalksTheFullPipeline(t *testing.T) {
	current := types.StepQuestions
	visited := []types.StepID{current}

	for current != types.StepComplete {
		next, err := NextStep(current)
		require.NoError(t, err)
		visited = append(visited, next)
		current = next
	}

	assert.Equal(t, []types.StepID{
		types.StepQuestions, types.StepUpload, types.StepScan,
		types.StepSchema, types.StepAnalysis, types.StepComplete,
	}, visited)
}

func TestNextStep_TerminalAndUnknown(t *testing.T) {
	_, err := NextStep(types.StepComplete)
	assert.Error(t, err)

	_, err = NextStep(types.StepID("teleport"))
	assert.Error(t, err)
}

func TestKnownStep(t *testing.T) {
	assert.True(t, KnownStep(types.StepScan))
	assert.False(t, KnownStep(types.StepID("review")))
}

func TestBuildSteps_CompletedDerivedFromPosition(t *testing.T) {
	steps := BuildSteps(types.StepSchema)
	require.Len(t, steps, 6)

	completed := map[types.StepID]bool{}
	for _, s := range steps {
		completed[s.ID] = s.Completed
	}

	assert.True(t, completed[types.StepQuestions])
	assert.True(t, completed[types.StepUpload])
	assert.True(t, completed[types.StepScan])
	assert.False(t, completed[types.StepSchema], "the current step is not completed")
	assert.False(t, completed[types.StepAnalysis])
	assert.False(t, completed[types.StepComplete])
}

func TestBuildSteps_FreshWorkflowHasNothingCompleted(t *testing.T) {
	for _, s := range BuildSteps(types.StepQuestions) {
		assert.False(t, s.Completed, "step %s", s.ID)
	}
}

func TestBuildSteps_OnlyCompleteIsOptional(t *testing.T) {
	for _, s := range BuildSteps(types.StepQuestions) {
		if s.ID == types.StepComplete {
			assert.False(t, s.Required)
		} else {
			assert.True(t, s.Required, "step %s", s.ID)
		}
	}
}
