package workflow

import (
	"fmt"

	"github.com/mateo/quotient/internal/schemas"
	"github.com/mateo/quotient/internal/types"
)

// ValidateStepRequirements checks a step payload against the step's input
// rules. It is pure: no state is read or written, so a rejection is
// idempotent and side-effect-free. Callers run it before any transition is
// attempted.
func ValidateStepRequirements(stepID types.StepID, data map[string]any) types.ValidationResult {
	errs := []string{}

	switch stepID {
	case types.StepQuestions:
		if len(stringSlice(data["questions"])) == 0 {
			errs = append(errs, "At least one analysis question is required")
		}

	case types.StepUpload:
		if stringValue(data["sourceType"]) == "" {
			errs = append(errs, "A data source type is required")
		}
		if stringValue(data["fileName"]) == "" {
			errs = append(errs, "A file name is required")
		}

	case types.StepScan:
		if stringValue(data["uploadId"]) == "" {
			errs = append(errs, "An upload reference is required before scanning")
		}

	case types.StepSchema:
		violations, err := schemas.ValidateDatasetPayload(data)
		if err != nil {
			errs = append(errs, "Schema payload could not be validated")
		} else {
			errs = append(errs, violations...)
		}

	case types.StepAnalysis, types.StepComplete:
		// No input requirements.

	default:
		errs = append(errs, fmt.Sprintf("Unknown workflow step: %s", stepID))
	}

	return types.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// stringValue extracts a non-empty string from a decoded JSON value.
func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// stringSlice extracts a string list from a decoded JSON value. JSON arrays
// decode as []any, so both forms are accepted.
func stringSlice(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
