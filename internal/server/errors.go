package server

import (
	"errors"
	"net/http"

	"github.com/mateo/quotient/internal/workflow"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var notFound *workflow.ErrWorkflowNotFound
	var invalid *workflow.ErrInvalidStepInput
	var complete *workflow.ErrWorkflowComplete

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &complete), errors.Is(err, workflow.ErrStepConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
