package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/distill-api/internal/domain"
	"github.com/phrazzld/distill-api/internal/engine"
	"github.com/phrazzld/distill-api/internal/service"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad request errors
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidInputType),
		errors.Is(err, domain.ErrEmptyInputSource):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details
// such as scratch paths or API configuration.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "an unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidInputType):
		return "Invalid input_type. Must be 'chat' or 'url'."

	case errors.Is(err, domain.ErrEmptyInputSource):
		return "input_source cannot be empty"

	case errors.Is(err, engine.ErrInvalidConfig):
		return "the processing engine is misconfigured"

	case errors.Is(err, engine.ErrTransientFailure):
		return "the processing engine is temporarily unavailable"

	case errors.Is(err, engine.ErrInvalidResponse):
		return "the processing engine returned an invalid response"

	case errors.Is(err, engine.ErrProcessingFailed):
		return "the processing engine could not complete the request"

	default:
		var svcErr *service.ProcessServiceError
		if errors.As(err, &svcErr) && svcErr.Operation == "stage_upload" {
			return "the uploaded document could not be staged"
		}
		return "an unexpected error occurred"
	}
}
