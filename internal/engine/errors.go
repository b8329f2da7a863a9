package engine

import "errors"

// Common errors returned by the engine package
var (
	// ErrProcessingFailed is returned when processing fails for any general reason
	ErrProcessingFailed = errors.New("failed to process input")

	// ErrInvalidResponse is returned when the engine response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from processing engine")

	// ErrContentBlocked signals that the model refused the content on safety
	// grounds. Implementations classify with it internally and report the
	// refusal through a structured Result rather than returning it from Process.
	ErrContentBlocked = errors.New("content blocked by model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during processing")

	// ErrInvalidConfig is returned when the engine configuration is invalid
	ErrInvalidConfig = errors.New("invalid engine configuration")
)
