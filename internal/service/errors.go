package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent expected conditions that callers check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrInvalidInput indicates the submitted input kind is not one the
	// orchestrator accepts. API layer should map this to HTTP 400 Bad Request.
	ErrInvalidInput = errors.New("invalid input type")
)
