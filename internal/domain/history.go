package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the final outcome of a processing request
type TaskStatus string

// Possible task status values
const (
	TaskStatusSuccess TaskStatus = "success"
	TaskStatusError   TaskStatus = "error"
)

// InputType identifies the kind of input submitted for processing
type InputType string

// Recognized input types
const (
	InputTypeChat InputType = "chat"
	InputTypeURL  InputType = "url"
	InputTypeFile InputType = "file"
)

// Common validation errors for HistoryEntry
var (
	ErrEmptyHistoryEntryID = errors.New("history entry ID cannot be empty")
	ErrEmptyInputSource    = errors.New("input source cannot be empty")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidInputType    = errors.New("invalid input type")
)

// HistoryEntry records the outcome of one processing request.
// Entries are append-only; once written to the ledger they are never mutated.
// For file inputs InputSource holds the original upload filename, otherwise
// it holds the submitted source verbatim.
type HistoryEntry struct {
	ID            uuid.UUID  `json:"id"`
	Timestamp     time.Time  `json:"timestamp"`
	Status        TaskStatus `json:"status"`
	InputType     InputType  `json:"input_type"`
	InputSource   string     `json:"input_source"`
	ResultSummary string     `json:"result_summary,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
}

// NewSuccessEntry creates a HistoryEntry for a request the engine completed
// successfully. It generates a new UUID for the entry ID and stamps the
// current time. Returns an error if validation fails.
func NewSuccessEntry(inputType InputType, inputSource, resultSummary string) (*HistoryEntry, error) {
	entry := &HistoryEntry{
		ID:            uuid.New(),
		Timestamp:     time.Now().UTC(),
		Status:        TaskStatusSuccess,
		InputType:     inputType,
		InputSource:   inputSource,
		ResultSummary: resultSummary,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// NewErrorEntry creates a HistoryEntry for a request that ended in a failure,
// whether reported by the engine or raised during orchestration.
// Returns an error if validation fails.
func NewErrorEntry(inputType InputType, inputSource, errorMessage string) (*HistoryEntry, error) {
	entry := &HistoryEntry{
		ID:           uuid.New(),
		Timestamp:    time.Now().UTC(),
		Status:       TaskStatusError,
		InputType:    inputType,
		InputSource:  inputSource,
		ErrorMessage: errorMessage,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the HistoryEntry has valid data.
// Returns an error if any field fails validation.
func (e *HistoryEntry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyHistoryEntryID
	}

	if e.InputSource == "" {
		return ErrEmptyInputSource
	}

	if !isValidTaskStatus(e.Status) {
		return ErrInvalidTaskStatus
	}

	if !IsValidInputType(e.InputType) {
		return ErrInvalidInputType
	}

	return nil
}

// ParseInputType converts a wire-level input type string into an InputType.
// Returns ErrInvalidInputType for unrecognized values.
func ParseInputType(value string) (InputType, error) {
	inputType := InputType(value)
	if !IsValidInputType(inputType) {
		return "", ErrInvalidInputType
	}
	return inputType, nil
}

// IsValidInputType checks if the given type is a recognized InputType.
func IsValidInputType(inputType InputType) bool {
	switch inputType {
	case InputTypeChat, InputTypeURL, InputTypeFile:
		return true
	default:
		return false
	}
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusSuccess, TaskStatusError:
		return true
	default:
		return false
	}
}
