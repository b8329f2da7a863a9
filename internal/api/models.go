package api

import (
	"errors"
	"time"

	"github.com/phrazzld/distill-api/internal/domain"
)

// Common request/response structures

// ProcessTextRequest defines the payload for the text processing endpoint.
type ProcessTextRequest struct {
	// InputSource is the chat text or URL to process
	InputSource string `json:"input_source"`

	// InputType selects how InputSource is interpreted; "chat" or "url"
	InputType string `json:"input_type"`

	// EnableIndexing toggles the engine's indexing pass; defaults to true
	// when omitted
	EnableIndexing *bool `json:"enable_indexing"`
}

// Validate checks that the request names a kind of input this endpoint
// accepts. File uploads go through the multipart endpoint instead.
func (r *ProcessTextRequest) Validate() error {
	if r.InputType != string(domain.InputTypeChat) && r.InputType != string(domain.InputTypeURL) {
		return errors.New("Invalid input_type. Must be 'chat' or 'url'.")
	}
	return nil
}

// IndexingEnabled resolves the optional EnableIndexing flag to its default.
func (r *ProcessTextRequest) IndexingEnabled() bool {
	return r.EnableIndexing == nil || *r.EnableIndexing
}

// HistoryEntryResponse represents one history ledger entry on the wire.
type HistoryEntryResponse struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Status        string    `json:"status"`
	InputType     string    `json:"input_type"`
	InputSource   string    `json:"input_source"`
	ResultSummary string    `json:"result_summary,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
}

// AckResponse defines the acknowledgment payload for mutating endpoints
// that have no data to return.
type AckResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthResponse defines the liveness probe payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// historyEntryToResponse converts a domain.HistoryEntry to a HistoryEntryResponse
func historyEntryToResponse(entry *domain.HistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:            entry.ID.String(),
		Timestamp:     entry.Timestamp,
		Status:        string(entry.Status),
		InputType:     string(entry.InputType),
		InputSource:   entry.InputSource,
		ResultSummary: entry.ResultSummary,
		ErrorMessage:  entry.ErrorMessage,
	}
}
