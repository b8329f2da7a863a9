package store

import (
	"context"

	"github.com/phrazzld/distill-api/internal/domain"
)

// HistoryStore defines the interface for task history persistence.
// Version: 1.0
type HistoryStore interface {
	// Append records a completed task in the history ledger.
	// It handles domain validation internally and evicts the oldest
	// entries once the ledger exceeds its configured capacity.
	// Returns validation errors from the domain HistoryEntry if data is invalid.
	Append(ctx context.Context, entry *domain.HistoryEntry) error

	// List retrieves all retained history entries, ordered oldest first.
	// Returns an empty slice when no history has been recorded.
	List(ctx context.Context) ([]*domain.HistoryEntry, error)

	// Clear removes every retained history entry.
	Clear(ctx context.Context) error
}
