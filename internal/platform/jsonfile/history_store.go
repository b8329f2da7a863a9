package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/phrazzld/distill-api/internal/domain"
	"github.com/phrazzld/distill-api/internal/platform/logger"
	"github.com/phrazzld/distill-api/internal/store"
)

// JSONFileHistoryStore implements the store.HistoryStore interface using a
// single JSON document on the local filesystem as the storage backend.
//
// All operations serialize on an internal mutex, so a store instance is safe
// for concurrent use by multiple goroutines. Every mutation rewrites the
// whole document through a temp-file-and-rename sequence, keeping the ledger
// readable even if the process dies mid-write.
type JSONFileHistoryStore struct {
	mu         sync.Mutex
	path       string
	maxEntries int
	logger     *slog.Logger
}

// NewJSONFileHistoryStore creates a new file-backed implementation of the
// HistoryStore interface persisting to the given path. The file and its
// parent directory are created lazily on the first write. maxEntries bounds
// the ledger; once exceeded, the oldest entries are evicted.
// If logger is nil, a default logger will be used.
func NewJSONFileHistoryStore(path string, maxEntries int, logger *slog.Logger) (*JSONFileHistoryStore, error) {
	if path == "" {
		return nil, errors.New("history ledger path cannot be empty")
	}
	if maxEntries <= 0 {
		return nil, fmt.Errorf("history ledger capacity must be positive, got %d", maxEntries)
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &JSONFileHistoryStore{
		path:       path,
		maxEntries: maxEntries,
		logger:     logger.With(slog.String("component", "history_store")),
	}, nil
}

// Ensure JSONFileHistoryStore implements store.HistoryStore interface
var _ store.HistoryStore = (*JSONFileHistoryStore)(nil)

// Append implements store.HistoryStore.Append
// It records a completed task at the end of the ledger, handling domain
// validation. When the ledger grows past its capacity the oldest entries are
// dropped so the file stays bounded.
// Returns validation errors from the domain HistoryEntry if data is invalid.
func (s *JSONFileHistoryStore) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Validate entry data
	if err := entry.Validate(); err != nil {
		log.Warn("history entry validation failed during append",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load(log)
	entries = append(entries, entry)
	if len(entries) > s.maxEntries {
		entries = entries[len(entries)-s.maxEntries:]
	}

	if err := s.write(log, entries); err != nil {
		log.Error("failed to persist history ledger",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return err
	}

	log.Info("history entry appended",
		slog.String("entry_id", entry.ID.String()),
		slog.String("status", string(entry.Status)),
		slog.Int("retained", len(entries)))
	return nil
}

// List implements store.HistoryStore.List
// It retrieves all retained entries in insertion order, oldest first.
// A missing or unreadable ledger yields an empty slice rather than an error.
func (s *JSONFileHistoryStore) List(ctx context.Context) ([]*domain.HistoryEntry, error) {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(log), nil
}

// Clear implements store.HistoryStore.Clear
// It rewrites the ledger as an empty document. The file itself is kept so
// that readers polling the path never observe it vanishing.
func (s *JSONFileHistoryStore) Clear(ctx context.Context) error {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(log, []*domain.HistoryEntry{}); err != nil {
		log.Error("failed to clear history ledger",
			slog.String("error", err.Error()))
		return err
	}

	log.Info("history ledger cleared")
	return nil
}

// load reads the ledger from disk. A missing file is the normal first-run
// state and yields an empty ledger; an unreadable or corrupt file is logged
// and likewise treated as empty, so one bad payload can never wedge the
// service. Callers must hold s.mu.
func (s *JSONFileHistoryStore) load(log *slog.Logger) []*domain.HistoryEntry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("failed to read history ledger, starting empty",
				slog.String("path", s.path),
				slog.String("error", err.Error()))
		}
		return []*domain.HistoryEntry{}
	}

	if len(data) == 0 {
		return []*domain.HistoryEntry{}
	}

	var entries []*domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn("history ledger is corrupt, starting empty",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return []*domain.HistoryEntry{}
	}

	return entries
}

// write replaces the ledger with the given entries. The document is written
// to a temp file in the same directory and renamed into place; rename is
// atomic on POSIX filesystems, so readers see either the old ledger or the
// new one, never a truncated mix. Callers must hold s.mu.
func (s *JSONFileHistoryStore) write(log *slog.Logger, entries []*domain.HistoryEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary ledger file: %w", err)
	}

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.discardTemp(log, tmp.Name())
		return fmt.Errorf("failed to write temporary ledger file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		s.discardTemp(log, tmp.Name())
		return fmt.Errorf("failed to replace history ledger %s: %w", s.path, err)
	}

	return nil
}

// discardTemp removes a temp file left behind by a failed write.
func (s *JSONFileHistoryStore) discardTemp(log *slog.Logger, name string) {
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		log.Warn("failed to remove temporary ledger file",
			slog.String("path", name),
			slog.String("error", err.Error()))
	}
}
