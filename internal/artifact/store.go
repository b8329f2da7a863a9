package artifact

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store stages request artifacts under a scratch directory. Staged files are
// named by a fresh UUID per upload so concurrent requests can never collide;
// the original filename's extension is preserved for downstream format
// detection. The directory is created lazily on first use.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a Store rooted at dir. The directory is not created until
// the first Stage call.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("artifact store directory cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		dir:    dir,
		logger: logger.With("component", "artifact_store"),
	}, nil
}

// Dir returns the scratch directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Stage writes src to a freshly-generated path under the scratch directory
// and returns that path. Every successful Stage must be paired with a
// Release once the owning request has finished, regardless of its outcome.
func (s *Store) Stage(src io.Reader, originalFilename string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create scratch directory %s: %w", s.dir, err)
	}

	ext := filepath.Ext(originalFilename)
	path := filepath.Join(s.dir, uuid.New().String()+ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create staged artifact: %w", err)
	}

	written, err := io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// Don't leave a partial file behind
		if removeErr := os.Remove(path); removeErr != nil {
			s.logger.Warn("failed to remove partial staged artifact",
				"path", path,
				"error", removeErr)
		}
		return "", fmt.Errorf("failed to write staged artifact: %w", err)
	}

	s.logger.Debug("staged artifact",
		"path", path,
		"original_filename", originalFilename,
		"bytes", written)

	return path, nil
}

// Release deletes the artifact at path. A path that no longer exists is
// treated as success so that cleanup can run unconditionally on every exit
// path of a request.
func (s *Store) Release(path string) error {
	if path == "" {
		return nil
	}

	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release artifact %s: %w", path, err)
	}

	s.logger.Debug("released artifact", "path", path)
	return nil
}
