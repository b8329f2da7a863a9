package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/distill-api/internal/convert"
	"github.com/phrazzld/distill-api/internal/domain"
	"github.com/phrazzld/distill-api/internal/engine"
	"github.com/phrazzld/distill-api/internal/events"
	"github.com/phrazzld/distill-api/internal/platform/logger"
	"github.com/phrazzld/distill-api/internal/redact"
	"github.com/phrazzld/distill-api/internal/store"
)

// resultSummaryLimit caps the length of the result summary recorded in the
// history ledger. The full result still travels back in the HTTP response.
const resultSummaryLimit = 200

// ArtifactStore defines the staging operations the orchestrator needs.
// This is aligned with artifact.Store so the concrete implementation can be
// injected directly.
type ArtifactStore interface {
	// Stage copies an upload into the scratch directory and returns its path
	Stage(src io.Reader, originalFilename string) (string, error)

	// Release removes a staged artifact; releasing a missing file is not an error
	Release(path string) error
}

// ProcessService drives one content-processing request end to end: staging
// for file inputs, conversion policy, a single engine dispatch with progress
// fan-out, and history recording.
type ProcessService interface {
	// ProcessText submits chat text or a URL for processing
	ProcessText(
		ctx context.Context,
		inputSource string,
		inputType domain.InputType,
		enableIndexing bool,
	) (*engine.Result, error)

	// ProcessFile stages an uploaded document and submits it for processing
	ProcessFile(
		ctx context.Context,
		upload io.Reader,
		originalFilename string,
		enableIndexing bool,
	) (*engine.Result, error)
}

// ProcessServiceError wraps errors from the process service with context.
type ProcessServiceError struct {
	// Operation is the operation that failed (e.g., "stage_upload", "dispatch")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ProcessServiceError.
func (e *ProcessServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("process service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("process service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ProcessServiceError) Unwrap() error {
	return e.Err
}

// NewProcessServiceError creates a new ProcessServiceError.
// It returns known sentinel errors directly without wrapping.
func NewProcessServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrInvalidInput) {
		return ErrInvalidInput
	}

	return &ProcessServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// processServiceImpl implements the ProcessService interface
type processServiceImpl struct {
	engine      engine.Engine
	artifacts   ArtifactStore
	converter   convert.Converter
	history     store.HistoryStore
	broadcaster events.Broadcaster
	logger      *slog.Logger
}

// NewProcessService creates a new ProcessService.
// It returns an error if any of the required dependencies are nil.
func NewProcessService(
	engine engine.Engine,
	artifacts ArtifactStore,
	converter convert.Converter,
	history store.HistoryStore,
	broadcaster events.Broadcaster,
	logger *slog.Logger,
) (ProcessService, error) {
	if engine == nil {
		return nil, &ProcessServiceError{
			Operation: "create_service",
			Message:   "engine cannot be nil",
		}
	}
	if artifacts == nil {
		return nil, &ProcessServiceError{
			Operation: "create_service",
			Message:   "artifacts cannot be nil",
		}
	}
	if converter == nil {
		return nil, &ProcessServiceError{
			Operation: "create_service",
			Message:   "converter cannot be nil",
		}
	}
	if history == nil {
		return nil, &ProcessServiceError{
			Operation: "create_service",
			Message:   "history cannot be nil",
		}
	}
	if broadcaster == nil {
		return nil, &ProcessServiceError{
			Operation: "create_service",
			Message:   "broadcaster cannot be nil",
		}
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &processServiceImpl{
		engine:      engine,
		artifacts:   artifacts,
		converter:   converter,
		history:     history,
		broadcaster: broadcaster,
		logger:      logger.With("component", "process_service"),
	}, nil
}

// ProcessText submits chat text or a URL for a single engine dispatch.
// File inputs must go through ProcessFile so they are staged first.
func (s *processServiceImpl) ProcessText(
	ctx context.Context,
	inputSource string,
	inputType domain.InputType,
	enableIndexing bool,
) (*engine.Result, error) {
	if inputType != domain.InputTypeChat && inputType != domain.InputTypeURL {
		return nil, ErrInvalidInput
	}

	input := engine.InputDescriptor{
		Source:         inputSource,
		Type:           inputType,
		EnableIndexing: enableIndexing,
	}

	return s.dispatch(ctx, input, inputSource)
}

// ProcessFile stages the upload, applies the conversion policy, and submits
// the resulting artifact for a single engine dispatch. Every artifact staged
// along the way is released before the method returns, on every exit path.
func (s *processServiceImpl) ProcessFile(
	ctx context.Context,
	upload io.Reader,
	originalFilename string,
	enableIndexing bool,
) (*engine.Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	stagedPath, err := s.artifacts.Stage(upload, originalFilename)
	if err != nil {
		log.Error("failed to stage uploaded document",
			"error", redact.Error(err),
			"filename", originalFilename)
		return nil, NewProcessServiceError("stage_upload", "failed to stage uploaded document", err)
	}

	staged := []string{stagedPath}
	defer func() {
		for _, path := range staged {
			if releaseErr := s.artifacts.Release(path); releaseErr != nil {
				log.Warn("failed to release staged artifact",
					"error", redact.Error(releaseErr))
			}
		}
	}()

	// Conversion is best-effort: on any failure the original upload is
	// dispatched instead.
	dispatchPath := stagedPath
	if convert.NeedsConversion(stagedPath) && s.converter.Available() {
		pdfPath, convErr := s.converter.Convert(ctx, stagedPath)
		if convErr != nil {
			log.Warn("document conversion failed, dispatching original upload",
				"error", redact.Error(convErr),
				"filename", originalFilename)
		} else {
			staged = append(staged, pdfPath)
			dispatchPath = pdfPath
		}
	}

	input := engine.InputDescriptor{
		Source:         dispatchPath,
		Type:           domain.InputTypeFile,
		EnableIndexing: enableIndexing,
	}

	// History records the original filename, never the scratch path.
	return s.dispatch(ctx, input, originalFilename)
}

// dispatch invokes the engine exactly once, relaying progress updates to the
// broadcaster and appending exactly one history entry for the outcome.
func (s *processServiceImpl) dispatch(
	ctx context.Context,
	input engine.InputDescriptor,
	historySource string,
) (*engine.Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	onProgress := func(percent int, message string) {
		s.broadcaster.Broadcast(events.NewProgressEvent(percent, message))
	}

	result, err := s.engine.Process(ctx, input, onProgress)
	if err == nil && result == nil {
		err = engine.ErrInvalidResponse
	}
	if err != nil {
		log.Error("engine invocation failed",
			"error", redact.Error(err),
			"input_type", string(input.Type))

		entry, buildErr := domain.NewErrorEntry(input.Type, historySource, redact.Error(err))
		s.recordOutcome(ctx, entry, buildErr)

		return nil, NewProcessServiceError("dispatch", "engine invocation failed", err)
	}

	if result.Succeeded() {
		log.Info("processing completed",
			"input_type", string(input.Type),
			"status", string(result.Status))

		entry, buildErr := domain.NewSuccessEntry(input.Type, historySource, summarizeResult(result.Result))
		s.recordOutcome(ctx, entry, buildErr)

		return result, nil
	}

	// An engine-reported failure is a normal outcome: it is recorded with
	// error status and returned to the caller as the engine's own payload.
	log.Info("engine reported a processing failure",
		"input_type", string(input.Type),
		"engine_error", result.Error)

	entry, buildErr := domain.NewErrorEntry(input.Type, historySource, result.Error)
	s.recordOutcome(ctx, entry, buildErr)

	return result, nil
}

// recordOutcome appends one history entry for a finished dispatch. Ledger
// failures are logged and swallowed so persistence problems never fail a
// request that already has a verdict.
func (s *processServiceImpl) recordOutcome(ctx context.Context, entry *domain.HistoryEntry, buildErr error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if buildErr != nil {
		log.Warn("could not build history entry for outcome", "error", buildErr)
		return
	}

	if err := s.history.Append(ctx, entry); err != nil {
		log.Warn("failed to record history entry",
			"error", redact.Error(err),
			"entry_id", entry.ID)
	}
}

// summarizeResult trims the engine's full result down to the short summary
// recorded in the history ledger.
func summarizeResult(result string) string {
	runes := []rune(result)
	if len(runes) <= resultSummaryLimit {
		return result
	}
	return string(runes[:resultSummaryLimit]) + "..."
}
