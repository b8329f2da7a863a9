package engine

import (
	"context"

	"github.com/phrazzld/distill-api/internal/domain"
)

// ProgressFunc is the hook through which the engine reports milestone updates
// while processing a request. It is invoked zero or more times before the
// final result, with percent in the range 0-100 and a human-readable stage
// message. Implementations must be cheap and non-blocking; the engine calls
// the hook inline on its processing goroutine.
type ProgressFunc func(percent int, message string)

// InputDescriptor is the normalized description of one unit of work handed
// to the engine.
type InputDescriptor struct {
	// Source carries the input itself: the prompt text for chat inputs, the
	// address for url inputs, or the staged artifact path for file inputs.
	Source string

	// Type tells the engine how to interpret Source.
	Type domain.InputType

	// EnableIndexing asks the engine to run its indexing pass over the input
	// before synthesis, producing an intermediate outline that guides the
	// final result.
	EnableIndexing bool
}

// Result is the engine's structured verdict for one request. Status mirrors
// the engine's own success/error report; exactly one of Result or Error is
// populated accordingly.
type Result struct {
	Status domain.TaskStatus `json:"status"`
	Result string            `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Succeeded reports whether the engine completed the request successfully.
func (r *Result) Succeeded() bool {
	return r != nil && r.Status == domain.TaskStatusSuccess
}

// Engine defines the interface for the external content-processing engine.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
type Engine interface {
	// Process runs the engine once against the provided input.
	//
	// A failure the engine can articulate about the input itself (unreachable
	// URL, unreadable document, content refused by the model) is not an error
	// in the Go sense: it is returned as a Result with Status error and a nil
	// error value. The error return is reserved for faults in reaching or
	// running the engine (configuration, transport, malformed API responses);
	// see errors.go for the concrete sentinels.
	//
	// Parameters:
	//   - ctx: Context for the operation, which can be used for cancellation
	//   - input: The normalized input descriptor to process
	//   - onProgress: Optional progress hook; may be nil when the caller does
	//     not need updates
	//
	// Returns:
	//   - The engine's structured Result (success or engine-reported error)
	//   - An error if the engine could not be invoked or produced no verdict
	Process(ctx context.Context, input InputDescriptor, onProgress ProgressFunc) (*Result, error)
}
