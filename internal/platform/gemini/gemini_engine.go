package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phrazzld/distill-api/internal/config"
	"github.com/phrazzld/distill-api/internal/domain"
	"github.com/phrazzld/distill-api/internal/engine"
	"google.golang.org/genai"
)

const (
	// maxFetchBytes caps how much of a remote URL body is read into memory.
	// Content beyond the cap is truncated, not rejected.
	maxFetchBytes = 10 << 20

	// urlFetchTimeout bounds the whole fetch of a url input.
	urlFetchTimeout = 30 * time.Second
)

// Stage percentages reported through the progress hook. Synthesis streams,
// so its percentage climbs with each received chunk up to percentStreamCap.
const (
	percentPreparing  = 5
	percentPrepared   = 20
	percentIndexing   = 30
	percentIndexed    = 45
	percentSynthesis  = 50
	percentStreamCap  = 90
	percentFinalizing = 95
	percentComplete   = 100
)

// Prompt preambles for the two engine passes.
const (
	indexingPreamble = "You are indexing source material before a full analysis. " +
		"Produce a concise hierarchical outline of the following content: its main " +
		"sections, claims, and any algorithms or data structures it describes."

	synthesisPreamble = "Distill the following content into a structured implementation " +
		"brief. Respond in markdown with these sections: Overview, Key Concepts, " +
		"Implementation Steps, and Caveats. Be specific and concrete."

	outlinePreamble = "Use this previously generated index to ground your answer:"
)

// GeminiEngine implements the engine.Engine interface using Google's
// Gemini API to process chat, URL, and document inputs.
type GeminiEngine struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains engine-specific configuration
	config config.EngineConfig

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string

	// fetch is the HTTP client used to retrieve url inputs
	fetch *http.Client
}

// NewGeminiEngine creates a new instance of GeminiEngine with the provided dependencies.
//
// Parameters:
//   - ctx: Context for the operation, which can be used for cancellation
//   - logger: A structured logger for operation logging
//   - cfg: Engine configuration containing API key, model name, and retry settings
//
// Returns:
//   - A properly initialized GeminiEngine or an error if initialization fails
func NewGeminiEngine(ctx context.Context, logger *slog.Logger, cfg config.EngineConfig) (*GeminiEngine, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	// Validate configuration
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", engine.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", engine.ErrInvalidConfig)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			engine.ErrInvalidConfig, err)
	}

	return &GeminiEngine{
		logger: logger,
		config: cfg,
		client: client,
		model:  cfg.ModelName,
		fetch:  &http.Client{Timeout: urlFetchTimeout},
	}, nil
}

// Ensure GeminiEngine implements engine.Engine interface
var _ engine.Engine = (*GeminiEngine)(nil)

// Process runs the engine once against the provided input.
//
// Input-level failures (empty source, unreachable URL, unreadable file,
// content refused by the model) are reported as a structured Result with
// Status error and a nil Go error. Faults in reaching or running the API
// (configuration, transport after retries, malformed responses) are returned
// as Go errors.
//
// Parameters:
//   - ctx: Context for the operation, which can be used for cancellation
//   - input: The normalized input descriptor to process
//   - onProgress: Optional progress hook; may be nil
//
// Returns:
//   - The engine's structured Result (success or engine-reported error)
//   - An error if the engine could not be invoked or produced no verdict
func (e *GeminiEngine) Process(
	ctx context.Context,
	input engine.InputDescriptor,
	onProgress engine.ProgressFunc,
) (*engine.Result, error) {
	if onProgress == nil {
		onProgress = func(int, string) {}
	}

	if input.Source == "" {
		return engineError("input source cannot be empty"), nil
	}

	e.logger.InfoContext(ctx, "Processing input",
		"input_type", string(input.Type),
		"enable_indexing", input.EnableIndexing,
		"model", e.model)

	onProgress(percentPreparing, preparingMessage(input.Type))

	inputParts, err := e.resolveInput(ctx, input)
	if err != nil {
		e.logger.WarnContext(ctx, "Input could not be resolved",
			"input_type", string(input.Type),
			"error", err)
		return engineError(err.Error()), nil
	}

	onProgress(percentPrepared, "Input prepared")

	var outline string
	if input.EnableIndexing {
		onProgress(percentIndexing, "Indexing content")

		indexParts := append([]*genai.Part{genai.NewPartFromText(indexingPreamble)}, inputParts...)
		outline, err = e.generateWithRetry(ctx, partsToContents(indexParts))
		if err != nil {
			if errors.Is(err, engine.ErrContentBlocked) {
				return engineError("content blocked by model safety filters"), nil
			}
			return nil, err
		}

		onProgress(percentIndexed, "Index complete")
	}

	onProgress(percentSynthesis, "Synthesizing result")

	synthesisParts := []*genai.Part{genai.NewPartFromText(synthesisPreamble)}
	if outline != "" {
		synthesisParts = append(synthesisParts,
			genai.NewPartFromText(outlinePreamble),
			genai.NewPartFromText(outline))
	}
	synthesisParts = append(synthesisParts, inputParts...)

	text, err := e.synthesizeWithRetry(ctx, partsToContents(synthesisParts), onProgress)
	if err != nil {
		if errors.Is(err, engine.ErrContentBlocked) {
			return engineError("content blocked by model safety filters"), nil
		}
		return nil, err
	}

	onProgress(percentFinalizing, "Finalizing output")

	e.logger.InfoContext(ctx, "Processing complete",
		"input_type", string(input.Type),
		"result_length", len(text))

	onProgress(percentComplete, "Processing complete")

	return &engine.Result{
		Status: domain.TaskStatusSuccess,
		Result: text,
	}, nil
}

// resolveInput turns the input descriptor into model content parts:
// the prompt itself for chat, the fetched body for url, and the staged
// file's bytes for file inputs.
func (e *GeminiEngine) resolveInput(ctx context.Context, input engine.InputDescriptor) ([]*genai.Part, error) {
	switch input.Type {
	case domain.InputTypeChat:
		return []*genai.Part{genai.NewPartFromText(input.Source)}, nil

	case domain.InputTypeURL:
		return e.fetchURL(ctx, input.Source)

	case domain.InputTypeFile:
		return e.readFile(ctx, input.Source)

	default:
		return nil, fmt.Errorf("unsupported input type %q", string(input.Type))
	}
}

// fetchURL retrieves a url input's content, capped at maxFetchBytes.
func (e *GeminiEngine) fetchURL(ctx context.Context, rawURL string) ([]*genai.Part, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %v", rawURL, err)
	}

	resp, err := e.fetch.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			e.logger.WarnContext(ctx, "Failed to close URL response body", "error", closeErr)
		}
	}()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("failed to fetch URL: server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read URL content: %v", err)
	}

	if len(body) == 0 {
		return nil, errors.New("URL returned no content")
	}

	e.logger.DebugContext(ctx, "Fetched URL content",
		"bytes", len(body),
		"content_type", resp.Header.Get("Content-Type"))

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "application/pdf" {
		return []*genai.Part{genai.NewPartFromBytes(body, "application/pdf")}, nil
	}

	return []*genai.Part{genai.NewPartFromText(string(body))}, nil
}

// readFile loads a staged artifact for processing. Text-like files ride as
// text parts; everything else is passed as raw bytes with a MIME type
// derived from the extension.
func (e *GeminiEngine) readFile(ctx context.Context, path string) ([]*genai.Part, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %v", err)
	}

	if len(data) == 0 {
		return nil, errors.New("document is empty")
	}

	mediaType := mimeForFile(path)
	e.logger.DebugContext(ctx, "Loaded document",
		"path", path,
		"bytes", len(data),
		"mime_type", mediaType)

	if strings.HasPrefix(mediaType, "text/") {
		return []*genai.Part{genai.NewPartFromText(string(data))}, nil
	}

	return []*genai.Part{genai.NewPartFromBytes(data, mediaType)}, nil
}

// generateWithRetry makes a non-streaming call to the Gemini API with
// exponential backoff retry logic.
//
// It attempts the call up to config.MaxRetries+1 times, backing off with
// jitter between retries for transient errors. Permanent errors (blocked
// content, malformed responses) are returned immediately without retrying.
func (e *GeminiEngine) generateWithRetry(ctx context.Context, contents []*genai.Content) (string, error) {
	return e.callWithRetry(ctx, func() (string, error, bool) {
		resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, nil)
		if err != nil {
			return "", err, isTransientAPIError(err)
		}

		text, err := extractText(resp)
		if err != nil {
			return "", err, false
		}

		if text == "" {
			return "", fmt.Errorf("%w: empty content in response", engine.ErrInvalidResponse), false
		}

		return text, nil, false
	})
}

// synthesizeWithRetry makes a streaming call to the Gemini API, forwarding a
// climbing progress percentage as chunks arrive. Retries follow the same
// discipline as generateWithRetry; a retried attempt restarts the stream but
// the reported percentage never goes backwards.
func (e *GeminiEngine) synthesizeWithRetry(
	ctx context.Context,
	contents []*genai.Content,
	onProgress engine.ProgressFunc,
) (string, error) {
	highWater := percentSynthesis

	return e.callWithRetry(ctx, func() (string, error, bool) {
		var sb strings.Builder
		chunks := 0

		for resp, err := range e.client.Models.GenerateContentStream(ctx, e.model, contents, nil) {
			if err != nil {
				return "", err, isTransientAPIError(err)
			}

			text, err := extractText(resp)
			if err != nil {
				return "", err, false
			}

			// Trailing chunks may carry only metadata
			if text == "" {
				continue
			}

			sb.WriteString(text)
			chunks++

			if percent := percentSynthesis + chunks; percent > highWater && percent <= percentStreamCap {
				highWater = percent
				onProgress(percent, "Synthesizing result")
			}
		}

		if sb.Len() == 0 {
			return "", fmt.Errorf("%w: empty content in response", engine.ErrInvalidResponse), false
		}

		return sb.String(), nil, false
	})
}

// callWithRetry runs one API attempt function under the shared retry policy.
// The attempt reports its result, its error, and whether that error is
// transient; transient errors are retried with exponential backoff and
// jitter until the attempt budget is spent.
func (e *GeminiEngine) callWithRetry(
	ctx context.Context,
	attemptFn func() (string, error, bool),
) (string, error) {
	maxRetries := e.config.MaxRetries
	baseDelaySeconds := e.config.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Validate retry configuration
	if maxRetries < 0 {
		e.logger.WarnContext(ctx, "Invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}

	if baseDelaySeconds < 1 {
		e.logger.WarnContext(ctx, "Invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1 // For logging (1-based)
		e.logger.InfoContext(ctx, "Making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		text, err, isTransient := attemptFn()
		if err == nil {
			e.logger.InfoContext(ctx, "Gemini API call successful",
				"attempt", attemptNum)
			return text, nil
		}

		e.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		// Permanent failures are never retried
		if errors.Is(err, engine.ErrContentBlocked) || errors.Is(err, engine.ErrInvalidResponse) {
			e.logger.WarnContext(ctx, "Permanent error occurred, not retrying")
			return "", err
		}

		if attempt >= maxRetries {
			e.logger.WarnContext(ctx, "Maximum retry attempts reached",
				"max_retries", maxRetries)
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				engine.ErrTransientFailure, maxRetries, err)
		}

		if !isTransient {
			e.logger.WarnContext(ctx, "Non-transient error occurred, not retrying")
			return "", fmt.Errorf("%w: %v", engine.ErrProcessingFailed, err)
		}

		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		e.logger.InfoContext(ctx, "Retrying after delay",
			"attempt", attemptNum,
			"delay_seconds", delay.Seconds())

		select {
		case <-time.After(delay):
			// Continue to next attempt
		case <-ctx.Done():
			e.logger.WarnContext(ctx, "API call cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", ctx.Err())
			return "", fmt.Errorf("%w: %v", engine.ErrTransientFailure, ctx.Err())
		}
	}
}

// extractText pulls the generated text out of an API response, translating
// refusals into package errors. A response with no candidates yields an
// empty string and no error; callers decide whether that is fatal (it is for
// a whole non-streaming response, not for one chunk of a stream).
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", engine.ErrInvalidResponse)
	}

	if resp.PromptFeedback != nil &&
		resp.PromptFeedback.BlockReason != "" &&
		resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		return "", fmt.Errorf("%w: prompt blocked (%s)",
			engine.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return "", nil
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response stopped by safety filters", engine.ErrContentBlocked)
	}

	return resp.Text(), nil
}

// isTransientAPIError reports whether an API call failure is worth retrying.
// Rate limiting, timeouts, and server-side faults are transient; any other
// structured API error (bad request, invalid key) is permanent. Errors
// without an APIError in their chain are assumed transient, matching the
// network-level failures they usually represent.
func isTransientAPIError(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return true
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return true
	case apiErr.Code == http.StatusRequestTimeout:
		return true
	case apiErr.Code >= 500:
		return true
	default:
		return false
	}
}

// mimeForFile derives a MIME type from a file extension, defaulting to a
// generic byte stream for unknown extensions.
func mimeForFile(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "application/octet-stream"
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		return "application/octet-stream"
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "application/octet-stream"
	}

	return mediaType
}

// preparingMessage names the first progress stage per input type.
func preparingMessage(inputType domain.InputType) string {
	switch inputType {
	case domain.InputTypeURL:
		return "Fetching URL content"
	case domain.InputTypeFile:
		return "Reading document"
	default:
		return "Preparing input"
	}
}

// partsToContents wraps prompt parts as a single user turn.
func partsToContents(parts []*genai.Part) []*genai.Content {
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

// engineError builds the structured error verdict the engine reports for
// input-level failures.
func engineError(message string) *engine.Result {
	return &engine.Result{
		Status: domain.TaskStatusError,
		Error:  message,
	}
}
