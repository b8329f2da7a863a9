package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/distill-api/internal/config"
	"github.com/phrazzld/distill-api/internal/domain"
	"github.com/phrazzld/distill-api/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T) *GeminiEngine {
	t.Helper()
	eng, err := NewGeminiEngine(context.Background(), testLogger(), config.EngineConfig{
		GeminiAPIKey:      "test-api-key",
		ModelName:         "gemini-2.0-flash",
		MaxRetries:        1,
		RetryDelaySeconds: 1,
	})
	require.NoError(t, err)
	return eng
}

func TestNewGeminiEngine(t *testing.T) {
	tests := []struct {
		name        string
		logger      *slog.Logger
		config      config.EngineConfig
		expectError bool
		errorType   error
		errorMsg    string
	}{
		{
			name:        "nil_logger_returns_error",
			logger:      nil,
			config:      config.EngineConfig{GeminiAPIKey: "key", ModelName: "model"},
			expectError: true,
			errorMsg:    "logger cannot be nil",
		},
		{
			name:        "empty_api_key_returns_config_error",
			logger:      testLogger(),
			config:      config.EngineConfig{ModelName: "gemini-2.0-flash"},
			expectError: true,
			errorType:   engine.ErrInvalidConfig,
			errorMsg:    "gemini API key cannot be empty",
		},
		{
			name:        "empty_model_name_returns_config_error",
			logger:      testLogger(),
			config:      config.EngineConfig{GeminiAPIKey: "test-api-key"},
			expectError: true,
			errorType:   engine.ErrInvalidConfig,
			errorMsg:    "model name cannot be empty",
		},
		{
			name:   "valid_config_returns_engine",
			logger: testLogger(),
			config: config.EngineConfig{
				GeminiAPIKey:      "test-api-key",
				ModelName:         "gemini-2.0-flash",
				MaxRetries:        3,
				RetryDelaySeconds: 2,
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			eng, err := NewGeminiEngine(ctx, tt.logger, tt.config)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, eng)
				assert.Contains(t, err.Error(), tt.errorMsg)
				if tt.errorType != nil {
					assert.ErrorIs(t, err, tt.errorType)
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, eng)
				assert.NotNil(t, eng.client)
				assert.Implements(t, (*engine.Engine)(nil), eng)
			}
		})
	}
}

func TestProcessRejectsEmptySource(t *testing.T) {
	eng := newTestEngine(t)

	result, err := eng.Process(context.Background(), engine.InputDescriptor{
		Source: "",
		Type:   domain.InputTypeChat,
	}, nil)

	require.NoError(t, err, "an empty source is an engine verdict, not a Go error")
	require.NotNil(t, result)
	assert.Equal(t, domain.TaskStatusError, result.Status)
	assert.Contains(t, result.Error, "input source cannot be empty")
	assert.False(t, result.Succeeded())
}

func TestProcessReportsUnreachableURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	eng := newTestEngine(t)

	var percents []int
	result, err := eng.Process(context.Background(), engine.InputDescriptor{
		Source: server.URL + "/missing.pdf",
		Type:   domain.InputTypeURL,
	}, func(percent int, message string) {
		percents = append(percents, percent)
	})

	require.NoError(t, err, "an unreachable URL is an engine verdict, not a Go error")
	require.NotNil(t, result)
	assert.Equal(t, domain.TaskStatusError, result.Status)
	assert.Contains(t, result.Error, "status 404")
	assert.Equal(t, []int{percentPreparing}, percents,
		"only the preparing stage should be reported before the verdict")
}

func TestProcessReportsUnreadableFile(t *testing.T) {
	eng := newTestEngine(t)

	result, err := eng.Process(context.Background(), engine.InputDescriptor{
		Source: filepath.Join(t.TempDir(), "never-staged.pdf"),
		Type:   domain.InputTypeFile,
	}, nil)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.TaskStatusError, result.Status)
	assert.Contains(t, result.Error, "failed to read document")
}

func TestFetchURL(t *testing.T) {
	t.Run("text content becomes a text part", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>paper text</body></html>"))
		}))
		defer server.Close()

		eng := newTestEngine(t)
		parts, err := eng.fetchURL(context.Background(), server.URL)

		require.NoError(t, err)
		require.Len(t, parts, 1)
		assert.Contains(t, parts[0].Text, "paper text")
	})

	t.Run("pdf content rides as inline bytes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4 fake"))
		}))
		defer server.Close()

		eng := newTestEngine(t)
		parts, err := eng.fetchURL(context.Background(), server.URL)

		require.NoError(t, err)
		require.Len(t, parts, 1)
		require.NotNil(t, parts[0].InlineData)
		assert.Equal(t, "application/pdf", parts[0].InlineData.MIMEType)
		assert.Equal(t, []byte("%PDF-1.4 fake"), parts[0].InlineData.Data)
	})

	t.Run("server error fails the fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		eng := newTestEngine(t)
		_, err := eng.fetchURL(context.Background(), server.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("empty body fails the fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		eng := newTestEngine(t)
		_, err := eng.fetchURL(context.Background(), server.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no content")
	})
}

func TestReadFile(t *testing.T) {
	eng := newTestEngine(t)
	dir := t.TempDir()

	t.Run("text file becomes a text part", func(t *testing.T) {
		path := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("plain notes"), 0o644))

		parts, err := eng.readFile(context.Background(), path)

		require.NoError(t, err)
		require.Len(t, parts, 1)
		assert.Equal(t, "plain notes", parts[0].Text)
	})

	t.Run("pdf file rides as inline bytes", func(t *testing.T) {
		path := filepath.Join(dir, "paper.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))

		parts, err := eng.readFile(context.Background(), path)

		require.NoError(t, err)
		require.Len(t, parts, 1)
		require.NotNil(t, parts[0].InlineData)
		assert.Equal(t, "application/pdf", parts[0].InlineData.MIMEType)
	})

	t.Run("empty file is rejected", func(t *testing.T) {
		path := filepath.Join(dir, "empty.pdf")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		_, err := eng.readFile(context.Background(), path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})
}

func TestMimeForFile(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "report.pdf", want: "application/pdf"},
		{path: "notes.txt", want: "text/plain"},
		{path: "README", want: "application/octet-stream"},
		{path: "data.zzz-unknown", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mimeForFile(tt.path), "mime for %q", tt.path)
	}
}

func TestPreparingMessage(t *testing.T) {
	assert.Equal(t, "Fetching URL content", preparingMessage(domain.InputTypeURL))
	assert.Equal(t, "Reading document", preparingMessage(domain.InputTypeFile))
	assert.Equal(t, "Preparing input", preparingMessage(domain.InputTypeChat))
}

func TestIsTransientAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "rate_limited", err: genai.APIError{Code: http.StatusTooManyRequests}, want: true},
		{name: "server_fault", err: genai.APIError{Code: http.StatusServiceUnavailable}, want: true},
		{name: "request_timeout", err: genai.APIError{Code: http.StatusRequestTimeout}, want: true},
		{name: "bad_request", err: genai.APIError{Code: http.StatusBadRequest}, want: false},
		{name: "permission_denied", err: genai.APIError{Code: http.StatusForbidden}, want: false},
		{name: "wrapped_api_error", err: fmt.Errorf("call failed: %w", genai.APIError{Code: http.StatusBadRequest}), want: false},
		{name: "plain_network_error", err: errors.New("connection reset"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransientAPIError(tt.err))
		})
	}
}
