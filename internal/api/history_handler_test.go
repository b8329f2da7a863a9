package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/distill-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func historyFixture(t *testing.T) []*domain.HistoryEntry {
	t.Helper()

	older, err := domain.NewSuccessEntry(domain.InputTypeChat, "summarize this design", "distilled brief")
	require.NoError(t, err)
	newer, err := domain.NewErrorEntry(domain.InputTypeURL, "https://example.com/missing", "URL is unreachable")
	require.NoError(t, err)

	older.Timestamp = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	newer.Timestamp = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	return []*domain.HistoryEntry{older, newer}
}

func TestGetHistory(t *testing.T) {
	mockStore := new(MockHistoryStore)
	entries := historyFixture(t)
	mockStore.On("List", mock.Anything).Return(entries, nil)

	handler := NewHistoryHandler(mockStore)
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()

	handler.GetHistory(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body []HistoryEntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)

	// Oldest first, as the store returns them
	assert.Equal(t, entries[0].ID.String(), body[0].ID)
	assert.Equal(t, "success", body[0].Status)
	assert.Equal(t, "chat", body[0].InputType)
	assert.Equal(t, "distilled brief", body[0].ResultSummary)
	assert.Empty(t, body[0].ErrorMessage)

	assert.Equal(t, entries[1].ID.String(), body[1].ID)
	assert.Equal(t, "error", body[1].Status)
	assert.Equal(t, "URL is unreachable", body[1].ErrorMessage)
	assert.Empty(t, body[1].ResultSummary)
}

func TestGetHistoryEmptyLedger(t *testing.T) {
	mockStore := new(MockHistoryStore)
	mockStore.On("List", mock.Anything).Return([]*domain.HistoryEntry{}, nil)

	handler := NewHistoryHandler(mockStore)
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()

	handler.GetHistory(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// An empty ledger serializes to an empty array, never null
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetHistoryStoreFailure(t *testing.T) {
	mockStore := new(MockHistoryStore)
	mockStore.On("List", mock.Anything).Return(nil, errors.New("read error"))

	handler := NewHistoryHandler(mockStore)
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()

	handler.GetHistory(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to retrieve history")
	assert.NotContains(t, w.Body.String(), "read error")
}

func TestClearHistory(t *testing.T) {
	mockStore := new(MockHistoryStore)
	mockStore.On("Clear", mock.Anything).Return(nil)

	handler := NewHistoryHandler(mockStore)
	req := httptest.NewRequest(http.MethodDelete, "/api/history", nil)
	w := httptest.NewRecorder()

	handler.ClearHistory(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","message":"History cleared."}`, w.Body.String())

	mockStore.AssertExpectations(t)
}

func TestClearHistoryStoreFailure(t *testing.T) {
	mockStore := new(MockHistoryStore)
	mockStore.On("Clear", mock.Anything).Return(errors.New("write error"))

	handler := NewHistoryHandler(mockStore)
	req := httptest.NewRequest(http.MethodDelete, "/api/history", nil)
	w := httptest.NewRecorder()

	handler.ClearHistory(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to clear history")
}

func TestHistoryEntryToResponse(t *testing.T) {
	id := uuid.New()
	stamp := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	entry := &domain.HistoryEntry{
		ID:           id,
		Timestamp:    stamp,
		Status:       domain.TaskStatusError,
		InputType:    domain.InputTypeFile,
		InputSource:  "report.docx",
		ErrorMessage: "engine invocation failed",
	}

	resp := historyEntryToResponse(entry)

	assert.Equal(t, id.String(), resp.ID)
	assert.True(t, stamp.Equal(resp.Timestamp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "file", resp.InputType)
	assert.Equal(t, "report.docx", resp.InputSource)
	assert.Equal(t, "engine invocation failed", resp.ErrorMessage)
}
