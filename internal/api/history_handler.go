package api

import (
	"net/http"

	"github.com/phrazzld/distill-api/internal/api/shared"
	"github.com/phrazzld/distill-api/internal/store"
)

// HistoryHandler handles history ledger HTTP requests
type HistoryHandler struct {
	historyStore store.HistoryStore
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(historyStore store.HistoryStore) *HistoryHandler {
	return &HistoryHandler{
		historyStore: historyStore,
	}
}

// GetHistory handles GET /api/history requests. Entries are returned oldest
// first; an empty ledger yields an empty array, never null.
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.historyStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to retrieve history", err)
		return
	}

	responses := make([]HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, historyEntryToResponse(entry))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// ClearHistory handles DELETE /api/history requests
func (h *HistoryHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.historyStore.Clear(r.Context()); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to clear history", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AckResponse{
		Status:  "ok",
		Message: "History cleared.",
	})
}
