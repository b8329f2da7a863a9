package api

import (
	"net/http"
	"strings"

	"github.com/phrazzld/distill-api/internal/api/shared"
	"github.com/phrazzld/distill-api/internal/domain"
	"github.com/phrazzld/distill-api/internal/service"
)

// maxUploadBytes caps how much of a multipart upload is held in memory or
// spooled to disk before staging.
const maxUploadBytes = 32 << 20 // 32 MiB

// ProcessHandler handles content submission HTTP requests
type ProcessHandler struct {
	processService service.ProcessService
}

// NewProcessHandler creates a new ProcessHandler
func NewProcessHandler(processService service.ProcessService) *ProcessHandler {
	return &ProcessHandler{
		processService: processService,
	}
}

// ProcessText handles POST /api/process/text requests
func (h *ProcessHandler) ProcessText(w http.ResponseWriter, r *http.Request) {
	// Parse request body
	var req ProcessTextRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Validate request
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.processService.ProcessText(
		r.Context(),
		req.InputSource,
		domain.InputType(req.InputType),
		req.IndexingEnabled(),
	)
	if err != nil {
		respondWithProcessingError(w, r, err)
		return
	}

	// The engine's verdict travels back verbatim, including engine-reported
	// failures, which arrive here as a normal result
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// ProcessFile handles POST /api/process/file requests
func (h *ProcessHandler) ProcessFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil || header.Filename == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No file uploaded.")
		return
	}
	defer func() { _ = file.Close() }()

	// The indexing toggle arrives as a form field; absent means enabled
	enableIndexing := true
	if v := r.FormValue("enable_indexing"); v != "" {
		enableIndexing = strings.EqualFold(v, "true")
	}

	result, err := h.processService.ProcessFile(r.Context(), file, header.Filename, enableIndexing)
	if err != nil {
		respondWithProcessingError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// respondWithProcessingError translates a service error to the HTTP reply:
// validation problems map to 400 with their exact message, everything else
// to 500 with a sanitized detail.
func respondWithProcessingError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusBadRequest {
		shared.RespondWithError(w, r, status, GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithErrorAndLog(w, r, status,
		"An error occurred during processing: "+GetSafeErrorMessage(err), err)
}
