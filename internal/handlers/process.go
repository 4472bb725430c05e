package handlers

import (
	"encoding/json"
	"net/http"

	"email-advisor/internal/contextutil"
	"email-advisor/internal/service"
)

// maxBodyBytes bounds request bodies of the JSON endpoints.
const maxBodyBytes = 1 << 20

// ProcessHandler handles HTTP requests that draft a reply to a student email.
type ProcessHandler struct {
	svc service.AdvisorService
}

// NewProcessHandler creates a new ProcessHandler.
func NewProcessHandler(svc service.AdvisorService) *ProcessHandler {
	return &ProcessHandler{svc: svc}
}

// ProcessRequest represents the HTTP request payload for /api/v1/process.
type ProcessRequest struct {
	Query    string            `json:"query"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ServeHTTP handles POST /api/v1/process. The response body is the advisor
// response: subject, body, decision, confidence, reasons, matches and references.
func (h *ProcessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, ctx, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ProcessRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.svc.Process(ctx, service.ProcessRequest{
		Query:    req.Query,
		Metadata: req.Metadata,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process query")
		return
	}

	writeJSON(w, ctx, http.StatusOK, resp)
}
