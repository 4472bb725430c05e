package handlers

import (
	"net/http"
	"time"

	"email-advisor/internal/contextutil"
	"email-advisor/internal/service"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	svc service.AdvisorService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(svc service.AdvisorService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "degraded"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	Articles   int `json:"articles"`
	References int `json:"references"`

	// List of issues (only present if status is degraded)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles GET /api/health. A missing reference corpus degrades the
// service without failing the check, since replies can still be drafted.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, ctx, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats := h.svc.Stats(ctx)
	checks := map[string]string{"knowledge_base": "ok"}
	var issues []string

	if stats.RetrievalEnabled {
		checks["reference_corpus"] = "ok"
	} else {
		checks["reference_corpus"] = "disabled"
		issues = append(issues, "reference_corpus_unavailable")
	}
	if stats.VectorMirror != "" {
		checks["vector_store"] = stats.VectorMirror
	}

	status := "healthy"
	if len(issues) > 0 {
		status = "degraded"
	}

	writeJSON(w, ctx, http.StatusOK, HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Checks:     checks,
		Articles:   stats.Articles,
		References: stats.References,
		Issues:     issues,
	})
}
