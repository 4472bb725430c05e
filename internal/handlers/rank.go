package handlers

import (
	"encoding/json"
	"net/http"

	"email-advisor/internal/advisor"
	"email-advisor/internal/contextutil"
	"email-advisor/internal/service"
)

// RankHandler handles HTTP requests that rank knowledge base articles.
type RankHandler struct {
	svc service.AdvisorService
}

// NewRankHandler creates a new RankHandler.
func NewRankHandler(svc service.AdvisorService) *RankHandler {
	return &RankHandler{svc: svc}
}

// RankRequest represents the HTTP request payload for /api/v1/rank.
type RankRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// RankResponse represents the HTTP response payload for /api/v1/rank.
type RankResponse struct {
	Matches []advisor.RankedMatch `json:"matches"`
}

func (h *RankHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, ctx, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req RankRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.svc.Rank(ctx, service.RankRequest{Query: req.Query, Limit: req.Limit})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to rank articles")
		return
	}

	writeJSON(w, ctx, http.StatusOK, RankResponse{Matches: resp.Matches})
}
