package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"email-advisor/internal/contextutil"
	"email-advisor/internal/service"
)

const emptyQueryMessage = "Please paste a student email or question before submitting."

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// handleServiceError maps service errors to HTTP status codes. Anything that is
// not a validation failure becomes a generic 500 so internals never leak.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(ctx, "request rejected", "error", err)
		if validationErr.Field == "query" && validationErr.Message == service.MessageEmpty {
			writeError(w, ctx, http.StatusBadRequest, emptyQueryMessage)
			return
		}
		writeError(w, ctx, http.StatusBadRequest, fmt.Sprintf("Validation error: %s %s", validationErr.Field, validationErr.Message))
		return
	}
	if errors.Is(err, service.ErrInvalidInput) {
		logger.WarnContext(ctx, "request rejected", "error", err)
		writeError(w, ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	logger.ErrorContext(ctx, "service error", "error", err)
	writeError(w, ctx, http.StatusInternalServerError, defaultMsg)
}

func writeJSON(w http.ResponseWriter, ctx context.Context, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, ctx context.Context, statusCode int, message string) {
	writeJSON(w, ctx, statusCode, ErrorResponse{
		Error:     message,
		RequestID: contextutil.RequestIDFromContext(ctx),
	})
}
