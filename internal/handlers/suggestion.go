package handlers

import (
	"encoding/json"
	"net/http"

	"scoutbot/internal/contextutil"
)

// SuggestionHandler handles HTTP requests for keeping suggested reports.
type SuggestionHandler struct {
	service ScoutService
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(service ScoutService) *SuggestionHandler {
	return &SuggestionHandler{service: service}
}

// SaveSuggestionRequest represents the HTTP request payload.
type SaveSuggestionRequest struct {
	ReportID int64 `json:"report_id"`
}

// ServeHTTP handles POST /api/save_suggestion.
func (h *SuggestionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SaveSuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.SaveSuggestion(ctx, contextutil.UserIDFromContext(ctx), req.ReportID)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to save suggestion")
		return
	}
	writeJSON(w, ctx, http.StatusOK, result)
}
