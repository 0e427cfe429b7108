package handlers

import (
	"encoding/json"
	"net/http"

	"scoutbot/internal/contextutil"
)

// AliasHandler handles HTTP requests for confirming name aliases.
type AliasHandler struct {
	service ScoutService
}

// NewAliasHandler creates a new AliasHandler.
func NewAliasHandler(service ScoutService) *AliasHandler {
	return &AliasHandler{service: service}
}

// AliasRequest represents the HTTP request payload.
type AliasRequest struct {
	Queried   string `json:"queried"`
	Canonical string `json:"canonical"`
}

// AliasResponse acknowledges a stored alias.
type AliasResponse struct {
	Status string `json:"status"`
}

// ServeHTTP handles POST /api/alias.
func (h *AliasHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req AliasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.RecordAlias(ctx, req.Queried, req.Canonical); err != nil {
		handleServiceError(w, ctx, err, "Failed to record alias")
		return
	}
	writeJSON(w, ctx, http.StatusOK, AliasResponse{Status: "recorded"})
}
