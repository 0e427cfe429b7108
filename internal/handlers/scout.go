package handlers

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_scout_service.go -package=mocks scoutbot/internal/handlers ScoutService

import (
	"context"
	"encoding/json"
	"net/http"

	"scoutbot/internal/contextutil"
	"scoutbot/internal/scout"
)

// ScoutService is the orchestrator surface the HTTP layer depends on.
// This interface is defined from the handler's perspective (consumer-first).
type ScoutService interface {
	// Resolve runs the resolve-or-generate pipeline for one query.
	Resolve(ctx context.Context, req scout.Request) (*scout.Result, error)
	// SaveSuggestion copies a suggested report into the user's library
	// without charging.
	SaveSuggestion(ctx context.Context, userID string, reportID int64) (*scout.Result, error)
	// RecordAlias stores a confirmed queried-name to canonical-name mapping.
	RecordAlias(ctx context.Context, queried, canonical string) error
}

// ScoutHandler handles HTTP requests for report resolution.
type ScoutHandler struct {
	service ScoutService
}

// NewScoutHandler creates a new ScoutHandler.
func NewScoutHandler(service ScoutService) *ScoutHandler {
	return &ScoutHandler{service: service}
}

// ScoutRequest represents the HTTP request payload for a player query.
type ScoutRequest struct {
	Player           string `json:"player"`
	Team             string `json:"team"`
	League           string `json:"league"`
	Season           string `json:"season"`
	UseWeb           bool   `json:"use_web"`
	Refresh          bool   `json:"refresh"`
	AcceptSuggestion bool   `json:"accept_suggestion"`
	SuggestionID     int64  `json:"suggestion_id"`
}

// ServeHTTP handles POST /api/scout.
func (h *ScoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req ScoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Resolve(ctx, scout.Request{
		UserID:           contextutil.UserIDFromContext(ctx),
		Player:           req.Player,
		Team:             req.Team,
		League:           req.League,
		Season:           req.Season,
		UseWeb:           req.UseWeb,
		Refresh:          req.Refresh,
		AcceptSuggestion: req.AcceptSuggestion,
		SuggestionID:     req.SuggestionID,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to resolve player query")
		return
	}

	writeJSON(w, ctx, http.StatusOK, result)
}
