package handlers

import (
	"net/http"
	"strconv"

	"scoutbot/internal/contextutil"
	"scoutbot/internal/ledger"
)

// CreditsHandler handles HTTP requests for the credit balance.
type CreditsHandler struct {
	credits        ledger.Ledger
	welcomeCredits int64
}

// NewCreditsHandler creates a new CreditsHandler. welcomeCredits is granted
// once on a user's first balance read; zero disables the grant.
func NewCreditsHandler(credits ledger.Ledger, welcomeCredits int64) *CreditsHandler {
	return &CreditsHandler{credits: credits, welcomeCredits: welcomeCredits}
}

// CreditsResponse represents the balance payload.
type CreditsResponse struct {
	Balance int64 `json:"balance"`
}

// LedgerEntryResponse is one row of the credit history.
type LedgerEntryResponse struct {
	ID         int64  `json:"id"`
	Delta      int64  `json:"delta"`
	Reason     string `json:"reason"`
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
}

// ServeHTTP handles GET /api/credits.
func (h *CreditsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	userID := contextutil.UserIDFromContext(ctx)

	if h.welcomeCredits > 0 {
		if _, err := h.credits.GrantWelcome(ctx, userID, h.welcomeCredits); err != nil {
			logger.WarnContext(ctx, "welcome grant failed", "user_id", userID, "error", err)
		}
	}

	balance, err := h.credits.Balance(ctx, userID)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to read balance")
		return
	}
	writeJSON(w, ctx, http.StatusOK, CreditsResponse{Balance: balance})
}

// History handles GET /api/credits/history.
func (h *CreditsHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contextutil.UserIDFromContext(ctx)

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.credits.History(ctx, userID, limit)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to read credit history")
		return
	}

	resp := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, LedgerEntryResponse{
			ID:         e.ID,
			Delta:      e.Delta,
			Reason:     e.Reason,
			SourceType: e.SourceType,
			SourceID:   e.SourceID,
		})
	}
	writeJSON(w, ctx, http.StatusOK, resp)
}
