package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"scoutbot/internal/contextutil"
	"scoutbot/internal/storage"
)

// ReportsHandler handles HTTP requests for the user's report library.
type ReportsHandler struct {
	reports storage.ReportStore
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(reports storage.ReportStore) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// ReportSummaryResponse is one row of the library listing.
type ReportSummaryResponse struct {
	ID         int64     `json:"id"`
	PlayerName string    `json:"player_name"`
	Team       string    `json:"team,omitempty"`
	League     string    `json:"league,omitempty"`
	Season     string    `json:"season,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReportResponse is a full report with its body.
type ReportResponse struct {
	ID         int64     `json:"id"`
	PlayerName string    `json:"player_name"`
	Team       string    `json:"team,omitempty"`
	League     string    `json:"league,omitempty"`
	Season     string    `json:"season,omitempty"`
	Markdown   string    `json:"markdown"`
	Cached     bool      `json:"cached"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// List handles GET /api/reports.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contextutil.UserIDFromContext(ctx)

	summaries, err := h.reports.ListByUser(ctx, userID)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list reports")
		return
	}

	resp := make([]ReportSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, ReportSummaryResponse{
			ID:         s.ID,
			PlayerName: s.PlayerName,
			Team:       s.Team,
			League:     s.League,
			Season:     s.Season,
			CreatedAt:  s.CreatedAt,
		})
	}
	writeJSON(w, ctx, http.StatusOK, resp)
}

// Get handles GET /api/reports/{id}.
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contextutil.UserIDFromContext(ctx)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	rec, err := h.reports.GetByID(ctx, userID, id)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load report")
		return
	}

	writeJSON(w, ctx, http.StatusOK, ReportResponse{
		ID:         rec.ID,
		PlayerName: rec.PlayerName,
		Team:       rec.Team,
		League:     rec.League,
		Season:     rec.Season,
		Markdown:   rec.ReportMD,
		Cached:     rec.Cached,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	})
}
