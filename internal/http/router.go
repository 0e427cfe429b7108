package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"scoutbot/internal/handlers"
	"scoutbot/internal/ledger"
	"scoutbot/internal/llm"
	"scoutbot/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Scout          handlers.ScoutService
	Reports        storage.ReportStore
	Credits        ledger.Ledger
	DB             *sql.DB
	LLM            *llm.Client
	WelcomeCredits int64
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(CORS)
	r.Use(LoggerMiddleware)

	scoutHandler := handlers.NewScoutHandler(deps.Scout)
	reportsHandler := handlers.NewReportsHandler(deps.Reports)
	creditsHandler := handlers.NewCreditsHandler(deps.Credits, deps.WelcomeCredits)
	suggestionHandler := handlers.NewSuggestionHandler(deps.Scout)
	aliasHandler := handlers.NewAliasHandler(deps.Scout)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.LLM)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		// Everything below requires a caller identity.
		r.Group(func(r chi.Router) {
			r.Use(Auth)
			r.Method(http.MethodPost, "/scout", scoutHandler)
			r.Method(http.MethodGet, "/credits", creditsHandler)
			r.Get("/credits/history", creditsHandler.History)
			r.Get("/reports", reportsHandler.List)
			r.Get("/reports/{id}", reportsHandler.Get)
			r.Method(http.MethodPost, "/save_suggestion", suggestionHandler)
			r.Method(http.MethodPost, "/alias", aliasHandler)
		})
	})

	return r
}
