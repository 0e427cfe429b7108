package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scoutbot/internal/config"
	"scoutbot/internal/embedding"
	"scoutbot/internal/http"
	"scoutbot/internal/ledger"
	"scoutbot/internal/llm"
	"scoutbot/internal/match"
	"scoutbot/internal/scout"
	"scoutbot/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("Invalid log level %q: %v", cfg.LogLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	reportRepo := storage.NewReportRepo(db)
	aliasRepo := storage.NewAliasRepo(db)
	embeddingRepo := storage.NewEmbeddingRepo(db)
	creditLedger := ledger.New(db)

	ctx := context.Background()

	// External clients
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
	if err := llmClient.CheckModel(ctx); err != nil {
		slog.Warn("Generation backend not reachable at startup", "base_url", cfg.LLMBaseURL, "error", err)
	}
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)

	// Similarity index. The engine degrades to fuzzy-only matching when the
	// embedding backend is missing, so index construction failures are not
	// fatal with the local backend.
	var index embedding.Index
	switch cfg.VectorBackend {
	case config.VectorBackendQdrant:
		qdrantIndex, err := embedding.NewQdrantIndex(cfg.QdrantURL, cfg.QdrantCollection, embeddingRepo, embedder)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		if err := qdrantIndex.EnsureCollection(ctx, cfg.QdrantVectorSize); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)
		index = qdrantIndex
	default:
		index = embedding.NewLocalIndex(embeddingRepo, embedder, embedding.DefaultCacheTTL)
		slog.Info("Local similarity index ready")
	}

	// Matching pipeline
	resolver := match.NewResolver(reportRepo, index, cfg.Thresholds)
	resolver.Scanner.Budget = cfg.ScanBudget

	// Orchestrator
	scoutService := scout.NewService(reportRepo, aliasRepo, creditLedger, resolver, llmClient, index, scout.Options{
		WelcomeCredits: cfg.WelcomeCredits,
		ReportCost:     cfg.ReportCost,
	})

	// Create router with dependencies
	deps := &http.Deps{
		Scout:          scoutService,
		Reports:        reportRepo,
		Credits:        creditLedger,
		DB:             db,
		LLM:            llmClient,
		WelcomeCredits: cfg.WelcomeCredits,
	}
	router := http.NewRouter(deps)

	// Start API server with graceful shutdown
	addr := ":" + cfg.APIPort
	server := &nethttp.Server{Addr: addr, Handler: router}

	go func() {
		slog.Info("Starting API server", "addr", addr)
		slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
