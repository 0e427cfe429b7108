package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"scoutbot/internal/match"
)

// Vector backend selection for the similarity index.
const (
	VectorBackendLocal  = "local"
	VectorBackendQdrant = "qdrant"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort string
	DBPath  string

	LLMBaseURL   string
	LLMModelName string
	LLMAPIKey    string

	EmbeddingBaseURL   string
	EmbeddingModelName string

	// VectorBackend is "local" (in-process cosine index) or "qdrant".
	VectorBackend    string
	QdrantURL        string
	QdrantCollection string
	QdrantVectorSize int

	WelcomeCredits int64
	ReportCost     int64

	// ScanBudget is the wall-clock limit for one fuzzy candidate scan.
	ScanBudget time.Duration

	// Thresholds are the matching cutoffs, defaults overridable per field.
	Thresholds match.Thresholds

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	// Try to find project root by looking for go.mod
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "9000"),
		DBPath:             getEnv("DB_PATH", "./data/scoutbot.db"),
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:       getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:          getEnv("LLM_API_KEY", "dummy-key"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),
		VectorBackend:      getEnv("VECTOR_BACKEND", VectorBackendLocal),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "reports"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		Thresholds:         match.DefaultThresholds(),
	}

	if cfg.VectorBackend != VectorBackendLocal && cfg.VectorBackend != VectorBackendQdrant {
		return nil, fmt.Errorf("VECTOR_BACKEND must be %q or %q, got %q", VectorBackendLocal, VectorBackendQdrant, cfg.VectorBackend)
	}

	if cfg.WelcomeCredits, err = getEnvInt64("WELCOME_CREDITS", 3); err != nil {
		return nil, err
	}
	if cfg.WelcomeCredits < 0 {
		return nil, fmt.Errorf("WELCOME_CREDITS must not be negative")
	}
	if cfg.ReportCost, err = getEnvInt64("REPORT_COST", 1); err != nil {
		return nil, err
	}
	if cfg.ReportCost <= 0 {
		return nil, fmt.Errorf("REPORT_COST must be greater than 0")
	}

	scanBudgetMS, err := getEnvInt64("SCAN_BUDGET_MS", 3000)
	if err != nil {
		return nil, err
	}
	if scanBudgetMS <= 0 {
		return nil, fmt.Errorf("SCAN_BUDGET_MS must be greater than 0")
	}
	cfg.ScanBudget = time.Duration(scanBudgetMS) * time.Millisecond

	// Qdrant settings only matter when the qdrant backend is selected.
	// QDRANT_VECTOR_SIZE must match the embeddings model's output dimension;
	// the collection has to be recreated if it changes.
	if cfg.VectorBackend == VectorBackendQdrant {
		vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
		if vectorSizeStr == "" {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required when VECTOR_BACKEND=qdrant")
		}
		vectorSize, err := strconv.Atoi(vectorSizeStr)
		if err != nil {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
		}
		if vectorSize <= 0 {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
		}
		cfg.QdrantVectorSize = vectorSize
	}

	if err := loadThresholds(&cfg.Thresholds); err != nil {
		return nil, err
	}

	// Create ./data directory if it doesn't exist (for future DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// loadThresholds applies env overrides on top of the default cutoffs.
func loadThresholds(th *match.Thresholds) error {
	var err error
	if th.EmbedAuto, err = getEnvFloat("MATCH_EMBED_AUTO", th.EmbedAuto); err != nil {
		return err
	}
	if th.EmbedSuggestLeague, err = getEnvFloat("MATCH_EMBED_SUGGEST_LEAGUE", th.EmbedSuggestLeague); err != nil {
		return err
	}
	if th.EmbedSuggestNoLeague, err = getEnvFloat("MATCH_EMBED_SUGGEST_NO_LEAGUE", th.EmbedSuggestNoLeague); err != nil {
		return err
	}
	if th.FuzzyAutoLeague, err = getEnvIntDefault("MATCH_FUZZY_AUTO_LEAGUE", th.FuzzyAutoLeague); err != nil {
		return err
	}
	if th.FuzzySuggestLeague, err = getEnvIntDefault("MATCH_FUZZY_SUGGEST_LEAGUE", th.FuzzySuggestLeague); err != nil {
		return err
	}
	if th.FuzzyAutoNoLeague, err = getEnvIntDefault("MATCH_FUZZY_AUTO_NO_LEAGUE", th.FuzzyAutoNoLeague); err != nil {
		return err
	}
	if th.FuzzySuggestNoLeague, err = getEnvIntDefault("MATCH_FUZZY_SUGGEST_NO_LEAGUE", th.FuzzySuggestNoLeague); err != nil {
		return err
	}
	if th.FallbackAutoLeague, err = getEnvIntDefault("MATCH_FALLBACK_AUTO_LEAGUE", th.FallbackAutoLeague); err != nil {
		return err
	}
	if th.FallbackSuggestLeague, err = getEnvIntDefault("MATCH_FALLBACK_SUGGEST_LEAGUE", th.FallbackSuggestLeague); err != nil {
		return err
	}
	if th.FallbackAutoNoLeague, err = getEnvIntDefault("MATCH_FALLBACK_AUTO_NO_LEAGUE", th.FallbackAutoNoLeague); err != nil {
		return err
	}
	if th.FallbackSuggestNoLeague, err = getEnvIntDefault("MATCH_FALLBACK_SUGGEST_NO_LEAGUE", th.FallbackSuggestNoLeague); err != nil {
		return err
	}
	if th.VeryStrong, err = getEnvIntDefault("MATCH_VERY_STRONG", th.VeryStrong); err != nil {
		return err
	}
	return nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

func getEnvIntDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return f, nil
}
