// Package embedding ranks stored scouting reports by semantic similarity
// to a queried player name. Query embeddings are cached in SQLite keyed by
// a hash of the normalized query so repeat lookups cost no API call.
package embedding

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_index.go -package=mocks scoutbot/internal/embedding Index,Embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
)

// Embedder produces embedding vectors for text.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Scored is a report ranked by similarity to a query.
type Scored struct {
	ReportID int64
	Score    float64
}

// Index ranks stored report vectors against query vectors.
type Index interface {
	// QueryVector returns the embedding for a normalized query, served
	// from the persistent cache when possible.
	QueryVector(ctx context.Context, queryNorm string) ([]float32, error)
	// Add stores a report's vector so later queries can rank it.
	Add(ctx context.Context, reportID int64, vector []float32) error
	// Similar returns all indexed reports scored against the vector,
	// best first.
	Similar(ctx context.Context, vector []float32) ([]Scored, error)
}

// QueryHash returns the cache key for a normalized query string.
func QueryHash(queryNorm string) string {
	sum := sha256.Sum256([]byte(queryNorm))
	return hex.EncodeToString(sum[:])
}

// Cosine returns the cosine similarity of two vectors. Mismatched lengths
// and zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
