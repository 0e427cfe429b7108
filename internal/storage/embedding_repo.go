package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedding_store.go -package=mocks scoutbot/internal/storage EmbeddingStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// EmbeddingStore defines the interface for persisted embedding vectors.
type EmbeddingStore interface {
	// StoreEmbedding saves or replaces the embedding for a report.
	StoreEmbedding(ctx context.Context, reportID int64, embedding []float32) error
	// LoadAll returns every stored report embedding.
	LoadAll(ctx context.Context) ([]*ReportVector, error)
	// GetQueryEmbedding returns the cached embedding for a query hash.
	// Returns nil and ErrNotFound if not cached.
	GetQueryEmbedding(ctx context.Context, queryHash string) ([]float32, error)
	// StoreQueryEmbedding caches the embedding for a query hash.
	StoreQueryEmbedding(ctx context.Context, queryHash, queryText string, embedding []float32) error
}

// EmbeddingRepo provides methods for embedding persistence.
// It implements the EmbeddingStore interface.
type EmbeddingRepo struct {
	db *sql.DB
}

// NewEmbeddingRepo creates a new EmbeddingRepo.
func NewEmbeddingRepo(db *sql.DB) *EmbeddingRepo {
	return &EmbeddingRepo{db: db}
}

// StoreEmbedding saves or replaces the embedding for a report.
func (r *EmbeddingRepo) StoreEmbedding(ctx context.Context, reportID int64, embedding []float32) error {
	data, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO report_embeddings (report_id, embedding_json) VALUES (?, ?)
		 ON CONFLICT (report_id) DO UPDATE SET embedding_json = excluded.embedding_json`,
		reportID, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to store embedding: %w", err)
	}
	return nil
}

// LoadAll returns every stored report embedding.
func (r *EmbeddingRepo) LoadAll(ctx context.Context) ([]*ReportVector, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT report_id, embedding_json FROM report_embeddings",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer rows.Close()

	var vecs []*ReportVector
	for rows.Next() {
		var vec ReportVector
		var data string
		if err := rows.Scan(&vec.ReportID, &data); err != nil {
			return nil, fmt.Errorf("failed to scan embedding: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &vec.Embedding); err != nil {
			return nil, fmt.Errorf("failed to decode embedding for report %d: %w", vec.ReportID, err)
		}
		vecs = append(vecs, &vec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate embeddings: %w", err)
	}
	return vecs, nil
}

// GetQueryEmbedding returns the cached embedding for a query hash.
// Returns nil and ErrNotFound if not cached.
func (r *EmbeddingRepo) GetQueryEmbedding(ctx context.Context, queryHash string) ([]float32, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		"SELECT embedding_json FROM query_embeddings WHERE query_hash = ?",
		queryHash,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cached embedding: %w", err)
	}

	var embedding []float32
	if err := json.Unmarshal([]byte(data), &embedding); err != nil {
		return nil, fmt.Errorf("failed to decode cached embedding: %w", err)
	}
	return embedding, nil
}

// StoreQueryEmbedding caches the embedding for a query hash.
func (r *EmbeddingRepo) StoreQueryEmbedding(ctx context.Context, queryHash, queryText string, embedding []float32) error {
	data, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO query_embeddings (query_hash, query_text, embedding_json) VALUES (?, ?, ?)
		 ON CONFLICT (query_hash) DO UPDATE SET embedding_json = excluded.embedding_json`,
		queryHash, queryText, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to cache query embedding: %w", err)
	}
	return nil
}
