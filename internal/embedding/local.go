package embedding

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"scoutbot/internal/contextutil"
	"scoutbot/internal/storage"
)

// DefaultCacheTTL bounds how long the in-process copy of the vector set
// is served before re-reading it from the database.
const DefaultCacheTTL = 5 * time.Minute

// LocalIndex implements Index with SQLite-persisted vectors and in-process
// cosine scoring. Suitable for libraries up to a few tens of thousands of
// reports.
type LocalIndex struct {
	store    storage.EmbeddingStore
	embedder Embedder
	ttl      time.Duration

	mu       sync.Mutex
	vectors  []*storage.ReportVector
	loadedAt time.Time
}

// NewLocalIndex creates a LocalIndex. A non-positive ttl falls back to
// DefaultCacheTTL.
func NewLocalIndex(store storage.EmbeddingStore, embedder Embedder, ttl time.Duration) *LocalIndex {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &LocalIndex{
		store:    store,
		embedder: embedder,
		ttl:      ttl,
	}
}

// QueryVector returns the embedding for a normalized query, reading the
// persistent cache first and writing it back on a miss.
func (i *LocalIndex) QueryVector(ctx context.Context, queryNorm string) ([]float32, error) {
	return cachedQueryVector(ctx, i.store, i.embedder, queryNorm)
}

// Add stores a report's vector and drops the in-process snapshot so the
// next query sees it.
func (i *LocalIndex) Add(ctx context.Context, reportID int64, vector []float32) error {
	if err := i.store.StoreEmbedding(ctx, reportID, vector); err != nil {
		return err
	}
	i.mu.Lock()
	i.vectors = nil
	i.mu.Unlock()
	return nil
}

// Similar scores every indexed report against the vector, best first.
func (i *LocalIndex) Similar(ctx context.Context, vector []float32) ([]Scored, error) {
	vecs, err := i.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	scored := make([]Scored, 0, len(vecs))
	for _, v := range vecs {
		scored = append(scored, Scored{
			ReportID: v.ReportID,
			Score:    Cosine(vector, v.Embedding),
		})
	}
	sort.Slice(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	return scored, nil
}

// snapshot returns the vector set, re-reading it after the TTL expires.
func (i *LocalIndex) snapshot(ctx context.Context) ([]*storage.ReportVector, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.vectors != nil && time.Since(i.loadedAt) < i.ttl {
		return i.vectors, nil
	}

	vecs, err := i.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vectors: %w", err)
	}
	if vecs == nil {
		vecs = []*storage.ReportVector{}
	}
	i.vectors = vecs
	i.loadedAt = time.Now()

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "reloaded vector snapshot", "count", len(vecs))
	return i.vectors, nil
}

// cachedQueryVector serves a query embedding from the persistent cache,
// calling the embedder and writing back on a miss.
func cachedQueryVector(ctx context.Context, store storage.EmbeddingStore, embedder Embedder, queryNorm string) ([]float32, error) {
	hash := QueryHash(queryNorm)

	vec, err := store.GetQueryEmbedding(ctx, hash)
	if err == nil {
		return vec, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to read query embedding cache: %w", err)
	}

	vec, err = embedder.EmbedText(ctx, queryNorm)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	if err := store.StoreQueryEmbedding(ctx, hash, queryNorm, vec); err != nil {
		// A cache write failure is not worth failing the lookup over.
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to cache query embedding", "error", err)
	}
	return vec, nil
}
