package embedding

import (
	"context"
	"testing"
	"time"

	"scoutbot/internal/storage"
)

// fakeStore is an in-memory EmbeddingStore for index tests.
type fakeStore struct {
	vectors map[int64][]float32
	queries map[string][]float32
	loads   int
	qReads  int
	qWrites int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		vectors: make(map[int64][]float32),
		queries: make(map[string][]float32),
	}
}

func (s *fakeStore) StoreEmbedding(ctx context.Context, reportID int64, embedding []float32) error {
	s.vectors[reportID] = embedding
	return nil
}

func (s *fakeStore) LoadAll(ctx context.Context) ([]*storage.ReportVector, error) {
	s.loads++
	var vecs []*storage.ReportVector
	for id, vec := range s.vectors {
		vecs = append(vecs, &storage.ReportVector{ReportID: id, Embedding: vec})
	}
	return vecs, nil
}

func (s *fakeStore) GetQueryEmbedding(ctx context.Context, queryHash string) ([]float32, error) {
	s.qReads++
	vec, ok := s.queries[queryHash]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return vec, nil
}

func (s *fakeStore) StoreQueryEmbedding(ctx context.Context, queryHash, queryText string, embedding []float32) error {
	s.qWrites++
	s.queries[queryHash] = embedding
	return nil
}

// fakeEmbedder returns a fixed vector and counts calls.
type fakeEmbedder struct {
	vec   []float32
	calls int
}

func (e *fakeEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	return e.vec, nil
}

func TestLocalIndex_QueryVector_CachesPersistently(t *testing.T) {
	store := newFakeStore()
	embedder := &fakeEmbedder{vec: []float32{0.5, 0.5}}
	idx := NewLocalIndex(store, embedder, 0)

	vec, err := idx.QueryVector(context.Background(), "nikola jokic")
	if err != nil {
		t.Fatalf("QueryVector() error = %v", err)
	}
	if vec[0] != 0.5 {
		t.Errorf("QueryVector() = %v, want embedder output", vec)
	}
	if embedder.calls != 1 || store.qWrites != 1 {
		t.Errorf("first lookup: embedder calls = %d, cache writes = %d, want 1 and 1", embedder.calls, store.qWrites)
	}

	// Second lookup must be served from the cache.
	if _, err := idx.QueryVector(context.Background(), "nikola jokic"); err != nil {
		t.Fatalf("QueryVector() second error = %v", err)
	}
	if embedder.calls != 1 {
		t.Errorf("second lookup: embedder calls = %d, want 1", embedder.calls)
	}
}

func TestLocalIndex_Similar_RanksBestFirst(t *testing.T) {
	store := newFakeStore()
	idx := NewLocalIndex(store, &fakeEmbedder{}, 0)
	ctx := context.Background()

	if err := idx.Add(ctx, 1, []float32{1, 0}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := idx.Add(ctx, 2, []float32{0, 1}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := idx.Add(ctx, 3, []float32{0.9, 0.1}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	scored, err := idx.Similar(ctx, []float32{1, 0})
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if len(scored) != 3 {
		t.Fatalf("Similar() count = %d, want 3", len(scored))
	}
	if scored[0].ReportID != 1 {
		t.Errorf("Similar() best = report %d, want 1", scored[0].ReportID)
	}
	if scored[0].Score < scored[1].Score || scored[1].Score < scored[2].Score {
		t.Error("Similar() not sorted best first")
	}
	if scored[len(scored)-1].ReportID != 2 {
		t.Errorf("Similar() worst = report %d, want the orthogonal one", scored[len(scored)-1].ReportID)
	}
}

func TestLocalIndex_Similar_Empty(t *testing.T) {
	idx := NewLocalIndex(newFakeStore(), &fakeEmbedder{}, 0)

	scored, err := idx.Similar(context.Background(), []float32{1, 0})
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if len(scored) != 0 {
		t.Errorf("Similar() on empty index count = %d, want 0", len(scored))
	}
}

func TestLocalIndex_SnapshotTTL(t *testing.T) {
	store := newFakeStore()
	store.vectors[1] = []float32{1, 0}
	idx := NewLocalIndex(store, &fakeEmbedder{}, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := idx.Similar(ctx, []float32{1, 0}); err != nil {
			t.Fatalf("Similar() error = %v", err)
		}
	}
	if store.loads != 1 {
		t.Errorf("LoadAll calls within TTL = %d, want 1", store.loads)
	}

	// Adding a vector invalidates the snapshot immediately.
	if err := idx.Add(ctx, 2, []float32{0, 1}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	scored, err := idx.Similar(ctx, []float32{0, 1})
	if err != nil {
		t.Fatalf("Similar() after Add error = %v", err)
	}
	if store.loads != 2 {
		t.Errorf("LoadAll calls after Add = %d, want 2", store.loads)
	}
	if len(scored) != 2 {
		t.Errorf("Similar() count after Add = %d, want 2", len(scored))
	}
}

func TestNewQdrantIndex_InvalidURL(t *testing.T) {
	_, err := NewQdrantIndex("://bad", "reports", newFakeStore(), &fakeEmbedder{})
	if err == nil {
		t.Error("NewQdrantIndex() with invalid URL should fail")
	}
}
