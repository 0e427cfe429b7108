package storage

import (
	"context"
	"math"
	"testing"
)

func TestEmbeddingRepo_StoreAndLoadAll(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportRepo(db)
	repo := NewEmbeddingRepo(db)

	rec := &ReportRecord{
		UserID: "user-1", PlayerName: "A", PlayerNorm: "a",
		QueryKey: "k1", ReportMD: "body",
	}
	if err := reports.Upsert(context.Background(), rec); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	embedding := []float32{0.1, -0.5, 0.25}
	if err := repo.StoreEmbedding(context.Background(), rec.ID, embedding); err != nil {
		t.Fatalf("StoreEmbedding() error = %v", err)
	}

	vecs, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(vecs) != 1 {
		t.Fatalf("LoadAll() count = %d, want 1", len(vecs))
	}
	if vecs[0].ReportID != rec.ID {
		t.Errorf("LoadAll() report id = %d, want %d", vecs[0].ReportID, rec.ID)
	}
	for i, v := range embedding {
		if math.Abs(float64(vecs[0].Embedding[i]-v)) > 1e-6 {
			t.Errorf("LoadAll() embedding[%d] = %v, want %v", i, vecs[0].Embedding[i], v)
		}
	}
}

func TestEmbeddingRepo_StoreEmbedding_Replaces(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportRepo(db)
	repo := NewEmbeddingRepo(db)

	rec := &ReportRecord{
		UserID: "user-1", PlayerName: "A", PlayerNorm: "a",
		QueryKey: "k1", ReportMD: "body",
	}
	if err := reports.Upsert(context.Background(), rec); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if err := repo.StoreEmbedding(context.Background(), rec.ID, []float32{1, 0}); err != nil {
		t.Fatalf("StoreEmbedding() first error = %v", err)
	}
	if err := repo.StoreEmbedding(context.Background(), rec.ID, []float32{0, 1}); err != nil {
		t.Fatalf("StoreEmbedding() second error = %v", err)
	}

	vecs, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(vecs) != 1 {
		t.Fatalf("LoadAll() count = %d, want 1 after replace", len(vecs))
	}
	if vecs[0].Embedding[0] != 0 || vecs[0].Embedding[1] != 1 {
		t.Errorf("LoadAll() embedding = %v, want replacement", vecs[0].Embedding)
	}
}

func TestEmbeddingRepo_QueryEmbeddingCache(t *testing.T) {
	db := newTestDB(t)
	repo := NewEmbeddingRepo(db)

	hash := "abc123"

	if _, err := repo.GetQueryEmbedding(context.Background(), hash); err != ErrNotFound {
		t.Errorf("GetQueryEmbedding() miss error = %v, want ErrNotFound", err)
	}

	embedding := []float32{0.5, 0.5}
	if err := repo.StoreQueryEmbedding(context.Background(), hash, "nikola jokic", embedding); err != nil {
		t.Fatalf("StoreQueryEmbedding() error = %v", err)
	}

	got, err := repo.GetQueryEmbedding(context.Background(), hash)
	if err != nil {
		t.Fatalf("GetQueryEmbedding() error = %v", err)
	}
	if len(got) != 2 || got[0] != 0.5 || got[1] != 0.5 {
		t.Errorf("GetQueryEmbedding() = %v, want %v", got, embedding)
	}

	// Storing again under the same hash must not error.
	if err := repo.StoreQueryEmbedding(context.Background(), hash, "nikola jokic", []float32{1, 0}); err != nil {
		t.Fatalf("StoreQueryEmbedding() re-store error = %v", err)
	}
	got, err = repo.GetQueryEmbedding(context.Background(), hash)
	if err != nil {
		t.Fatalf("GetQueryEmbedding() after re-store error = %v", err)
	}
	if got[0] != 1 || got[1] != 0 {
		t.Errorf("GetQueryEmbedding() after re-store = %v, want [1 0]", got)
	}
}
