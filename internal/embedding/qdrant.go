package embedding

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"scoutbot/internal/contextutil"
	"scoutbot/internal/storage"
)

// QdrantIndex implements Index on a Qdrant collection. Report IDs are used
// directly as numeric point IDs. Query embedding caching still goes through
// SQLite, so switching backends keeps the cache.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
	store      storage.EmbeddingStore
	embedder   Embedder
}

// NewQdrantIndex creates a Qdrant backed index.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
// The gRPC port (typically 6334) will be derived from the HTTP port.
func NewQdrantIndex(urlStr, collection string, store storage.EmbeddingStore, embedder Embedder) (*QdrantIndex, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334 // Default gRPC port
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			// gRPC port is typically HTTP port + 1
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantIndex{
		client:     client,
		collection: collection,
		store:      store,
		embedder:   embedder,
	}, nil
}

// EnsureCollection creates the collection if missing and validates the
// vector size if it exists.
func (i *QdrantIndex) EnsureCollection(ctx context.Context, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := i.client.CollectionExists(ctx, i.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if !exists {
		logger.InfoContext(ctx, "creating collection", "collection", i.collection, "vector_size", vectorSize)
		err := i.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: i.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(vectorSize),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		return nil
	}

	info, err := i.client.GetCollectionInfo(ctx, i.collection)
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}

	config := info.Config
	if config == nil || config.Params == nil {
		return fmt.Errorf("collection config is invalid")
	}
	vectorsConfig := config.Params.GetVectorsConfig()
	if vectorsConfig == nil {
		return fmt.Errorf("collection vectors config is invalid")
	}
	params := vectorsConfig.GetParams()
	if params == nil {
		return fmt.Errorf("collection vector params are invalid")
	}
	if int(params.Size) != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, params.Size)
	}

	logger.InfoContext(ctx, "collection validated", "collection", i.collection, "vector_size", vectorSize)
	return nil
}

// QueryVector returns the embedding for a normalized query, served from
// the persistent cache when possible.
func (i *QdrantIndex) QueryVector(ctx context.Context, queryNorm string) ([]float32, error) {
	return cachedQueryVector(ctx, i.store, i.embedder, queryNorm)
}

// Add stores a report's vector as a point keyed by the report ID. The
// vector is also written to SQLite so the collection can be rebuilt.
func (i *QdrantIndex) Add(ctx context.Context, reportID int64, vector []float32) error {
	logger := contextutil.LoggerFromContext(ctx)

	if err := i.store.StoreEmbedding(ctx, reportID, vector); err != nil {
		return err
	}

	_, err := i.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: i.collection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDNum(uint64(reportID)),
				Vectors: qdrant.NewVectors(vector...),
			},
		},
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert point", "collection", i.collection, "report_id", reportID, "error", err)
		return fmt.Errorf("failed to upsert point: %w", err)
	}
	return nil
}

// Similar queries the collection for the points nearest the vector.
func (i *QdrantIndex) Similar(ctx context.Context, vector []float32) ([]Scored, error) {
	logger := contextutil.LoggerFromContext(ctx)

	limit := uint64(qdrantSearchLimit)
	scoredPoints, err := i.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: i.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to search points", "collection", i.collection, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	results := make([]Scored, 0, len(scoredPoints))
	for _, point := range scoredPoints {
		if point.Id == nil {
			continue
		}
		results = append(results, Scored{
			ReportID: int64(point.Id.GetNum()),
			Score:    float64(point.Score),
		})
	}
	return results, nil
}

// qdrantSearchLimit caps how many neighbours one similarity query returns.
// The matcher only acts on the best few, so a small limit is plenty.
const qdrantSearchLimit = 50
