package qdrantindex

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agropro-ai/agropro/internal/adapter/utils"
	"github.com/agropro-ai/agropro/internal/metrics"
	"github.com/agropro-ai/agropro/internal/rag/embedding"
	"github.com/agropro-ai/agropro/internal/rag/vectorindex"
	"github.com/agropro-ai/agropro/pkg/logging"
	"github.com/qdrant/go-client/qdrant"
)

const collectionPrefix = "agropro_"

// Store backs session indexes with qdrant. Every build writes into a fresh
// collection named agropro_<sessionId>_<unixnano> and removes the session's
// older collections only after the build succeeds, so a concurrent query
// never observes a half-built collection.
type Store struct {
	client    *qdrant.Client
	embedder  embedding.Embedder
	dimension uint64
	batchSize int
	logger    *logging.Logger
}

type Config struct {
	Host      string
	Port      int
	UseTLS    bool
	PoolSize  int
	Dimension int
	BatchSize int
}

func NewStore(cfg Config, embedder embedding.Embedder) (*Store, error) {
	logger := logging.NewLogger("QdrantIndex")

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		UseTLS:   cfg.UseTLS,
		PoolSize: uint(cfg.PoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client failed: %w", err)
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}
	logger.Info("Qdrant client created", "host", cfg.Host, "port", cfg.Port)
	return &Store{
		client:    client,
		embedder:  embedder,
		dimension: uint64(cfg.Dimension),
		batchSize: batchSize,
		logger:    logger,
	}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

type index struct {
	store      *Store
	collection string
	count      int
}

func (s *Store) Build(ctx context.Context, sessionId string, chunks []string) (vectorindex.Index, error) {
	collection := fmt.Sprintf("%s%s_%d", collectionPrefix, sessionId, time.Now().UnixNano())
	if err := s.createCollection(ctx, collection); err != nil {
		return nil, fmt.Errorf("create collection failed: %w", err)
	}

	var idx vectorindex.Index = &index{store: s, collection: collection}
	for i := 0; i < len(chunks); i += s.batchSize {
		end := i + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		grown, err := s.Add(ctx, idx, chunks[i:end])
		if err != nil {
			// Abandon the fresh collection, the previous one stays live.
			if dropErr := s.client.DeleteCollection(ctx, collection); dropErr != nil {
				s.logger.Warn("Failed to drop aborted collection", "collection", collection, "error", dropErr)
			}
			return nil, fmt.Errorf("index build aborted at chunk %d: %w", i, err)
		}
		idx = grown
	}

	s.removeOlderCollections(ctx, sessionId, collection)
	s.logger.Info("Built index", "sessionId", sessionId, "collection", collection, "chunks", idx.Len())
	return idx, nil
}

func (s *Store) Add(ctx context.Context, prev vectorindex.Index, chunks []string) (vectorindex.Index, error) {
	base, ok := prev.(*index)
	if !ok || base == nil {
		return nil, fmt.Errorf("qdrant add requires a qdrant-backed index")
	}

	start := time.Now()
	vectors, err := s.embedder.BatchEmbedding(ctx, chunks)
	metrics.CaptureExecutionMetrics("embedding", time.Since(start))
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(utils.GetNewUUID()),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content": chunk,
			}),
		}
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: base.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return &index{store: s, collection: base.collection, count: base.count + len(chunks)}, nil
}

// Load picks the newest collection carrying the session prefix, if any.
func (s *Store) Load(ctx context.Context, sessionId string) (vectorindex.Index, error) {
	newest, err := s.newestCollection(ctx, sessionId)
	if err != nil || newest == "" {
		return nil, err
	}

	count, err := s.client.Count(ctx, &qdrant.CountPoints{CollectionName: newest})
	if err != nil {
		return nil, fmt.Errorf("count collection %s failed: %w", newest, err)
	}
	return &index{store: s, collection: newest, count: int(count)}, nil
}

func (s *Store) Remove(ctx context.Context, sessionId string) error {
	names, err := s.sessionCollections(ctx, sessionId)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.client.DeleteCollection(ctx, name); err != nil {
			return fmt.Errorf("delete collection %s failed: %w", name, err)
		}
	}
	return nil
}

func (ix *index) Query(ctx context.Context, text string, k int) ([]vectorindex.Match, error) {
	if ix.count == 0 || k <= 0 {
		return nil, nil
	}

	queryVec, err := ix.store.embedder.GetEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}

	result, err := ix.store.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: ix.collection,
		Query:          qdrant.NewQuery(queryVec...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	matches := make([]vectorindex.Match, 0, len(result))
	for _, hit := range result {
		matches = append(matches, vectorindex.Match{
			Text:  hit.Payload["content"].GetStringValue(),
			Score: hit.Score,
		})
	}
	return matches, nil
}

func (ix *index) Len() int {
	return ix.count
}

func (s *Store) createCollection(ctx context.Context, name string) error {
	return s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func (s *Store) sessionCollections(ctx context.Context, sessionId string) ([]string, error) {
	all, err := s.client.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections failed: %w", err)
	}
	prefix := collectionPrefix + sessionId + "_"
	var names []string
	for _, name := range all {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	// Suffix is the build's unixnano, so lexical order is build order.
	sort.Strings(names)
	return names, nil
}

func (s *Store) newestCollection(ctx context.Context, sessionId string) (string, error) {
	names, err := s.sessionCollections(ctx, sessionId)
	if err != nil || len(names) == 0 {
		return "", err
	}
	return names[len(names)-1], nil
}

func (s *Store) removeOlderCollections(ctx context.Context, sessionId, keep string) {
	names, err := s.sessionCollections(ctx, sessionId)
	if err != nil {
		s.logger.Warn("Failed to list collections for cleanup", "sessionId", sessionId, "error", err)
		return
	}
	for _, name := range names {
		if name == keep {
			continue
		}
		if err := s.client.DeleteCollection(ctx, name); err != nil {
			s.logger.Warn("Failed to delete stale collection", "collection", name, "error", err)
		}
	}
}
