package memoryindex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/agropro-ai/agropro/internal/metrics"
	"github.com/agropro-ai/agropro/internal/rag/embedding"
	"github.com/agropro-ai/agropro/internal/rag/vectorindex"
	"github.com/agropro-ai/agropro/pkg/logging"
)

const DefaultBatchSize = 1000

// Store builds in-process cosine-similarity indexes and persists each
// session's index to one versioned JSON file in the data directory.
type Store struct {
	embedder  embedding.Embedder
	dataDir   string
	batchSize int
	model     string
	logger    *logging.Logger
}

func NewStore(embedder embedding.Embedder, dataDir string, batchSize int, model string) *Store {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Store{
		embedder:  embedder,
		dataDir:   dataDir,
		batchSize: batchSize,
		model:     model,
		logger:    logging.NewLogger("MemoryIndex"),
	}
}

type entry struct {
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

// index is an immutable snapshot; Add returns a fresh one instead of
// mutating, so a query never observes a half-built index.
type index struct {
	embedder embedding.Embedder
	entries  []entry
}

// Build embeds the chunks in batches and returns the finished index. Any
// batch failure aborts the whole build, nothing is persisted and the
// caller's previous index stays untouched.
func (s *Store) Build(ctx context.Context, sessionId string, chunks []string) (vectorindex.Index, error) {
	var idx vectorindex.Index = &index{embedder: s.embedder}

	for i := 0; i < len(chunks); i += s.batchSize {
		end := i + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		grown, err := s.Add(ctx, idx, chunks[i:end])
		if err != nil {
			return nil, fmt.Errorf("index build aborted at chunk %d: %w", i, err)
		}
		idx = grown
	}

	if err := s.save(sessionId, idx.(*index)); err != nil {
		return nil, fmt.Errorf("persist index failed: %w", err)
	}
	s.logger.Info("Built index", "sessionId", sessionId, "chunks", idx.Len())
	return idx, nil
}

// Add embeds one batch and returns a new index containing the previous
// entries plus the batch.
func (s *Store) Add(ctx context.Context, prev vectorindex.Index, chunks []string) (vectorindex.Index, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	vectors, err := s.embedder.BatchEmbedding(ctx, chunks)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	base, ok := prev.(*index)
	if !ok || base == nil {
		base = &index{embedder: s.embedder}
	}
	entries := make([]entry, 0, len(base.entries)+len(chunks))
	entries = append(entries, base.entries...)
	for i, chunk := range chunks {
		entries = append(entries, entry{Text: chunk, Vector: vectors[i]})
	}
	return &index{embedder: s.embedder, entries: entries}, nil
}

// Query embeds the text and returns the top-k entries by cosine similarity,
// best first. An empty index yields an empty result, not an error.
func (ix *index) Query(ctx context.Context, text string, k int) ([]vectorindex.Match, error) {
	if len(ix.entries) == 0 || k <= 0 {
		return nil, nil
	}

	queryVec, err := ix.embedder.GetEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}

	matches := make([]vectorindex.Match, 0, len(ix.entries))
	for _, e := range ix.entries {
		matches = append(matches, vectorindex.Match{
			Text:  e.Text,
			Score: cosineSimilarity(queryVec, e.Vector),
		})
	}
	sort.SliceStable(matches, func(a, b int) bool { return matches[a].Score > matches[b].Score })

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

func (ix *index) Len() int {
	return len(ix.entries)
}

func cosineSimilarity(a, b []float32) float32 {
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
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
