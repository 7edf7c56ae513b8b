package embedding

import "context"

// Embedder is the narrow boundary to the external embedding model.
// GetEmbedding serves query-time lookups, BatchEmbedding serves ingestion
// where one call covers a whole batch of chunks.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}
