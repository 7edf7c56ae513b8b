package google

import (
	"context"
	"fmt"
	"time"

	"github.com/agropro-ai/agropro/pkg/logging"
	"google.golang.org/genai"
)

type Client struct {
	genAi     *genai.Client
	model     string
	dimension int32
	logger    *logging.Logger
}

func NewEmbedder(ctx context.Context, model string, apiKey string, dimension int) (*Client, error) {
	logger := logging.NewLogger("google_embedding")

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create google embedding client failed: %w", err)
	}
	logger.Info("Google embedding client created", "model", model, "dimension", dimension)
	return &Client{genAi: c, model: model, dimension: int32(dimension), logger: logger}, nil
}

func (c *Client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	result, err := c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(query), &genai.EmbedContentConfig{
		OutputDimensionality: &c.dimension,
		TaskType:             "RETRIEVAL_QUERY",
	})
	if err != nil {
		return nil, fmt.Errorf("google query embedding failed: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("google query embedding returned no vectors")
	}
	return result.Embeddings[0].Values, nil
}

func (c *Client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	res, err := c.doCall(ctx, getContent(chunks))
	if err != nil {
		if !isRateLimited(err) {
			return nil, fmt.Errorf("google batch embedding failed: %w", err)
		}
		c.logger.Warn("Rate limit hit, retrying batch in 5 seconds", "batchSize", len(chunks))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
		}
		if res, err = c.doCall(ctx, getContent(chunks)); err != nil {
			return nil, fmt.Errorf("google batch embedding retry failed: %w", err)
		}
	}

	if len(res.Embeddings) != len(chunks) {
		return nil, fmt.Errorf("google batch embedding returned %d vectors for %d chunks", len(res.Embeddings), len(chunks))
	}
	vectors := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		vectors = append(vectors, r.Values)
	}
	return vectors, nil
}

func (c *Client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &c.dimension,
		TaskType:             "RETRIEVAL_DOCUMENT",
	})
}
