package openaiembed

import (
	"context"
	"fmt"
	"net/http"

	"github.com/agropro-ai/agropro/pkg/logging"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Client struct {
	api        openai.Client
	model      string
	dimensions int64
	logger     *logging.Logger
}

func NewEmbedder(apiKey, baseURL, model string, dimensions int, httpClient *http.Client) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	logger := logging.NewLogger("openai_embedding")
	logger.Info("OpenAI embedding client created", "model", model, "dimensions", dimensions)
	return &Client{api: openai.NewClient(opts...), model: model, dimensions: int64(dimensions), logger: logger}
}

func (c *Client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *Client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:      openai.EmbeddingModel(c.model),
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunks},
		Dimensions: openai.Int(c.dimensions),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding failed: %w", err)
	}
	if len(resp.Data) != len(chunks) {
		return nil, fmt.Errorf("openai embedding returned %d vectors for %d chunks", len(resp.Data), len(chunks))
	}

	vectors := make([][]float32, 0, len(resp.Data))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}
