package openaichat

import (
	"context"
	"fmt"
	"net/http"

	"github.com/agropro-ai/agropro/internal/rag/llm"
	"github.com/agropro-ai/agropro/pkg/logging"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client speaks the OpenAI chat-completions API. A custom base URL lets any
// OpenAI-compatible endpoint serve as the backend.
type Client struct {
	api    openai.Client
	model  string
	logger *logging.Logger
}

func NewClient(apiKey, baseURL, model string, httpClient *http.Client) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	logger := logging.NewLogger("llm_openai")
	logger.Info("OpenAI chat client created", "model", model, "baseURL", baseURL)
	return &Client{api: openai.NewClient(opts...), model: model, logger: logger}
}

func (c *Client) Name() string {
	return "openai"
}

func (c *Client) Generate(ctx context.Context, prompt string) (llm.Reply, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return llm.Reply{}, fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.Warn("OpenAI response carried no content")
		return llm.OpaqueReply(resp.RawJSON()), nil
	}
	return llm.TextReply(resp.Choices[0].Message.Content), nil
}
