package gemini

import (
	"context"
	"fmt"

	"github.com/agropro-ai/agropro/internal/rag/llm"
	"github.com/agropro-ai/agropro/pkg/logging"
	"google.golang.org/genai"
)

type Client struct {
	genAi  *genai.Client
	model  string
	logger *logging.Logger
}

func NewClient(ctx context.Context, model string, apiKey string) (*Client, error) {
	logger := logging.NewLogger("llm_gemini")

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client failed: %w", err)
	}
	logger.Info("Gemini client created", "model", model)
	return &Client{genAi: c, model: model, logger: logger}, nil
}

func (c *Client) Name() string {
	return "gemini"
}

// Generate invokes the model with the fully assembled prompt and maps the
// candidate content into the reply union: one text part becomes Text,
// several become Parts, anything without usable text is stringified.
func (c *Client) Generate(ctx context.Context, prompt string) (llm.Reply, error) {
	result, err := c.genAi.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return llm.Reply{}, fmt.Errorf("gemini generate failed: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		c.logger.Warn("Gemini returned no candidates")
		return llm.OpaqueReply(fmt.Sprintf("%v", result)), nil
	}

	var texts []string
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	switch len(texts) {
	case 0:
		c.logger.Warn("Gemini candidate carried no text parts")
		return llm.OpaqueReply(fmt.Sprintf("%v", result.Candidates[0].Content)), nil
	case 1:
		return llm.TextReply(texts[0]), nil
	default:
		return llm.PartsReply(texts), nil
	}
}
