package responder

import (
	"context"
	"strings"
	"time"

	"github.com/agropro-ai/agropro/internal/metrics"
	"github.com/agropro-ai/agropro/internal/rag/llm"
	"github.com/agropro-ai/agropro/pkg/logging"
)

// Apology is the single user-facing reply for every generation failure. The
// caller never sees an error from this package.
const Apology = "I'm sorry, I encountered an error. Could you please try again or rephrase your question?"

type Fetcher struct {
	provider llm.Provider
	logger   *logging.Logger
}

func NewFetcher(provider llm.Provider) *Fetcher {
	return &Fetcher{
		provider: provider,
		logger:   logging.NewLogger("Responder"),
	}
}

// Fetch invokes the provider with the assembled prompt and decodes the reply
// union into plain text. Any provider error or empty reply maps to the
// apology string in this one place. Fetch never mutates conversation state;
// the caller records the returned reply as a turn.
func (f *Fetcher) Fetch(ctx context.Context, prompt string) string {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	reply, err := f.provider.Generate(ctx, prompt)
	if err != nil {
		f.logger.Error("Generation failed", "provider", f.provider.Name(), "error", err)
		return Apology
	}

	text := decode(reply)
	if text == "" {
		f.logger.Warn("Provider returned an empty reply", "provider", f.provider.Name())
		return Apology
	}
	return text
}

func decode(reply llm.Reply) string {
	switch reply.Kind {
	case llm.ReplyText:
		return reply.Text
	case llm.ReplyParts:
		return strings.Join(reply.Parts, " ")
	case llm.ReplyOpaque:
		return reply.Text
	default:
		return ""
	}
}
