package responder

import (
	"context"
	"errors"
	"testing"

	"github.com/agropro-ai/agropro/internal/rag/llm"
)

type mockProvider struct {
	onGenerate func(ctx context.Context, prompt string) (llm.Reply, error)
}

func (m *mockProvider) Generate(ctx context.Context, prompt string) (llm.Reply, error) {
	return m.onGenerate(ctx, prompt)
}

func (m *mockProvider) Name() string { return "mock" }

func TestFetch_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		generate func(ctx context.Context, prompt string) (llm.Reply, error)
		want     string
	}{
		{
			name: "Text_Reply",
			generate: func(ctx context.Context, prompt string) (llm.Reply, error) {
				return llm.TextReply("plant in spring"), nil
			},
			want: "plant in spring",
		},
		{
			name: "Parts_Joined_With_Spaces",
			generate: func(ctx context.Context, prompt string) (llm.Reply, error) {
				return llm.PartsReply([]string{"rotate", "your", "crops"}), nil
			},
			want: "rotate your crops",
		},
		{
			name: "Opaque_Used_Verbatim",
			generate: func(ctx context.Context, prompt string) (llm.Reply, error) {
				return llm.OpaqueReply(`{"raw":"payload"}`), nil
			},
			want: `{"raw":"payload"}`,
		},
		{
			name: "Provider_Error_Maps_To_Apology",
			generate: func(ctx context.Context, prompt string) (llm.Reply, error) {
				return llm.Reply{}, errors.New("quota exceeded")
			},
			want: Apology,
		},
		{
			name: "Empty_Reply_Maps_To_Apology",
			generate: func(ctx context.Context, prompt string) (llm.Reply, error) {
				return llm.TextReply(""), nil
			},
			want: Apology,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFetcher(&mockProvider{onGenerate: tt.generate})
			if got := f.Fetch(context.Background(), "prompt"); got != tt.want {
				t.Errorf("Fetch got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetch_NeverPanicsOnUnknownKind(t *testing.T) {
	f := NewFetcher(&mockProvider{onGenerate: func(ctx context.Context, prompt string) (llm.Reply, error) {
		return llm.Reply{Kind: ReplyKindOutOfRange}, nil
	}})
	if got := f.Fetch(context.Background(), "prompt"); got != Apology {
		t.Errorf("Unknown reply kind should map to apology, got %q", got)
	}
}

// ReplyKindOutOfRange simulates a future union variant the decoder does not
// know about.
const ReplyKindOutOfRange llm.ReplyKind = 99
