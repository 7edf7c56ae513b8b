package rag_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agropro-ai/agropro/internal/config"
	"github.com/agropro-ai/agropro/internal/conversation"
	"github.com/agropro-ai/agropro/internal/domain/jobModel"
	"github.com/agropro-ai/agropro/internal/rag"
	"github.com/agropro-ai/agropro/internal/rag/chunker"
	"github.com/agropro-ai/agropro/internal/rag/llm"
	"github.com/agropro-ai/agropro/internal/rag/responder"
	"github.com/agropro-ai/agropro/internal/rag/vectorindex"
	"github.com/agropro-ai/agropro/internal/rag/vectorindex/memoryindex"
)

func newTestService(provider llm.Provider, store vectorindex.Store) (rag.Service, *conversation.Manager) {
	sessions := conversation.NewManager(5, store)
	svc := rag.NewService(store, responder.NewFetcher(provider), chunker.NewSplitter(1000, 200), sessions, 2)
	return svc, sessions
}

func testCtx() context.Context {
	return context.WithValue(context.Background(), config.TraceIDKey, "test-trace")
}

func TestRespond_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		index       vectorindex.Index
		onGenerate  func(ctx context.Context, prompt string) (llm.Reply, error)
		wantReply   string
		checkPrompt func(t *testing.T, prompt string)
	}{
		{
			name:      "Ungrounded_Without_Index",
			wantReply: "mocked llm response",
			checkPrompt: func(t *testing.T, prompt string) {
				if strings.Contains(prompt, "Relevant document content") {
					t.Error("Prompt without an index must omit the document section")
				}
				if !strings.Contains(prompt, "User query: how deep to plant maize?") {
					t.Error("Prompt must carry the labeled user query")
				}
			},
		},
		{
			name: "Grounded_With_Index",
			index: &MockIndex{
				Size: 2,
				OnQuery: func(ctx context.Context, text string, k int) ([]vectorindex.Match, error) {
					return []vectorindex.Match{
						{Text: "maize wants 5cm depth", Score: 0.9},
						{Text: "irrigation notes", Score: 0.4},
					}, nil
				},
			},
			wantReply: "mocked llm response",
			checkPrompt: func(t *testing.T, prompt string) {
				if !strings.Contains(prompt, "Relevant document content:\nmaize wants 5cm depth\n\nirrigation notes") {
					t.Errorf("Document section missing or misordered:\n%s", prompt)
				}
			},
		},
		{
			name: "LLM_Failure_Maps_To_Apology",
			onGenerate: func(ctx context.Context, prompt string) (llm.Reply, error) {
				return llm.Reply{}, errors.New("provider down")
			},
			wantReply: responder.Apology,
		},
		{
			name: "Retrieval_Failure_Maps_To_Apology",
			index: &MockIndex{
				Size: 1,
				OnQuery: func(ctx context.Context, text string, k int) ([]vectorindex.Match, error) {
					return nil, errors.New("index unavailable")
				},
			},
			wantReply: responder.Apology,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &MockProvider{OnGenerate: tt.onGenerate}
			svc, sessions := newTestService(provider, &MockIndexStore{})

			session := sessions.GetOrCreate(testCtx(), "")
			if tt.index != nil {
				session.PublishIndex(tt.index)
			}

			reply := svc.Respond(testCtx(), session, "how deep to plant maize?")
			if reply != tt.wantReply {
				t.Errorf("Reply got %q, want %q", reply, tt.wantReply)
			}
			if tt.checkPrompt != nil {
				if len(provider.Prompts) != 1 {
					t.Fatalf("Provider saw %d prompts, want 1", len(provider.Prompts))
				}
				tt.checkPrompt(t, provider.Prompts[0])
			}

			// The round always records both turns, apology replies included.
			transcript := session.Transcript()
			if len(transcript) != 2 || transcript[1].Content != tt.wantReply {
				t.Errorf("Round not recorded in transcript: %+v", transcript)
			}
		})
	}
}

func TestRespond_HistoryAccumulatesAcrossRounds(t *testing.T) {
	provider := &MockProvider{}
	svc, sessions := newTestService(provider, &MockIndexStore{})
	session := sessions.GetOrCreate(testCtx(), "")

	svc.Respond(testCtx(), session, "first question")
	svc.Respond(testCtx(), session, "second question")

	second := provider.Prompts[1]
	if !strings.Contains(second, "user: first question\nassistant: mocked llm response") {
		t.Errorf("Second round prompt missing first round history:\n%s", second)
	}
	if strings.Contains(provider.Prompts[0], "first question\nassistant") {
		t.Error("First round prompt must not contain its own turn as history")
	}
}

func TestIngestDocument_Scenarios(t *testing.T) {
	writeSpool := func(t *testing.T, name, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("Success_Publishes_Index", func(t *testing.T) {
		svc, sessions := newTestService(&MockProvider{}, &MockIndexStore{})
		spool := writeSpool(t, "upload_1.txt", "wheat thrives in loam soil")

		job := jobModel.Job{Id: "j1", SessionId: "sess-1", SpoolPath: spool}
		result := svc.IngestDocument(testCtx(), job)

		if result.Status != jobModel.JobStatusComplete {
			t.Fatalf("Status got %v, want COMPLETE (error: %+v)", result.Status, result.Error)
		}
		if result.ChunkCount == 0 {
			t.Error("Completed job should report its chunk count")
		}
		if session, _ := sessions.Get("sess-1"); session == nil || !session.HasIndex() {
			t.Error("Successful ingestion must publish the index to the session")
		}
		if _, err := os.Stat(spool); !os.IsNotExist(err) {
			t.Error("Spool file must be removed after ingestion")
		}
	})

	t.Run("Unsupported_Format_Is_Invalid_Input", func(t *testing.T) {
		svc, _ := newTestService(&MockProvider{}, &MockIndexStore{})
		spool := writeSpool(t, "upload_2.csv", "a,b,c")

		result := svc.IngestDocument(testCtx(), jobModel.Job{Id: "j2", SessionId: "sess-2", SpoolPath: spool})
		if result.Status != jobModel.JobStatusError || result.Error.Reason != jobModel.ReasonInvalidInput {
			t.Errorf("Got status %v reason %q, want error INVALID_INPUT", result.Status, result.Error.Reason)
		}
	})

	t.Run("Build_Failure_Leaves_Prior_Index", func(t *testing.T) {
		store := &MockIndexStore{
			OnBuild: func(ctx context.Context, sessionId string, chunks []string) (vectorindex.Index, error) {
				return nil, errors.New("embedding backend unavailable")
			},
		}
		svc, sessions := newTestService(&MockProvider{}, store)

		prior := &MockIndex{Size: 3}
		session := sessions.GetOrCreate(testCtx(), "sess-3")
		session.PublishIndex(prior)

		spool := writeSpool(t, "upload_3.txt", "new document text")
		result := svc.IngestDocument(testCtx(), jobModel.Job{Id: "j3", SessionId: "sess-3", SpoolPath: spool})

		if result.Status != jobModel.JobStatusError || result.Error.Reason != jobModel.ReasonServiceFailure {
			t.Errorf("Got status %v reason %q, want error SERVICE_FAILURE", result.Status, result.Error.Reason)
		}
		if !result.Error.Retry {
			t.Error("Service failures should be marked retryable")
		}
		if !session.HasIndex() {
			t.Error("Failed build must leave the prior index untouched")
		}
		if _, err := os.Stat(spool); !os.IsNotExist(err) {
			t.Error("Spool file must be removed even when ingestion fails")
		}
	})
}

// TestEndToEnd_ThreePageDocument ingests a three-page text whose middle page
// holds a distinctive phrase, then asks for it: the assembled prompt must
// carry that page's chunk and the echoed reply must surface the phrase.
func TestEndToEnd_ThreePageDocument(t *testing.T) {
	const phrase = "drip irrigation saves forty percent water"

	pages := []string{
		"Page one covers crop rotation schedules for smallholder farms.\n" + strings.Repeat("General rotation advice. ", 20),
		"Page two: " + phrase + ".\n" + strings.Repeat("Detailed irrigation guidance. ", 20),
		"Page three lists soil amendment suppliers.\n" + strings.Repeat("Supplier directory entries. ", 20),
	}
	document := strings.Join(pages, "\n")

	provider := &MockProvider{
		OnGenerate: func(ctx context.Context, prompt string) (llm.Reply, error) {
			if strings.Contains(prompt, phrase) {
				return llm.TextReply("According to your document, " + phrase + "."), nil
			}
			return llm.TextReply("I could not find that in your document."), nil
		},
	}

	store := memoryindex.NewStore(&wordEmbedder{}, t.TempDir(), 1000, "fake-model")
	sessions := conversation.NewManager(5, store)
	svc := rag.NewService(store, responder.NewFetcher(provider), chunker.NewSplitter(200, 40), sessions, 2)

	spool := filepath.Join(t.TempDir(), "upload_guide.txt")
	if err := os.WriteFile(spool, []byte(document), 0644); err != nil {
		t.Fatal(err)
	}

	job := svc.IngestDocument(testCtx(), jobModel.Job{Id: "e2e", SessionId: "e2e-sess", SpoolPath: spool})
	if job.Status != jobModel.JobStatusComplete {
		t.Fatalf("Ingestion failed: %+v", job.Error)
	}

	session, _ := sessions.Get("e2e-sess")
	reply := svc.Respond(testCtx(), session, "how much water does drip irrigation save?")

	if len(provider.Prompts) != 1 || !strings.Contains(provider.Prompts[0], phrase) {
		t.Error("Assembled prompt did not carry the page-two chunk")
	}
	if !strings.Contains(reply, phrase) {
		t.Errorf("Reply does not surface the phrase: %q", reply)
	}
}

// wordEmbedder scores texts by the irrigation vocabulary so the page-two
// chunk wins retrieval deterministically.
type wordEmbedder struct{}

var e2eAxes = []string{"drip", "irrigation", "water", "rotation", "soil", "supplier"}

func (w *wordEmbedder) embed(text string) []float32 {
	lower := strings.ToLower(text)
	vec := make([]float32, len(e2eAxes))
	for i, word := range e2eAxes {
		vec[i] = float32(strings.Count(lower, word))
	}
	return vec
}

func (w *wordEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return w.embed(query), nil
}

func (w *wordEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	out := make([][]float32, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, w.embed(c))
	}
	return out, nil
}
