package memoryindex

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeEmbedder maps known words onto fixed axes so similarity ordering is
// fully deterministic in tests.
type fakeEmbedder struct {
	batchCalls  int
	failOnBatch int // fail the nth BatchEmbedding call, 0 disables
}

var axes = []string{"soil", "water", "pest", "seed"}

func (f *fakeEmbedder) embed(text string) []float32 {
	vec := make([]float32, len(axes))
	for i, word := range axes {
		if strings.Contains(text, word) {
			vec[i] = 1
		}
	}
	return vec
}

func (f *fakeEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return f.embed(query), nil
}

func (f *fakeEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	f.batchCalls++
	if f.failOnBatch > 0 && f.batchCalls == f.failOnBatch {
		return nil, errors.New("embedding backend unavailable")
	}
	out := make([][]float32, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, f.embed(c))
	}
	return out, nil
}

func TestBuildAndQuery_Ordering(t *testing.T) {
	store := NewStore(&fakeEmbedder{}, t.TempDir(), 10, "fake-model")

	idx, err := store.Build(context.Background(), "s1", []string{
		"soil and water management",
		"pest control basics",
		"soil health",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if idx.Len() != 3 {
		t.Fatalf("Index length got %d, want 3", idx.Len())
	}

	matches, err := idx.Query(context.Background(), "soil", 2)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Top-k got %d matches, want 2", len(matches))
	}
	if matches[0].Text != "soil health" {
		t.Errorf("Best match got %q", matches[0].Text)
	}
	if matches[0].Score < matches[1].Score {
		t.Error("Matches not ordered best first")
	}
}

func TestBuild_BatchAccounting(t *testing.T) {
	emb := &fakeEmbedder{}
	store := NewStore(emb, t.TempDir(), 2, "fake-model")

	chunks := []string{"a soil", "b water", "c pest", "d seed", "e soil"}
	if _, err := store.Build(context.Background(), "s2", chunks); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if emb.batchCalls != 3 {
		t.Errorf("Expected 3 batches of size 2 for 5 chunks, got %d", emb.batchCalls)
	}
}

func TestBuild_AllOrNothing(t *testing.T) {
	dir := t.TempDir()
	emb := &fakeEmbedder{failOnBatch: 2}
	store := NewStore(emb, dir, 2, "fake-model")

	_, err := store.Build(context.Background(), "s3", []string{"a", "b", "c", "d"})
	if err == nil {
		t.Fatal("Expected build to fail on the second batch")
	}

	// No partial index may survive the failed build.
	if idx, _ := store.Load(context.Background(), "s3"); idx != nil {
		t.Error("Failed build left a persisted index behind")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(&fakeEmbedder{}, dir, 10, "fake-model")

	built, err := store.Build(context.Background(), "s4", []string{"water table", "seed depth"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	loaded, err := store.Load(context.Background(), "s4")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil || loaded.Len() != built.Len() {
		t.Fatalf("Loaded index does not match built index")
	}

	matches, err := loaded.Query(context.Background(), "seed", 1)
	if err != nil || len(matches) != 1 || matches[0].Text != "seed depth" {
		t.Errorf("Loaded index query got %v (err %v)", matches, err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	store := NewStore(&fakeEmbedder{}, t.TempDir(), 10, "fake-model")
	idx, err := store.Load(context.Background(), "ghost")
	if err != nil || idx != nil {
		t.Errorf("Missing file should load as (nil, nil), got (%v, %v)", idx, err)
	}
}

func TestQuery_EmptyIndex(t *testing.T) {
	ix := &index{embedder: &fakeEmbedder{}}
	matches, err := ix.Query(context.Background(), "anything", 2)
	if err != nil || len(matches) != 0 {
		t.Errorf("Empty index query should return no matches, got (%v, %v)", matches, err)
	}
}

func TestRemove_Idempotent(t *testing.T) {
	store := NewStore(&fakeEmbedder{}, t.TempDir(), 10, "fake-model")
	if _, err := store.Build(context.Background(), "s5", []string{"soil"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Remove(context.Background(), "s5"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := store.Remove(context.Background(), "s5"); err != nil {
		t.Errorf("Second remove should be a no-op, got %v", err)
	}
}
