package conversation

import (
	"context"
	"testing"

	"github.com/agropro-ai/agropro/internal/rag/vectorindex"
)

type fixedIndex struct {
	matches []vectorindex.Match
}

func (f *fixedIndex) Query(ctx context.Context, text string, k int) ([]vectorindex.Match, error) {
	if k < len(f.matches) {
		return f.matches[:k], nil
	}
	return f.matches, nil
}

func (f *fixedIndex) Len() int { return len(f.matches) }

func TestSession_RunRecordsBothTurns(t *testing.T) {
	s := NewSession("s-1", 5)

	s.Run(func(buf *Buffer, idx vectorindex.Index) (string, string) {
		if buf.Context() != "" {
			t.Error("History inside the round must predate the in-flight turn")
		}
		if idx != nil {
			t.Error("Fresh session should have no index")
		}
		return "what is loam?", "a balanced soil mix"
	})

	transcript := s.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("Transcript length got %d, want 2", len(transcript))
	}
	if transcript[0].Content != "what is loam?" || transcript[1].Content != "a balanced soil mix" {
		t.Errorf("Transcript content mismatch: %+v", transcript)
	}
}

func TestSession_PublishIndexSwap(t *testing.T) {
	s := NewSession("s-2", 5)
	if s.HasIndex() {
		t.Fatal("New session must not report an index")
	}

	s.PublishIndex(&fixedIndex{matches: []vectorindex.Match{{Text: "chunk"}}})
	if !s.HasIndex() {
		t.Fatal("Published index not visible")
	}

	// A replacement swaps wholesale; an empty index counts as ungrounded.
	s.PublishIndex(&fixedIndex{})
	if s.HasIndex() {
		t.Error("Empty index should report ungrounded")
	}
}

func TestSession_SnapshotRestoreRoundTrip(t *testing.T) {
	s := NewSession("s-3", 5)
	s.Run(func(buf *Buffer, idx vectorindex.Index) (string, string) {
		return "q1", "a1"
	})
	s.Run(func(buf *Buffer, idx vectorindex.Index) (string, string) {
		return "q2", "a2"
	})

	snapshot := s.Snapshot()

	restored := NewSession("s-3", 5)
	restored.Restore(snapshot)

	if len(restored.Transcript()) != 4 {
		t.Errorf("Restored transcript length got %d, want 4", len(restored.Transcript()))
	}

	restored.Run(func(buf *Buffer, idx vectorindex.Index) (string, string) {
		want := "user: q1\nassistant: a1\nuser: q2\nassistant: a2"
		if buf.Context() != want {
			t.Errorf("Restored history got %q, want %q", buf.Context(), want)
		}
		return "q3", "a3"
	})
}
