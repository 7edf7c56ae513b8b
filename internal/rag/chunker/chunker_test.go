package chunker

import (
	"strings"
	"testing"
)

func TestSplit_EmptyInput(t *testing.T) {
	s := NewSplitter(1000, 200)
	if got := s.Split(""); len(got) != 0 {
		t.Errorf("Expected no chunks for empty input, got %d", len(got))
	}
}

func TestSplit_SmallInput(t *testing.T) {
	s := NewSplitter(1000, 200)
	text := "short agronomy note"
	got := s.Split(text)
	if len(got) != 1 || got[0] != text {
		t.Errorf("Expected single verbatim chunk, got %v", got)
	}
}

func TestSplit_MaxSizeBound(t *testing.T) {
	s := NewSplitter(50, 10)
	text := strings.Repeat("soil health matters for every crop rotation. ", 40)

	for i, c := range s.Split(text) {
		if len(c) > 50 {
			t.Errorf("Chunk %d exceeds max size: %d chars", i, len(c))
		}
	}
}

func TestSplit_CoversEveryCharacter(t *testing.T) {
	s := NewSplitter(80, 20)
	text := strings.Repeat("Crop yields depend on irrigation schedules.\nRotate legumes.\n\n", 30)

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}

	// Each chunk starts exactly overlap chars before the previous cut, so the
	// positions are fully reconstructible and coverage has no gaps.
	start := 0
	for i, c := range chunks {
		if text[start:start+len(c)] != c {
			t.Fatalf("Chunk %d is not the verbatim substring at offset %d", i, start)
		}
		start += len(c) - 20
	}
	if start+20 != len(text) {
		t.Errorf("Last chunk ends at %d, want %d", start+20, len(text))
	}
}

func TestSplit_Deterministic(t *testing.T) {
	s := NewSplitter(120, 30)
	text := strings.Repeat("Nitrogen fixation improves soil fertility over seasons. ", 25)

	first := s.Split(text)
	second := s.Split(text)
	if len(first) != len(second) {
		t.Fatalf("Chunk counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Chunk %d differs between runs", i)
		}
	}
}

func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	s := NewSplitter(100, 10)
	text := strings.Repeat("a", 60) + "\n\n" + strings.Repeat("b", 200)

	chunks := s.Split(text)
	if !strings.HasSuffix(chunks[0], "\n\n") {
		t.Errorf("Expected first cut at the paragraph break, got %q", chunks[0])
	}
}

func TestSplit_HardCutWithoutBoundary(t *testing.T) {
	s := NewSplitter(50, 10)
	text := strings.Repeat("x", 130)

	chunks := s.Split(text)
	if len(chunks[0]) != 50 {
		t.Errorf("Expected hard cut at exactly 50 chars, got %d", len(chunks[0]))
	}
}

func TestSplit_OverlapCarriedForward(t *testing.T) {
	s := NewSplitter(50, 10)
	text := strings.Repeat("y", 130)

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatal("Expected at least two chunks")
	}
	tail := chunks[0][len(chunks[0])-10:]
	if !strings.HasPrefix(chunks[1], tail) {
		t.Errorf("Second chunk does not start with the overlap of the first")
	}
}

func TestNewSplitter_NormalizesParameters(t *testing.T) {
	s := NewSplitter(0, -5)
	if s.chunkSize != DefaultChunkSize || s.chunkOverlap != 0 {
		t.Errorf("Degenerate parameters not normalized: %+v", s)
	}

	s = NewSplitter(100, 100)
	if s.chunkOverlap != 20 {
		t.Errorf("Overlap >= size should clamp to size/5, got %d", s.chunkOverlap)
	}
}
