package chunker

import "strings"

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// boundaries ordered from best to worst place to cut a chunk.
var boundaries = []string{"\n\n", "\n", ". ", " "}

type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

// NewSplitter normalizes degenerate parameters: a non-positive size falls
// back to the default, an overlap that reaches the size is clamped to a
// fifth of it so every chunk still advances through the text.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	return &Splitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Split cuts text into chunks of at most chunkSize characters, each starting
// chunkOverlap characters before the previous cut. Cuts prefer the latest
// natural boundary inside the window and fall back to a hard cut at exactly
// chunkSize. Chunks are verbatim substrings, so concatenating them covers
// every character of the input.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		if len(text)-start <= s.chunkSize {
			chunks = append(chunks, text[start:])
			return chunks
		}
		cut := s.findCut(text, start)
		chunks = append(chunks, text[start:cut])
		start = cut - s.chunkOverlap
	}
}

// findCut returns the end of the chunk starting at start. The boundary search
// is confined to the window tail past the overlap watermark, which keeps the
// next start strictly after the current one.
func (s *Splitter) findCut(text string, start int) int {
	end := start + s.chunkSize
	low := start + s.chunkOverlap + 1
	if low >= end {
		return end
	}
	window := text[low:end]
	for _, sep := range boundaries {
		if idx := strings.LastIndex(window, sep); idx >= 0 {
			return low + idx + len(sep)
		}
	}
	return end
}
