package vectorindex

import "context"

// Match is one retrieved chunk with its similarity score, best first in
// query results.
type Match struct {
	Text  string
	Score float32
}

// Index is an immutable published snapshot over embedded chunks. A session
// holds at most one active Index and swaps it wholesale on a new upload.
type Index interface {
	Query(ctx context.Context, text string, k int) ([]Match, error)
	Len() int
}

// Store builds, loads and removes per-session indexes. Build is
// all-or-nothing: either every batch of chunks lands in the returned index
// or the whole build fails and nothing is published.
type Store interface {
	Build(ctx context.Context, sessionId string, chunks []string) (Index, error)
	Add(ctx context.Context, idx Index, chunks []string) (Index, error)
	Load(ctx context.Context, sessionId string) (Index, error)
	Remove(ctx context.Context, sessionId string) error
}
