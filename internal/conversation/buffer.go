package conversation

import (
	"strings"

	"github.com/agropro-ai/agropro/internal/domain/chatModel"
)

const DefaultMaxTurns = 5

// Buffer is the bounded FIFO of recent turns used to build LLM context.
// maxTurns counts user+assistant pairs, so capacity is 2*maxTurns messages.
type Buffer struct {
	maxTurns int
	turns    []chatModel.Turn
}

func NewBuffer(maxTurns int) *Buffer {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Buffer{maxTurns: maxTurns}
}

// Add appends a turn and evicts the oldest ones past capacity.
func (b *Buffer) Add(role, content string) {
	b.turns = append(b.turns, chatModel.Turn{Role: role, Content: content})
	if over := len(b.turns) - 2*b.maxTurns; over > 0 {
		b.turns = b.turns[over:]
	}
}

// Context renders the retained turns oldest to newest as "{role}: {content}"
// lines. An empty buffer renders as the empty string.
func (b *Buffer) Context() string {
	if len(b.turns) == 0 {
		return ""
	}
	lines := make([]string, 0, len(b.turns))
	for _, t := range b.turns {
		lines = append(lines, t.Role+": "+t.Content)
	}
	return strings.Join(lines, "\n")
}

func (b *Buffer) Len() int {
	return len(b.turns)
}

// Turns returns a snapshot copy of the retained turns.
func (b *Buffer) Turns() []chatModel.Turn {
	out := make([]chatModel.Turn, len(b.turns))
	copy(out, b.turns)
	return out
}

// SetTurns replaces the buffer content from a snapshot, re-applying the
// capacity bound in case the snapshot was taken with a larger limit.
func (b *Buffer) SetTurns(turns []chatModel.Turn) {
	b.turns = b.turns[:0]
	for _, t := range turns {
		b.Add(t.Role, t.Content)
	}
}
