package conversation

import (
	"fmt"
	"testing"

	"github.com/agropro-ai/agropro/internal/domain/chatModel"
)

func TestBuffer_EmptyContext(t *testing.T) {
	b := NewBuffer(5)
	if got := b.Context(); got != "" {
		t.Errorf("Empty buffer should render empty string, got %q", got)
	}
}

func TestBuffer_RendersRoleTaggedLines(t *testing.T) {
	b := NewBuffer(5)
	b.Add(chatModel.RoleUser, "X")
	b.Add(chatModel.RoleAssistant, "Y")

	want := "user: X\nassistant: Y"
	if got := b.Context(); got != want {
		t.Errorf("Context got %q, want %q", got, want)
	}
}

func TestBuffer_EvictsOldestBeyondBound(t *testing.T) {
	const maxTurns = 3
	b := NewBuffer(maxTurns)

	for i := 0; i < 2*maxTurns+5; i++ {
		b.Add(chatModel.RoleUser, fmt.Sprintf("m%d", i))
	}

	if b.Len() != 2*maxTurns {
		t.Fatalf("Buffer length got %d, want %d", b.Len(), 2*maxTurns)
	}

	turns := b.Turns()
	// Exactly the most recent 2*maxTurns turns survive, in original order.
	for i, turn := range turns {
		want := fmt.Sprintf("m%d", i+5)
		if turn.Content != want {
			t.Errorf("Turn %d got %q, want %q", i, turn.Content, want)
		}
	}
}

func TestBuffer_DeterministicContext(t *testing.T) {
	b := NewBuffer(2)
	b.Add(chatModel.RoleUser, "how do I rotate crops?")
	b.Add(chatModel.RoleAssistant, "alternate legumes and cereals")

	if b.Context() != b.Context() {
		t.Error("Same turn sequence must render identical context")
	}
}

func TestBuffer_SetTurnsReappliesBound(t *testing.T) {
	b := NewBuffer(1)
	turns := []chatModel.Turn{
		{Role: chatModel.RoleUser, Content: "a"},
		{Role: chatModel.RoleAssistant, Content: "b"},
		{Role: chatModel.RoleUser, Content: "c"},
		{Role: chatModel.RoleAssistant, Content: "d"},
	}
	b.SetTurns(turns)

	if b.Len() != 2 {
		t.Fatalf("Restored buffer length got %d, want 2", b.Len())
	}
	if got := b.Context(); got != "user: c\nassistant: d" {
		t.Errorf("Restored context got %q", got)
	}
}
