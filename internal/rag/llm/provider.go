package llm

import "context"

type ReplyKind int

const (
	// ReplyText carries one plain text body.
	ReplyText ReplyKind = iota
	// ReplyParts carries multiple text fragments to be joined with spaces.
	ReplyParts
	// ReplyOpaque carries a stringified payload used verbatim as a last resort.
	ReplyOpaque
)

// Reply is the tagged union produced at the LLM boundary. Provider adapters
// decode the backend's response shape into exactly one of the three kinds;
// the responder decodes the union once and nothing downstream ever touches
// SDK types.
type Reply struct {
	Kind  ReplyKind
	Text  string
	Parts []string
}

func TextReply(text string) Reply {
	return Reply{Kind: ReplyText, Text: text}
}

func PartsReply(parts []string) Reply {
	return Reply{Kind: ReplyParts, Parts: parts}
}

func OpaqueReply(raw string) Reply {
	return Reply{Kind: ReplyOpaque, Text: raw}
}

type Provider interface {
	Generate(ctx context.Context, prompt string) (Reply, error)
	Name() string
}
