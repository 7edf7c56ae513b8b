package chatModel

import (
	"context"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one bounded-buffer entry. The buffer holds the last N of these,
// the transcript below holds all of them.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TranscriptEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionSnapshot is the explicitly-saved state of a session. Live sessions
// stay in memory; a snapshot only exists when the caller asks for one.
type SessionSnapshot struct {
	SessionId  string            `json:"session_id"`
	Turns      []Turn            `json:"turns"`
	Transcript []TranscriptEntry `json:"transcript"`
	SavedAt    time.Time         `json:"saved_at"`
}

type SessionStore interface {
	SaveSnapshot(ctx context.Context, snapshot SessionSnapshot) error
	GetSnapshot(ctx context.Context, sessionId string) (SessionSnapshot, bool)
	DeleteSnapshot(ctx context.Context, sessionId string)
}
