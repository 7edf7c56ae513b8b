package conversation

import (
	"sync"
	"time"

	"github.com/agropro-ai/agropro/internal/domain/chatModel"
	"github.com/agropro-ai/agropro/internal/rag/vectorindex"
)

// Session owns one user's conversational state: the bounded buffer, the
// unbounded display transcript and the active vector index. The session
// mutex serializes chat rounds and index publication, so one query fully
// resolves before the next is accepted.
type Session struct {
	Id        string
	CreatedAt time.Time

	mu         sync.Mutex
	buffer     *Buffer
	transcript []chatModel.TranscriptEntry
	index      vectorindex.Index
	lastActive time.Time
}

func NewSession(id string, maxTurns int) *Session {
	now := time.Now()
	return &Session{
		Id:         id,
		CreatedAt:  now,
		buffer:     NewBuffer(maxTurns),
		lastActive: now,
	}
}

// Run executes one chat round under the session lock. fn receives the buffer
// (rendered before the in-flight turn) and the index snapshot taken at round
// start, and returns the user text and the reply; Run records both into the
// buffer and the transcript before releasing the lock.
func (s *Session) Run(fn func(buf *Buffer, idx vectorindex.Index) (userText, reply string)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userText, reply := fn(s.buffer, s.index)

	now := time.Now()
	s.buffer.Add(chatModel.RoleUser, userText)
	s.buffer.Add(chatModel.RoleAssistant, reply)
	s.transcript = append(s.transcript,
		chatModel.TranscriptEntry{Role: chatModel.RoleUser, Content: userText, CreatedAt: now},
		chatModel.TranscriptEntry{Role: chatModel.RoleAssistant, Content: reply, CreatedAt: now},
	)
	s.lastActive = now
}

// PublishIndex swaps the active index pointer. The replaced index is dropped
// wholesale, never merged; a nil idx clears the grounding entirely.
func (s *Session) PublishIndex(idx vectorindex.Index) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = idx
	s.lastActive = time.Now()
}

func (s *Session) HasIndex() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index != nil && s.index.Len() > 0
}

func (s *Session) Transcript() []chatModel.TranscriptEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]chatModel.TranscriptEntry, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Snapshot captures the explicitly-saved state: buffer turns and transcript.
// The index is persisted separately by its store and is not part of this.
func (s *Session) Snapshot() chatModel.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	transcript := make([]chatModel.TranscriptEntry, len(s.transcript))
	copy(transcript, s.transcript)
	return chatModel.SessionSnapshot{
		SessionId:  s.Id,
		Turns:      s.buffer.Turns(),
		Transcript: transcript,
		SavedAt:    time.Now(),
	}
}

// Restore replaces the buffer and transcript from a saved snapshot.
func (s *Session) Restore(snapshot chatModel.SessionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer.SetTurns(snapshot.Turns)
	s.transcript = make([]chatModel.TranscriptEntry, len(snapshot.Transcript))
	copy(s.transcript, snapshot.Transcript)
	s.lastActive = time.Now()
}
