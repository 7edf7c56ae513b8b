package conversation

import (
	"context"
	"sync"

	"github.com/agropro-ai/agropro/internal/adapter/utils"
	"github.com/agropro-ai/agropro/internal/rag/vectorindex"
	"github.com/agropro-ai/agropro/pkg/logging"
)

// Manager holds the live sessions by id. Sessions are created on first use;
// a freshly created session tries to load a previously persisted index so a
// restarted process picks up where the user left off.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	maxTurns int
	indexes  vectorindex.Store
	logger   *logging.Logger
}

func NewManager(maxTurns int, indexes vectorindex.Store) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		maxTurns: maxTurns,
		indexes:  indexes,
		logger:   logging.NewLogger("SessionManager"),
	}
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the live session for id, creating it when absent. An
// empty id allocates a new session id.
func (m *Manager) GetOrCreate(ctx context.Context, id string) *Session {
	if id == "" {
		id = utils.GetNewUUID()
	}

	m.mu.RLock()
	existing, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return existing
	}

	m.mu.Lock()
	if existing, ok = m.sessions[id]; ok {
		m.mu.Unlock()
		return existing
	}
	session := NewSession(id, m.maxTurns)
	m.sessions[id] = session
	m.mu.Unlock()

	if m.indexes != nil {
		if idx, err := m.indexes.Load(ctx, id); err != nil {
			m.logger.Debug("No persisted index for session", "sessionId", id, "reason", err)
		} else if idx != nil {
			m.logger.Info("Loaded persisted index for session", "sessionId", id, "chunks", idx.Len())
			session.PublishIndex(idx)
		}
	}
	return session
}

// Delete drops the live session and its persisted index.
func (m *Manager) Delete(ctx context.Context, id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	if m.indexes != nil {
		if err := m.indexes.Remove(ctx, id); err != nil {
			m.logger.Warn("Failed to remove persisted index", "sessionId", id, "error", err)
		}
	}
}
