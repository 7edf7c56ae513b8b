package store

import (
	"context"
	"sync"

	"github.com/agropro-ai/agropro/internal/domain/chatModel"
)

type InMemorySessionStore struct {
	mu        *sync.RWMutex
	snapshots map[string]chatModel.SessionSnapshot
}

func InitInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		mu:        new(sync.RWMutex),
		snapshots: make(map[string]chatModel.SessionSnapshot),
	}
}

func (store *InMemorySessionStore) SaveSnapshot(ctx context.Context, snapshot chatModel.SessionSnapshot) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.snapshots[snapshot.SessionId] = snapshot
	return nil
}

func (store *InMemorySessionStore) GetSnapshot(ctx context.Context, sessionId string) (chatModel.SessionSnapshot, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	snapshot, found := store.snapshots[sessionId]
	return snapshot, found
}

func (store *InMemorySessionStore) DeleteSnapshot(ctx context.Context, sessionId string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.snapshots, sessionId)
}
