package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/agropro-ai/agropro/internal/config"
	"github.com/agropro-ai/agropro/internal/data/redisStore"
	"github.com/agropro-ai/agropro/internal/domain/chatModel"
	"github.com/agropro-ai/agropro/pkg/logging"
)

const sessionKeyPrefix = "session:"

type RedisSessionStore struct {
	store  *redisStore.Store
	ttl    time.Duration
	logger *logging.Logger
}

// GetRedisSessionStore returns a Redis-backed snapshot store, or nil when
// Redis is unreachable.
func GetRedisSessionStore(ctx context.Context, cfg config.RedisConfig) *RedisSessionStore {
	backing := redisStore.GetRedisStore(ctx, cfg.Addr, cfg.Password, cfg.SessionDB)
	if backing == nil {
		return nil
	}
	return &RedisSessionStore{
		store:  backing,
		ttl:    cfg.SessionTTL(),
		logger: logging.NewLogger("SessionStore"),
	}
}

func (s *RedisSessionStore) SaveSnapshot(ctx context.Context, snapshot chatModel.SessionSnapshot) error {
	log := s.logger.With(config.TraceIDKey, ctx.Value(config.TraceIDKey), "sessionId", snapshot.SessionId)
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, sessionKeyPrefix+snapshot.SessionId, data, s.ttl)
	if err == nil {
		log.Debug("Saved session snapshot", "turns", len(snapshot.Turns))
	}
	return err
}

func (s *RedisSessionStore) GetSnapshot(ctx context.Context, sessionId string) (chatModel.SessionSnapshot, bool) {
	var snapshot chatModel.SessionSnapshot
	log := s.logger.With(config.TraceIDKey, ctx.Value(config.TraceIDKey), "sessionId", sessionId)

	val, err := s.store.Get(ctx, sessionKeyPrefix+sessionId)
	if s.store.IsNil(err) {
		return snapshot, false
	} else if err != nil {
		log.Error("Failed to read snapshot from Redis", "error", err)
		return snapshot, false
	}

	if err = json.Unmarshal([]byte(val), &snapshot); err != nil {
		log.Error("Failed to decode stored snapshot", "error", err)
		return snapshot, false
	}
	return snapshot, true
}

func (s *RedisSessionStore) DeleteSnapshot(ctx context.Context, sessionId string) {
	if err := s.store.Del(ctx, sessionKeyPrefix+sessionId); err != nil {
		s.logger.Error("Error deleting snapshot from Redis", "sessionId", sessionId, "error", err)
	}
}

func TestSessionStore(store *redisStore.Store, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		store:  store,
		ttl:    ttl,
		logger: logging.NewLogger("SessionStoreTest"),
	}
}
