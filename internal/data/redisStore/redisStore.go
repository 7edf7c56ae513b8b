package redisStore

import (
	"context"
	"sync"
	"time"

	"github.com/agropro-ai/agropro/pkg/logging"
	"github.com/redis/go-redis/v9"
)

var (
	instances = make(map[int]*Store)
	mu        sync.RWMutex
	logger    *logging.Logger
	once      sync.Once
)

type Store struct {
	client *redis.Client
	DB     int
}

// GetRedisStore returns the shared client for one logical database, creating
// and pinging it on first use. Returns nil when Redis is unreachable so the
// caller can fall back to an in-memory store.
func GetRedisStore(ctx context.Context, addr, password string, db int) *Store {

	mu.RLock()
	instance, exists := instances[db]
	mu.RUnlock()

	if exists {
		return instance
	}

	mu.Lock()
	defer mu.Unlock()

	if instance, exists = instances[db]; exists {
		return instance
	}
	return createNewStore(ctx, addr, password, db)
}

func initLogger() {
	if logger == nil {
		logger = logging.NewLogger("RedisStore")
	}
}

func closeRedisStores(ctx context.Context) {
	<-ctx.Done()
	logger.Info("Closing Redis stores")
	mu.Lock()
	defer mu.Unlock()
	for _, store := range instances {
		if err := store.client.Close(); err != nil {
			logger.Error("Error closing redis client", "db", store.DB, "error", err)
		}
	}
	logger.Info("Redis stores closed")
}

func createNewStore(ctx context.Context, addr, password string, db int) *Store {
	initLogger()

	newClient := redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              password,
		DB:                    db,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := newClient.Ping(pingCtx).Err(); err != nil {
		logger.Error("Redis is offline", "addr", addr, "error", err)
		return nil
	}

	logger.Info("Redis store ready", "addr", addr, "db", db)

	newStore := &Store{
		client: newClient,
		DB:     db,
	}

	instances[db] = newStore
	once.Do(func() {
		go closeRedisStores(ctx)
	})
	return newStore
}

// NewTestStore wraps an existing client. Test use only.
func NewTestStore(client *redis.Client) *Store {
	return &Store{client: client}
}
