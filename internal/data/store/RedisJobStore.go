package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/agropro-ai/agropro/internal/config"
	"github.com/agropro-ai/agropro/internal/data/redisStore"
	"github.com/agropro-ai/agropro/internal/domain/jobModel"
	"github.com/agropro-ai/agropro/pkg/logging"
)

type RedisJobStore struct {
	store  *redisStore.Store
	ttl    time.Duration
	logger *logging.Logger
}

// GetRedisJobStore returns a Redis-backed job store, or nil when Redis is
// unreachable.
func GetRedisJobStore(ctx context.Context, cfg config.RedisConfig) *RedisJobStore {
	backing := redisStore.GetRedisStore(ctx, cfg.Addr, cfg.Password, cfg.JobDB)
	if backing == nil {
		return nil
	}
	return &RedisJobStore{
		store:  backing,
		ttl:    cfg.JobTTL(),
		logger: logging.NewLogger("JobStore"),
	}
}

func (s *RedisJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	log := s.logger.With(config.TraceIDKey, ctx.Value(config.TraceIDKey), "jobId", job.Id)
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, job.Id, data, s.ttl)
	if err == nil {
		log.Debug("Saved job to Redis")
	}
	return err
}

func (s *RedisJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	var job jobModel.Job
	log := s.logger.With(config.TraceIDKey, ctx.Value(config.TraceIDKey), "jobId", jobId)

	val, err := s.store.Get(ctx, jobId)
	if s.store.IsNil(err) {
		return job, false
	} else if err != nil {
		log.Error("Failed to read job from Redis", "error", err)
		return job, false
	}

	if err = json.Unmarshal([]byte(val), &job); err != nil {
		log.Error("Failed to decode stored job", "error", err)
		return job, false
	}
	return job, true
}

func (s *RedisJobStore) DeleteJob(ctx context.Context, jobID string) {
	if err := s.store.Del(ctx, jobID); err != nil {
		s.logger.Error("Error deleting job from Redis", "jobId", jobID, "error", err)
		return
	}
	s.logger.Debug("Job deleted from Redis", "jobId", jobID)
}

func TestJobStore(store *redisStore.Store, ttl time.Duration) *RedisJobStore {
	return &RedisJobStore{
		store:  store,
		ttl:    ttl,
		logger: logging.NewLogger("JobStoreTest"),
	}
}
