package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/agropro-ai/agropro/internal/config"
	"github.com/agropro-ai/agropro/internal/domain/jobModel"
	"github.com/agropro-ai/agropro/internal/metrics"
)

// Large documents spend minutes in embedding batches, so the job deadline is
// generous.
const jobTimeout = 5 * time.Minute

func executeJob(job jobModel.Job) {
	start := time.Now()
	ctxTrace := context.WithValue(context.Background(), config.TraceIDKey, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, jobTimeout)
	defer cancel()

	log := logger.With(config.TraceIDKey, job.TraceId, "jobId", job.Id)
	log.Debug("Processing job", "document", job.DocumentName)

	job.Status = jobModel.JobStatusRunning
	saveJobState(ctx, job)

	job = _ragService.IngestDocument(ctx, job)

	job.EndTime = time.Now()
	saveJobState(ctx, job)

	metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	log.Debug("Job finished", "status", job.Status, "chunks", job.ChunkCount)
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, job jobModel.Job) {
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to persist job state", "jobId", job.Id, "error", err)
	}
}
