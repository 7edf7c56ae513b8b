package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agropro-ai/agropro/internal/adapter/utils"
	"github.com/agropro-ai/agropro/internal/config"
	"github.com/agropro-ai/agropro/internal/conversation"
	"github.com/agropro-ai/agropro/internal/domain/chatModel"
	"github.com/agropro-ai/agropro/internal/domain/jobModel"
	"github.com/agropro-ai/agropro/internal/job"
	"github.com/agropro-ai/agropro/internal/metrics"
	"github.com/agropro-ai/agropro/internal/rag"
	"github.com/agropro-ai/agropro/pkg/logging"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logging.Logger
	logRH           *logging.Logger

	_ragService   rag.Service
	_sessions     *conversation.Manager
	_sessionStore chatModel.SessionStore
	_cfg          *config.Config
)

type JobHandler struct {
	service *job.Service
}

type Dependencies struct {
	JobService   *job.Service
	RagService   rag.Service
	Sessions     *conversation.Manager
	SessionStore chatModel.SessionStore
	Config       *config.Config
}

func InitHandlers(deps Dependencies) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: deps.JobService}
		_ragService = deps.RagService
		_sessions = deps.Sessions
		_sessionStore = deps.SessionStore
		_cfg = deps.Config

		logJH = logging.NewLogger("JobHandler")
		logRH = logging.NewLogger("RequestHandler")
		logJH.Info("Starting handlers")
	})
}

// EnqueueIngestJob persists the queued job, pushes it onto the worker channel
// and signals the dispatcher. The channel send is blocking on purpose: a full
// queue applies backpressure to uploads instead of dropping them.
func EnqueueIngestJob(traceId, sessionId, documentName, spoolPath string) string {
	newJob := jobModel.Job{
		Id:           utils.GetNewUUID(),
		SessionId:    sessionId,
		TraceId:      traceId,
		DocumentName: documentName,
		SpoolPath:    spoolPath,
		CreatedTime:  time.Now(),
		Status:       jobModel.JobStatusQueued,
		CurrentStep:  jobModel.IngestInit,
	}

	ctx := context.WithValue(context.Background(), config.TraceIDKey, traceId)
	if err := handlerInstance.service.JobStore.SaveJob(ctx, newJob); err != nil {
		logJH.Error("Failed to persist queued job", "jobId", newJob.Id, "error", err)
	}

	metrics.IncrementJobsInQueue()
	handlerInstance.service.JobChannel <- newJob
	atomic.AddInt64(&handlerInstance.service.RequestCount, 1)
	logJH.Info("Queued ingestion job", "jobId", newJob.Id, "document", documentName)

	// Ingestion involves batch embedding calls that take time, so every
	// enqueue nudges the dispatcher; the pool caps growth itself.
	metrics.StartDispatcherSignalCount()
	select {
	case handlerInstance.service.DispatcherChannel <- true:
	default:
		// dispatcher already saturated with signals
	}
	return newJob.Id
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TraceIDKey, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}
