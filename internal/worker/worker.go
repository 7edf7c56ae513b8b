package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/agropro-ai/agropro/internal/config"
	"github.com/agropro-ai/agropro/internal/job"
	"github.com/agropro-ai/agropro/internal/metrics"
	"github.com/agropro-ai/agropro/internal/rag"
	"github.com/agropro-ai/agropro/pkg/logging"
)

var (
	_jobService        *job.Service
	_ragService        rag.Service
	poolConfig         config.WorkerConfig
	stopWorkerChannel  chan bool
	workerWaitGroup    *sync.WaitGroup
	dispatcherChannel  chan bool
	currentWorkerCount int64
	minWorkerCount     int64
	logger             *logging.Logger
)

func InitServices(jobService *job.Service, ragService rag.Service, cfg config.WorkerConfig) {
	_jobService = jobService
	_ragService = ragService
	poolConfig = cfg
	dispatcherChannel = jobService.DispatcherChannel
	atomic.StoreInt64(&minWorkerCount, cfg.MinWorkers)
}

func InitWorkerPool(stopWorkerChan chan bool, waitGroup *sync.WaitGroup) {
	stopWorkerChannel = stopWorkerChan
	workerWaitGroup = waitGroup
	logger = logging.NewLogger("WorkerPool")
	logger.Info("Initializing worker pool")
	go dispatcher()
}

func dispatcher() {
	createWorker()
	logger.Info("Dispatcher started")
	for range dispatcherChannel {
		if atomic.LoadInt64(&currentWorkerCount) < poolConfig.MaxWorkers {
			logger.Info("Creating new worker", "workerCount", currentWorkerCount)
			createWorker()
		}
	}
}

func createWorker() {
	workerWaitGroup.Add(1)
	go worker()
	atomic.AddInt64(&currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
	logger.Info("Created new worker")
}

func worker() {
	for {
		select {
		case currentJob := <-_jobService.JobChannel:
			executeJob(currentJob)
			metrics.DecrementJobsInQueue()

		case <-stopWorkerChannel:
			removeWorker("Stop worker signal received")
			return

		case <-time.After(poolConfig.IdleTimeout()):
			// Idle past the timeout: retire unless we are at the floor.
			if atomic.LoadInt64(&currentWorkerCount) > atomic.LoadInt64(&minWorkerCount) {
				removeWorker("Idle worker timeout")
				return
			}
		}
	}
}
