package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agropro-ai/agropro/internal/config"
	"github.com/agropro-ai/agropro/internal/conversation"
	"github.com/agropro-ai/agropro/internal/domain/jobModel"
	"github.com/agropro-ai/agropro/internal/job"
	"github.com/agropro-ai/agropro/pkg/logging"
)

// MockRagService tracks executed jobs.
type MockRagService struct {
	ProcessedCount int32
}

func (m *MockRagService) Respond(ctx context.Context, session *conversation.Session, userText string) string {
	return "mock reply"
}

func (m *MockRagService) IngestDocument(ctx context.Context, j jobModel.Job) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	j.Status = jobModel.JobStatusComplete
	j.CurrentStep = jobModel.Complete
	return j
}

type MockJobStore struct {
	mu    sync.Mutex
	Saved []jobModel.Job
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	return jobModel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saved = append(m.Saved, j)
	return nil
}

func (m *MockJobStore) LastSaved() (jobModel.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Saved) == 0 {
		return jobModel.Job{}, false
	}
	return m.Saved[len(m.Saved)-1], true
}

func TestWorkerPool_Flow(t *testing.T) {
	jobStore := &MockJobStore{}
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          jobStore,
	}
	mockRag := &MockRagService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	cfg := config.WorkerConfig{MaxWorkers: 2, MinWorkers: 1, IdleTimeoutSeconds: 60}
	InitServices(jobSvc, mockRag, cfg)
	InitWorkerPool(stopChan, wg)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a job and persists final state", func(t *testing.T) {
		jobSvc.JobChannel <- jobModel.Job{Id: "test-1", TraceId: "trace-1"}
		time.Sleep(50 * time.Millisecond)

		if processed := atomic.LoadInt32(&mockRag.ProcessedCount); processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}
		last, ok := jobStore.LastSaved()
		if !ok || last.Status != jobModel.JobStatusComplete {
			t.Errorf("Final saved state should be COMPLETE, got %+v", last)
		}
		if last.EndTime.IsZero() {
			t.Error("Final saved state should carry an end time")
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_IdleTimeout(t *testing.T) {
	logger = logging.NewLogger("TestWorkerPool")
	jobSvc := &job.Service{
		JobChannel: make(chan jobModel.Job),
		JobStore:   &MockJobStore{},
	}
	InitServices(jobSvc, &MockRagService{}, config.WorkerConfig{MaxWorkers: 5, MinWorkers: 0, IdleTimeoutSeconds: 0})

	wg := &sync.WaitGroup{}
	workerWaitGroup = wg
	stopWorkerChannel = make(chan bool)
	atomic.StoreInt64(&currentWorkerCount, 0)

	createWorker()
	time.Sleep(100 * time.Millisecond)

	if count := atomic.LoadInt64(&currentWorkerCount); count != 0 {
		t.Errorf("Worker should have timed out and retired, but count is %d", count)
	}
}
