package rag

import (
	"context"
	"time"

	"github.com/agropro-ai/agropro/internal/config"
	"github.com/agropro-ai/agropro/internal/domain/jobModel"
	"github.com/agropro-ai/agropro/internal/metrics"
	"github.com/agropro-ai/agropro/internal/rag/ingest"
	"github.com/agropro-ai/agropro/internal/rag/vectorindex"
)

func traceFrom(ctx context.Context) string {
	if trace, ok := ctx.Value(config.TraceIDKey).(string); ok {
		return trace
	}
	return ""
}

func (s *service) searchStep(ctx context.Context, idx vectorindex.Index, query string) ([]vectorindex.Match, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()
	return idx.Query(ctx, query, s.topK)
}

func (s *service) parseStep(ctx context.Context, path string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_parse", time.Since(start)) }()
	return ingest.ExtractText(path)
}

// jobError stamps the job with a coded, user-visible failure. The underlying
// error only goes to the logs.
func (s *service) jobError(job jobModel.Job, err error, reason string) jobModel.Job {
	s.logger.Error("Ingestion failed", "jobId", job.Id, "reason", reason, "error", err)

	job.Error = jobModel.JobError{
		Code:    reasonHTTPCode(reason),
		Reason:  reason,
		Message: userMessage(reason, err),
		Retry:   reason == jobModel.ReasonServiceFailure,
	}
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	return job
}

func userMessage(reason string, err error) string {
	switch reason {
	case jobModel.ReasonInvalidInput:
		return err.Error()
	case jobModel.ReasonProcessingFailed:
		return "The document could not be processed"
	default:
		return "A backend service failed, please retry the upload"
	}
}
