package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit       InternalStatus = "Init"
	IngestParsing    InternalStatus = "Parsing"
	IngestChunking   InternalStatus = "Chunking"
	IngestEmbedding  InternalStatus = "EmbeddingAndIndexing"
	IngestPublishing InternalStatus = "Publishing"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"
)

// Error reasons surfaced to the caller through the job status endpoint.
const (
	ReasonInvalidInput     = "INVALID_INPUT"
	ReasonProcessingFailed = "PROCESSING_FAILED"
	ReasonServiceFailure   = "SERVICE_FAILURE"
)

type Job struct {
	Id           string         `json:"id"`
	SessionId    string         `json:"session_id"`
	TraceId      string         `json:"trace_id"`
	DocumentName string         `json:"document_name"`
	SpoolPath    string         `json:"spool_path"`
	ChunkCount   int            `json:"chunk_count,omitempty"`
	Error        JobError       `json:"error,omitempty"`
	CreatedTime  time.Time      `json:"created_time"`
	EndTime      time.Time      `json:"end_time,omitempty"`
	Status       JobStatus      `json:"status"`
	CurrentStep  InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
