package rag

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/agropro-ai/agropro/internal/config"
	"github.com/agropro-ai/agropro/internal/conversation"
	"github.com/agropro-ai/agropro/internal/domain/jobModel"
	"github.com/agropro-ai/agropro/internal/metrics"
	"github.com/agropro-ai/agropro/internal/rag/chunker"
	"github.com/agropro-ai/agropro/internal/rag/ingest"
	"github.com/agropro-ai/agropro/internal/rag/prompt"
	"github.com/agropro-ai/agropro/internal/rag/responder"
	"github.com/agropro-ai/agropro/internal/rag/vectorindex"
	"github.com/agropro-ai/agropro/pkg/logging"
)

// Service is the one contract the HTTP handlers, the worker pool and the MCP
// server call into. Respond never returns an error: every chat-round failure
// collapses to the fixed apology reply so the conversation never hard-stops.
type Service interface {
	Respond(ctx context.Context, session *conversation.Session, userText string) string
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	indexes  vectorindex.Store
	fetcher  *responder.Fetcher
	splitter *chunker.Splitter
	sessions *conversation.Manager
	topK     int
	logger   *logging.Logger
}

func NewService(indexes vectorindex.Store, fetcher *responder.Fetcher, splitter *chunker.Splitter, sessions *conversation.Manager, topK int) Service {
	if topK <= 0 {
		topK = 2
	}
	return &service{
		indexes:  indexes,
		fetcher:  fetcher,
		splitter: splitter,
		sessions: sessions,
		topK:     topK,
		logger:   logging.NewLogger("RAGService"),
	}
}

// Respond resolves one chat round under the session lock: retrieve (when an
// index is active), assemble, fetch, record. The index snapshot is taken at
// round start, so a concurrent upload publishing a new index never tears the
// round in progress.
func (s *service) Respond(ctx context.Context, session *conversation.Session, userText string) string {
	log := s.logger.With(config.TraceIDKey, traceFrom(ctx), "sessionId", session.Id)
	start := time.Now()
	grounded := false
	outcome := "ok"
	var reply string

	session.Run(func(buf *conversation.Buffer, idx vectorindex.Index) (string, string) {
		history := buf.Context()

		var docs []string
		if idx != nil && idx.Len() > 0 {
			log.Debug("Chat round", "state", "RETRIEVING")
			matches, err := s.searchStep(ctx, idx, userText)
			if err != nil {
				log.Error("Retrieval failed", "error", err)
				outcome = "retrieval_error"
				reply = responder.Apology
				return userText, reply
			}
			for _, m := range matches {
				docs = append(docs, m.Text)
			}
			grounded = len(docs) > 0
		}

		log.Debug("Chat round", "state", "ASSEMBLING")
		assembled := prompt.Assemble(history, docs, userText)

		log.Debug("Chat round", "state", "FETCHING")
		reply = s.fetcher.Fetch(ctx, assembled)
		return userText, reply
	})

	log.Debug("Chat round", "state", "IDLE", "grounded", grounded)
	metrics.CountChatRound(grounded)
	metrics.CaptureChatMetrics(outcome, time.Since(start))
	return reply
}

// IngestDocument runs the whole pipeline for one spooled upload: parse,
// chunk, embed+index, publish. The prior index and its file stay untouched
// until the publish step; the spool file is removed no matter the outcome.
func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.With(config.TraceIDKey, traceFrom(ctx), "jobId", job.Id, "sessionId", job.SessionId)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()
	defer func() {
		if err := os.Remove(job.SpoolPath); err != nil && !os.IsNotExist(err) {
			log.Warn("Failed to remove spool file", "path", job.SpoolPath, "error", err)
		}
	}()

	job.CurrentStep = jobModel.IngestParsing
	text, err := s.parseStep(ctx, job.SpoolPath)
	if err != nil {
		return s.jobError(job, err, classifyIngestError(err))
	}
	log.Debug("Parsed document", "textLength", len(text))

	job.CurrentStep = jobModel.IngestChunking
	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return s.jobError(job, ingest.ErrEmptyDocument, classifyIngestError(ingest.ErrEmptyDocument))
	}
	log.Debug("Chunked document", "chunks", len(chunks))

	job.CurrentStep = jobModel.IngestEmbedding
	idx, err := s.indexes.Build(ctx, job.SessionId, chunks)
	if err != nil {
		return s.jobError(job, err, jobModel.ReasonServiceFailure)
	}

	job.CurrentStep = jobModel.IngestPublishing
	session := s.sessions.GetOrCreate(ctx, job.SessionId)
	session.PublishIndex(idx)
	metrics.RecordIndexChunkCount(idx.Len())
	log.Info("Published new index", "chunks", idx.Len())

	job.ChunkCount = idx.Len()
	job.Status = jobModel.JobStatusComplete
	job.CurrentStep = jobModel.Complete
	return job
}

func classifyIngestError(err error) string {
	if errors.Is(err, ingest.ErrUnsupportedFormat) || errors.Is(err, ingest.ErrEmptyDocument) || errors.Is(err, ingest.ErrFileTooLarge) {
		return jobModel.ReasonInvalidInput
	}
	return jobModel.ReasonProcessingFailed
}

func reasonHTTPCode(reason string) int {
	switch reason {
	case jobModel.ReasonInvalidInput:
		return http.StatusBadRequest
	case jobModel.ReasonProcessingFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
