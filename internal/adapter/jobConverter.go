package adapter

import (
	"fmt"

	"github.com/agropro-ai/agropro/internal/api"
	"github.com/agropro-ai/agropro/internal/conversation"
	"github.com/agropro-ai/agropro/internal/domain/jobModel"
)

func ToIngestAcceptedResponse(jobId, sessionId string) api.IngestAcceptedResponse {
	return api.IngestAcceptedResponse{
		JobId:     jobId,
		SessionId: sessionId,
		StatusURL: fmt.Sprintf("jobs/%s", jobId),
	}
}

func ToJobStatusResponse(job jobModel.Job) api.JobStatusResponse {
	var errorPtr *api.APIError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.APIError{
			Code:    job.Error.Code,
			Reason:  job.Error.Reason,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	return api.JobStatusResponse{
		JobId:        job.Id,
		SessionId:    job.SessionId,
		DocumentName: job.DocumentName,
		Status:       string(job.Status),
		CurrentStep:  string(job.CurrentStep),
		ChunkCount:   job.ChunkCount,
		Error:        errorPtr,
		StartTime:    job.CreatedTime,
		EndTime:      job.EndTime,
	}
}

func ToSessionResponse(session *conversation.Session) api.SessionResponse {
	snapshot := session.Snapshot()

	transcript := make([]api.TranscriptMessage, 0, len(snapshot.Transcript))
	for _, entry := range snapshot.Transcript {
		transcript = append(transcript, api.TranscriptMessage{
			Role:      entry.Role,
			Content:   entry.Content,
			CreatedAt: entry.CreatedAt,
		})
	}

	buffer := make([]api.BufferMessage, 0, len(snapshot.Turns))
	for _, turn := range snapshot.Turns {
		buffer = append(buffer, api.BufferMessage{Role: turn.Role, Content: turn.Content})
	}

	return api.SessionResponse{
		SessionId:  session.Id,
		CreatedAt:  session.CreatedAt,
		LastActive: session.LastActive(),
		Grounded:   session.HasIndex(),
		Transcript: transcript,
		Buffer:     buffer,
	}
}

func ToErrorResponse(code int, reason, message, traceId string) api.ErrorResponse {
	return api.ErrorResponse{
		Error: api.APIError{
			Code:    code,
			Reason:  reason,
			Message: message,
			Retry:   false,
			TraceId: traceId,
		},
	}
}
