package api

import "time"

// requests ---------------------

type ChatRequest struct {
	SessionId string `json:"session_id,omitempty" example:"sess_550"`
	Message   string `json:"message" validate:"required" example:"When should I plant winter wheat?"`
}

// responses --------------------

type ChatResponse struct {
	SessionId string `json:"session_id" example:"sess_550"`
	Reply     string `json:"reply"`
	Grounded  bool   `json:"grounded" example:"true"`
	TimeMs    int64  `json:"time_ms" example:"840"`
}

type IngestAcceptedResponse struct {
	JobId     string `json:"job_id" example:"job_cz109"`
	SessionId string `json:"session_id" example:"sess_550"`
	StatusURL string `json:"status_url" example:"jobs/job_cz109"`
}

type JobStatusResponse struct {
	JobId        string    `json:"job_id" example:"job_cz109"`
	SessionId    string    `json:"session_id" example:"sess_550"`
	DocumentName string    `json:"document_name" example:"soil-guide.pdf"`
	Status       string    `json:"status" example:"COMPLETE"`
	CurrentStep  string    `json:"current_step" example:"Complete"`
	ChunkCount   int       `json:"chunk_count,omitempty" example:"42"`
	Error        *APIError `json:"error,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time,omitempty"`
}

type TranscriptMessage struct {
	Role      string    `json:"role" example:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type BufferMessage struct {
	Role    string `json:"role" example:"assistant"`
	Content string `json:"content"`
}

type SessionResponse struct {
	SessionId  string              `json:"session_id" example:"sess_550"`
	CreatedAt  time.Time           `json:"created_at"`
	LastActive time.Time           `json:"last_active"`
	Grounded   bool                `json:"grounded" example:"true"`
	Transcript []TranscriptMessage `json:"transcript"`
	Buffer     []BufferMessage     `json:"buffer"`
}

type SessionActionResponse struct {
	SessionId string `json:"session_id" example:"sess_550"`
	Result    string `json:"result" example:"saved"`
}

type APIError struct {
	Code    int    `json:"code" example:"400"`
	Reason  string `json:"reason,omitempty" example:"INVALID_INPUT"`
	Message string `json:"message" example:"message is required"`
	Retry   bool   `json:"can_retry" example:"false"`
	TraceId string `json:"trace_id,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
