package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/agropro-ai/agropro/internal/adapter"
	"github.com/agropro-ai/agropro/internal/adapter/utils"
	"github.com/agropro-ai/agropro/internal/api"
	"github.com/agropro-ai/agropro/internal/domain/jobModel"
	"github.com/agropro-ai/agropro/internal/rag/ingest"
)

// HealthzHandler godoc
// @Summary      Liveness probe
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func HealthzHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ChatHandler godoc
// @Summary      Run one chat round
// @Description  Resolves a question synchronously against the session's conversation history and, when a document has been ingested, its vector index. Creates the session when session_id is empty.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest   true  "Message and optional session ID"
// @Success      200      {object}  api.ChatResponse  "The assistant's reply"
// @Failure      400      {object}  api.ErrorResponse "Invalid request data"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid context by request", "remoteAddr", request.RemoteAddr)
		return
	}
	trace := traceFromContext(request.Context())

	var requestData api.ChatRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logRH.Error("Couldn't close the chat request body", "error", err)
		}
	}(request.Body)

	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil {
		logRH.Warn("Bad chat request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, trace, jobModel.ReasonInvalidInput, "malformed request body")
		return
	}
	if requestData.Message == "" {
		WriteErrorResponse(w, http.StatusBadRequest, trace, jobModel.ReasonInvalidInput, "message is required")
		return
	}

	start := time.Now()
	session := _sessions.GetOrCreate(request.Context(), requestData.SessionId)
	reply := _ragService.Respond(request.Context(), session, requestData.Message)

	writeJsonResponse(w, http.StatusOK, api.ChatResponse{
		SessionId: session.Id,
		Reply:     reply,
		Grounded:  session.HasIndex(),
		TimeMs:    time.Since(start).Milliseconds(),
	})
}

// PostDocumentsHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, spools it to the data directory and queues a background ingestion job. Supported formats: pdf, docx, txt, rtf.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document    formData  file    true   "The document to ingest"
// @Param        session_id  formData  string  false  "Session to attach the document to"
// @Success      202  {object}  api.IngestAcceptedResponse "Job queued"
// @Failure      400  {object}  api.ErrorResponse "Missing file or unsupported format"
// @Failure      413  {object}  api.ErrorResponse "File exceeds the upload size limit"
// @Router       /documents [post]
func PostDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid context by request", "remoteAddr", r.RemoteAddr)
		return
	}
	trace := traceFromContext(r.Context())
	maxBytes := _cfg.Ingest.MaxUploadBytes

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, trace, jobModel.ReasonInvalidInput, "file too large or bad multipart request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, trace, jobModel.ReasonInvalidInput, "document file field is required")
		return
	}
	defer fileReader.Close()

	// Gate on the declared size and the extension before any disk writes.
	if fileMetadata.Size > maxBytes {
		WriteErrorResponse(w, http.StatusRequestEntityTooLarge, trace, jobModel.ReasonInvalidInput, ingest.ErrFileTooLarge.Error())
		return
	}
	if !ingest.SupportedExtension(fileMetadata.Filename) {
		WriteErrorResponse(w, http.StatusBadRequest, trace, jobModel.ReasonInvalidInput, ingest.ErrUnsupportedFormat.Error())
		return
	}

	spoolPath, err := ingest.Spool(_cfg.App.DataDir, fileMetadata.Filename, maxBytes, fileReader)
	if err != nil {
		logRH.Error("Failed to spool upload", "document", fileMetadata.Filename, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, trace, jobModel.ReasonServiceFailure, "could not store the upload")
		return
	}

	sessionId := r.FormValue("session_id")
	if sessionId == "" {
		sessionId = utils.GetNewUUID()
	}

	jobId := EnqueueIngestJob(trace, sessionId, fileMetadata.Filename, spoolPath)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToIngestAcceptedResponse(jobId, sessionId))
}

// GetJobStatusHandler godoc
// @Summary      Get ingestion job status
// @Tags         Ingestion
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {object}  api.JobStatusResponse
// @Failure      404    {object}  api.ErrorResponse "Job not found"
// @Router       /jobs/{jobId} [get]
func GetJobStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	trace := traceFromContext(r.Context())

	jobId := utils.GetChiURLParam(r, "jobId")
	if jobId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, trace, jobModel.ReasonInvalidInput, "job id is required")
		return
	}

	result, isFound := GetJobStatus(jobId, trace)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, trace, "", "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToJobStatusResponse(result))
}
