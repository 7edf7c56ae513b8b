package handlers

import (
	"net/http"

	"github.com/agropro-ai/agropro/internal/adapter"
	"github.com/agropro-ai/agropro/internal/adapter/utils"
	"github.com/agropro-ai/agropro/internal/api"
	"github.com/agropro-ai/agropro/internal/domain/jobModel"
)

// GetSessionHandler godoc
// @Summary      Get a session's transcript
// @Description  Returns the full display transcript plus the bounded context buffer the next prompt will see.
// @Tags         Sessions
// @Produce      json
// @Param        sessionId  path      string  true  "Session ID"
// @Success      200        {object}  api.SessionResponse
// @Failure      404        {object}  api.ErrorResponse "Session not found"
// @Router       /sessions/{sessionId} [get]
func GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	trace := traceFromContext(r.Context())

	sessionId := utils.GetChiURLParam(r, "sessionId")
	session, found := _sessions.Get(sessionId)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, trace, "", "Session not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(session))
}

// SaveSessionHandler godoc
// @Summary      Snapshot a session
// @Description  Persists the session's buffer and transcript to the session store so it can be restored after a restart.
// @Tags         Sessions
// @Produce      json
// @Param        sessionId  path      string  true  "Session ID"
// @Success      200        {object}  api.SessionActionResponse
// @Failure      404        {object}  api.ErrorResponse "Session not found"
// @Router       /sessions/{sessionId}/save [post]
func SaveSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	trace := traceFromContext(r.Context())

	sessionId := utils.GetChiURLParam(r, "sessionId")
	session, found := _sessions.Get(sessionId)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, trace, "", "Session not found")
		return
	}

	if err := _sessionStore.SaveSnapshot(r.Context(), session.Snapshot()); err != nil {
		logRH.Error("Failed to save session snapshot", "sessionId", sessionId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, trace, jobModel.ReasonServiceFailure, "could not save the session")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.SessionActionResponse{SessionId: sessionId, Result: "saved"})
}

// RestoreSessionHandler godoc
// @Summary      Restore a session from its snapshot
// @Description  Replaces the live session's buffer and transcript with the latest saved snapshot.
// @Tags         Sessions
// @Produce      json
// @Param        sessionId  path      string  true  "Session ID"
// @Success      200        {object}  api.SessionActionResponse
// @Failure      404        {object}  api.ErrorResponse "No snapshot for this session"
// @Router       /sessions/{sessionId}/restore [post]
func RestoreSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	trace := traceFromContext(r.Context())

	sessionId := utils.GetChiURLParam(r, "sessionId")
	snapshot, found := _sessionStore.GetSnapshot(r.Context(), sessionId)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, trace, "", "No snapshot for this session")
		return
	}

	session := _sessions.GetOrCreate(r.Context(), sessionId)
	session.Restore(snapshot)
	writeJsonResponse(w, http.StatusOK, api.SessionActionResponse{SessionId: sessionId, Result: "restored"})
}

// DeleteSessionHandler godoc
// @Summary      Delete a session
// @Description  Drops the live session, its saved snapshot and its persisted vector index.
// @Tags         Sessions
// @Produce      json
// @Param        sessionId  path      string  true  "Session ID"
// @Success      200        {object}  api.SessionActionResponse
// @Router       /sessions/{sessionId} [delete]
func DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	sessionId := utils.GetChiURLParam(r, "sessionId")
	_sessions.Delete(r.Context(), sessionId)
	_sessionStore.DeleteSnapshot(r.Context(), sessionId)
	writeJsonResponse(w, http.StatusOK, api.SessionActionResponse{SessionId: sessionId, Result: "deleted"})
}
