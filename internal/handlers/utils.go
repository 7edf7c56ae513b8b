package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/agropro-ai/agropro/internal/adapter"
	"github.com/agropro-ai/agropro/internal/config"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are gone, log only
		logRH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, traceId, reason, message string) {
	writeJsonResponse(w, httpCode, adapter.ToErrorResponse(httpCode, reason, message, traceId))
}

func traceFromContext(ctx context.Context) string {
	if trace, ok := ctx.Value(config.TraceIDKey).(string); ok {
		return trace
	}
	return ""
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true
	}
}
