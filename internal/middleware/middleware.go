package middleware

import (
	"net/http"
	"strconv"

	"github.com/agropro-ai/agropro/internal/handlers"
	"github.com/agropro-ai/agropro/internal/metrics"
	"github.com/agropro-ai/agropro/pkg/logging"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logging.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var (
	HealthzHandler        = Wrap(handlers.HealthzHandler)
	ChatHandler           = Wrap(handlers.ChatHandler)
	PostDocumentsHandler  = Wrap(handlers.PostDocumentsHandler)
	GetJobStatusHandler   = Wrap(handlers.GetJobStatusHandler)
	GetSessionHandler     = Wrap(handlers.GetSessionHandler)
	SaveSessionHandler    = Wrap(handlers.SaveSessionHandler)
	RestoreSessionHandler = Wrap(handlers.RestoreSessionHandler)
	DeleteSessionHandler  = Wrap(handlers.DeleteSessionHandler)
)

// Wrap runs the chain trace -> auth -> rate limit around a handler and counts
// the request with its final status.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200}
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if !re.badRequest.isBadRequest {
			next(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logging.NewLogger("middleware")

	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re
	}
	re = rateLimiter(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re
	}

	return re
}
