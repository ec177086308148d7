package http

import (
	"net/http"
	"time"

	"github.com/ledskov/openwall/internal/logger"
)

// withLogging writes one access-log line per request: method, URI,
// response status, payload size and time spent. It runs inside
// withTraceID, so every line carries the request's trace id.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()
		uri, method := r.RequestURI, r.Method

		lw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r)

		log.Info().
			Str("uri", uri).
			Str("method", method).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}
