package http

import (
	"net/http"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/logger"
)

// withLogging emits one structured line per completed request carrying
// method, URI, status, response size, and wall-clock duration. It relies on
// the trace-id middleware having already attached the request logger.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		start := time.Now()

		recorder := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		log.Info().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Int("status", recorder.status).
			Int("size", recorder.size).
			Dur("duration", time.Since(start)).
			Send()
	})
}
