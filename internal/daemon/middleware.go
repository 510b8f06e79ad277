package daemon

import (
	"fmt"
	"net/http"
	"time"

	"github.com/theirongolddev/adpulse/internal/logging"
)

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *loggingResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the wrapper.
func (w *loggingResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// requestLogger tags each request with an ID and logs it once it completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, id := logging.WithRequestID(r.Context())
		w.Header().Set("X-Request-ID", id)

		lw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lw, r.WithContext(ctx))

		logging.FromContext(ctx, "http").
			WithField("method", r.Method).
			WithField("path", r.URL.Path).
			WithField("status_code", lw.statusCode).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			Debug("request")
	})
}

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.FromContext(r.Context(), "http").
					WithField("panic", fmt.Sprint(rec)).
					Error("handler panicked")
				writeError(w, r, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
