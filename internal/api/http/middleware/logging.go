package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dtroode/vidtube-server/internal/logger"
)

// RequestIDHeader carries the request ID back to the client.
const RequestIDHeader = "X-Request-ID"

var redactedHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
}

// Logging assigns a request ID and logs every HTTP request and its result.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handler logs method, path, status and duration for each request. The
// request-scoped logger is stored in the context for downstream handlers.
func (l *Logging) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		reqLogger := l.logger.With("request_id", requestID)
		ctx := logger.WithContext(r.Context(), reqLogger)

		reqLogger.Info("HTTP request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		reqLogger.Debug("HTTP request headers",
			"headers", redactHeaders(r.Header))

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		reqLogger.Info("HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds())
	})
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if redactedHeaders[http.CanonicalHeaderKey(name)] {
			out[name] = "[REDACTED]"
			continue
		}
		if len(values) > 0 {
			out[name] = values[0]
		}
	}
	return out
}
