package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/dtroode/vidtube-server/internal/api/http/response"
	"github.com/dtroode/vidtube-server/internal/logger"
)

// Recover turns a panicking handler into a 500 response.
type Recover struct {
	logger *logger.Logger
}

func NewRecover(logger *logger.Logger) *Recover {
	return &Recover{logger: logger}
}

func (m *Recover) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			log := logger.FromContext(r.Context(), m.logger)
			log.Error("Recovered from panic",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()))
			response.Error(w, log, fmt.Errorf("panic: %v", rec))
		}()

		next.ServeHTTP(w, r)
	})
}
