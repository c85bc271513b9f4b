package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dtroode/vidtube-server/internal/api/http/response"
	"github.com/dtroode/vidtube-server/internal/logger"
	"github.com/dtroode/vidtube-server/internal/model"
)

const accessTokenCookie = "accessToken"

// Authenticator resolves an access token to the user it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (model.PublicUser, error)
}

// Authenticate validates access tokens and injects the user into context.
type Authenticate struct {
	authenticator  Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(authenticator Authenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{authenticator: authenticator, contextManager: contextManager, logger: logger}
}

// Handler rejects requests without a valid access token. The token is taken
// from the accessToken cookie, falling back to a bearer Authorization header.
func (m *Authenticate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context(), m.logger)

		token := tokenFromRequest(r)
		if token == "" {
			response.Error(w, log, model.NewErrUnauthorized("Unauthorized request"))
			return
		}

		user, err := m.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			log.Debug("Authentication failed", "error", err.Error())
			response.Error(w, log, err)
			return
		}

		ctx := m.contextManager.SetUserToContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(accessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	header := r.Header.Get("Authorization")
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}
