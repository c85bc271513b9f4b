package context

import (
	"context"

	"github.com/dtroode/vidtube-server/internal/model"
)

// userKey is the context key under which the authenticated user is stored.
type userKey struct{}

// Manager represents an HTTP request context manager for the authenticated user.
// It provides methods to attach and retrieve the user resolved by the
// authentication middleware.
type Manager struct{}

// NewManager creates a new context manager instance.
//
// Returns a pointer to the newly created Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserToContext attaches the authenticated user to the request context.
//
// Parameters:
//   - ctx: The request context
//   - user: The public view of the authenticated user
//
// Returns a new context carrying the user.
func (m *Manager) SetUserToContext(ctx context.Context, user model.PublicUser) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUserFromContext retrieves the authenticated user from the request context.
//
// Parameters:
//   - ctx: The request context
//
// Returns the user and a boolean indicating if a user was attached.
func (m *Manager) GetUserFromContext(ctx context.Context) (model.PublicUser, bool) {
	user, ok := ctx.Value(userKey{}).(model.PublicUser)
	return user, ok
}
