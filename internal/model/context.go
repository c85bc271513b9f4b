package model

import "context"

// ContextManager carries the authenticated principal through a request.
type ContextManager interface {
	SetUserToContext(ctx context.Context, user PublicUser) context.Context
	GetUserFromContext(ctx context.Context) (PublicUser, bool)
}
