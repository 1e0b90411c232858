package auth

import (
	"context"
	"errors"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const userIDKey contextKey = "user_id"

// ErrNoUser is returned when no acting user exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrNoUser = errors.New("no authenticated user in context")

// UserFromCtx extracts the authenticated acting user from the request context.
// The identity is an opaque user-identifier string issued by the external
// token verifier; the core never interprets it.
func UserFromCtx(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", ErrNoUser
	}
	return userID, nil
}

// WithUser returns a new context with the given user identifier attached.
// Used by authentication middleware after validating credentials.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
