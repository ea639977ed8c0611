// Package shared holds the pieces of the HTTP layer that handlers and
// middleware both depend on: context keys, the response envelope, and the
// problem-details error format.
package shared

import (
	"context"

	"github.com/tasktrack/tasktrack-api/internal/domain"
)

// ContextKey is a private type for context keys defined in this package.
type ContextKey string

const (
	// UserContextKey is the context key under which the auth middleware
	// stores the resolved *domain.User.
	UserContextKey ContextKey = "user"

	// RequestIDContextKey is the key for the correlation ID in the request
	// context.
	RequestIDContextKey ContextKey = "requestID"
)

// RequestIDHeader is the header used to propagate the correlation ID between
// client and server, in both directions.
const RequestIDHeader = "X-Request-ID"

// WithRequestID returns a new context carrying the given correlation ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDContextKey, requestID)
}

// GetRequestID retrieves the correlation ID from the context.
// If no ID exists, it returns an empty string.
func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDContextKey).(string)
	if !ok {
		return ""
	}
	return requestID
}

// WithUser returns a new context carrying the authenticated user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// GetUser retrieves the authenticated user from the context.
// Returns the user and a boolean indicating if one was found.
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
