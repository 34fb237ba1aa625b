// Package contextkeys holds the request-scoped values shared by middleware and handlers.
package contextkeys

import "context"

type requestIDKey struct{}

type userKey struct{}

// User identifies the account behind a request's session.
type User struct {
	Token    string
	Username string
	IsStaff  bool
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns the request ID and a boolean indicating whether it was found.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

// WithUser adds the session user to the context.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// GetUser retrieves the session user from the context.
func GetUser(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey{}).(User)
	return u, ok
}
