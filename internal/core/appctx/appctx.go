// Package appctx carries request-scoped metadata (trace and user info)
// through context.Context.
package appctx

import (
	"context"
)

// Trace holds request correlation identifiers.
type Trace struct {
	TraceID   string
	RequestID string
}

// User holds the authenticated caller.
type User struct {
	UserID string
	Email  string
}

type traceKey struct{}
type userKey struct{}

// WithTrace attaches trace info to the context.
func WithTrace(ctx context.Context, t *Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

// GetTrace returns trace info from context, or nil.
func GetTrace(ctx context.Context) *Trace {
	if t, ok := ctx.Value(traceKey{}).(*Trace); ok {
		return t
	}
	return nil
}

// WithUser attaches the authenticated user to the context.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// GetUser returns the authenticated user from context, or nil.
func GetUser(ctx context.Context) *User {
	if u, ok := ctx.Value(userKey{}).(*User); ok {
		return u
	}
	return nil
}

// UserID returns the caller's id, or "" when unauthenticated.
func UserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}
