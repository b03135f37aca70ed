// Package identity carries the authenticated caller on the request context.
package identity

import "context"

// Identity is the caller derived from a verified session token.
type Identity struct {
	UserID   string
	UserType string
}

type contextKey struct{}

// With stores id in ctx.
func With(ctx context.Context, id Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, id)
}

// From returns the identity stored in ctx, if any.
func From(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok && id.UserID != ""
}

// Resolve reconciles a client-supplied actor id with the caller.
// Anonymous callers keep the supplied id; an authenticated caller fills an
// empty id and must match a non-empty one.
func Resolve(ctx context.Context, supplied string) (string, bool) {
	id, ok := From(ctx)
	if !ok {
		return supplied, true
	}
	if supplied == "" {
		return id.UserID, true
	}
	return supplied, supplied == id.UserID
}
