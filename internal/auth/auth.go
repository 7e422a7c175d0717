// Package auth carries the requesting identity through a request context.
//
// There is no authentication: every request is given the same placeholder
// identity from configuration.
package auth

import "context"

// DefaultIdentity is used when no identity is configured.
const DefaultIdentity = "anonymous"

// Identity describes who is making a request.
type Identity struct {
	Name string
}

type key struct{}

// WithIdentity returns a new context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, key{}, id)
}

// FromContext returns the identity stored in ctx, or the default identity.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(key{}).(Identity); ok {
		return id
	}
	return Identity{Name: DefaultIdentity}
}
