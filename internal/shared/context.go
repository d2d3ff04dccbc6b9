package shared

import "context"

// Identity is the caller attached to a request by the access guard.
type Identity struct {
	SubjectID  string `json:"userId"`
	SubjectKey string `json:"userKey"`
	Role       string `json:"role"`
}

type identityContextKey struct{}

// ContextWithIdentity stores the caller identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the caller identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
