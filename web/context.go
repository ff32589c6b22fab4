package web

import (
	"context"

	"github.com/nicheshunter/nicheshunter/domain/entitlement"
)

type ctxKey string

const identityKey ctxKey = "identity"

func withIdentity(ctx context.Context, id entitlement.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// identityFrom returns the caller identity resolved by the session
// middleware. Requests that never passed through the middleware are
// treated as anonymous.
func identityFrom(ctx context.Context) entitlement.Identity {
	if id, ok := ctx.Value(identityKey).(entitlement.Identity); ok {
		return id
	}
	return entitlement.Anonymous()
}
