// Package identity resolves session credentials to a viewer identity.
package identity

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/nicheshunter/nicheshunter/adapters/auth"
	"github.com/nicheshunter/nicheshunter/domain/entitlement"
	"github.com/nicheshunter/nicheshunter/ports"
)

// Resolver implements ports.IdentityProvider on top of JWT sessions and
// the user store. Subscription status is read from the store on every
// call; the token itself never carries entitlement.
type Resolver struct {
	tokens *auth.TokenService
	users  ports.UserStore
	log    zerolog.Logger
}

// NewResolver creates a new identity resolver.
func NewResolver(tokens *auth.TokenService, users ports.UserStore, log zerolog.Logger) *Resolver {
	return &Resolver{tokens: tokens, users: users, log: log}
}

var _ ports.IdentityProvider = (*Resolver)(nil)

// Resolve maps a session token to an identity. Missing, invalid or stale
// credentials resolve to anonymous with a nil error; only store failures
// are reported as errors.
func (r *Resolver) Resolve(ctx context.Context, sessionToken string) (entitlement.Identity, error) {
	if sessionToken == "" {
		return entitlement.Anonymous(), nil
	}

	claims, err := r.tokens.Validate(sessionToken)
	if err != nil {
		// Bad or expired token is a normal anonymous visit, not an error.
		return entitlement.Anonymous(), nil
	}

	u, err := r.users.Get(ctx, claims.UserID)
	if errors.Is(err, ports.ErrNotFound) {
		// Token for a deleted account.
		r.log.Debug().Str("user_id", claims.UserID).Msg("session token for unknown user")
		return entitlement.Anonymous(), nil
	}
	if err != nil {
		return entitlement.Anonymous(), err
	}

	return entitlement.Identity{UserID: u.ID, Status: u.Status}, nil
}
