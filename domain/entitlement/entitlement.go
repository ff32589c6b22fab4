// Package entitlement decides what a viewer may see of a catalog niche.
// All functions are pure and total: they never fail, never touch I/O, and
// always produce a decision, including for anonymous viewers.
//
// Redaction happens here, at the data boundary. A locked projection omits
// narrative fields entirely rather than truncating or blurring them, so no
// gated content ever reaches the client payload.
package entitlement

import (
	"github.com/nicheshunter/nicheshunter/domain/billing"
	"github.com/nicheshunter/nicheshunter/domain/catalog"
)

// Identity is the viewer's resolved authentication state.
// The zero value is a valid anonymous identity.
type Identity struct {
	UserID string // empty for anonymous viewers
	Status billing.SubscriptionStatus
}

// Anonymous returns the identity for an unauthenticated request.
func Anonymous() Identity {
	return Identity{Status: billing.StatusNone}
}

// IsAnonymous reports whether the identity carries no user.
func (id Identity) IsAnonymous() bool {
	return id.UserID == ""
}

// Entitled reports whether the identity holds paid entitlement.
func (id Identity) Entitled() bool {
	return id.Status.Grants()
}

// Decision is the computed outcome for one (identity, niche) pair.
// It is never persisted; it is recomputed on every request.
type Decision struct {
	Unlocked bool
	Niche    catalog.Niche // full item if unlocked, redacted projection otherwise
}

// Resolve computes the entitlement decision for a viewer and a niche.
// A niche unlocks when the viewer has an active subscription, or when the
// niche itself is free-tier (regardless of subscription state, including
// anonymous viewers). This is a PURE function.
func Resolve(id Identity, n catalog.Niche) Decision {
	if id.Entitled() || n.FreeTier {
		return Decision{Unlocked: true, Niche: n}
	}
	return Decision{Unlocked: false, Niche: Redact(n)}
}

// ResolveAll applies Resolve independently to each niche.
// This is a PURE function.
func ResolveAll(id Identity, niches []catalog.Niche) []Decision {
	decisions := make([]Decision, 0, len(niches))
	for _, n := range niches {
		decisions = append(decisions, Resolve(id, n))
	}
	return decisions
}

// Redact returns the locked projection of a niche: identity, summary and
// non-narrative stats survive; every narrative field is dropped.
// This is a PURE function.
func Redact(n catalog.Niche) catalog.Niche {
	return catalog.Niche{
		ID:          n.ID,
		DisplayCode: n.DisplayCode,
		Title:       n.Title,
		Category:    n.Category,
		Tags:        n.Tags,
		Score:       n.Score,
		SourceType:  n.SourceType,
		FreeTier:    n.FreeTier,
		Stats:       n.Stats,
		// Analysis intentionally zero
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
