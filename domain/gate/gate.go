// Package gate provides pure pre-checks for mutating actions.
// Every check fails closed and returns a typed outcome so callers can
// distinguish "subscribe to proceed" from plain authentication failures.
//
// Checks run against a freshly resolved identity at the time of the
// mutating call; a decision cached at page load is never trusted, because
// subscription state can change between render and action.
package gate

import "github.com/nicheshunter/nicheshunter/domain/entitlement"

// Outcome is the result of an action gate check.
type Outcome string

const (
	Allowed              Outcome = "allowed"
	Unauthenticated      Outcome = "unauthenticated"       // no user identity present
	SubscriptionRequired Outcome = "subscription_required" // identified but not entitled
)

// Action is a gated mutating action.
type Action string

const (
	ActionSave     Action = "save"
	ActionUnsave   Action = "unsave"
	ActionValidate Action = "validate"
	ActionCheckout Action = "checkout"
)

// Check evaluates whether the identity may perform the action.
// This is a PURE function.
func Check(id entitlement.Identity, action Action) Outcome {
	switch action {
	case ActionSave, ActionUnsave:
		// Saving requires both a user and paid entitlement.
		if id.IsAnonymous() {
			return Unauthenticated
		}
		if !id.Entitled() {
			return SubscriptionRequired
		}
		return Allowed

	case ActionValidate:
		// Validation past the free preview steps requires entitlement
		// only; the caller applies the free-step allowance first.
		if !id.Entitled() {
			return SubscriptionRequired
		}
		return Allowed

	case ActionCheckout:
		// Checkout is how non-subscribers become subscribers.
		return Allowed

	default:
		// Unknown actions fail closed.
		if id.IsAnonymous() {
			return Unauthenticated
		}
		return SubscriptionRequired
	}
}

// CanSave reports whether the identity may save or unsave a niche.
func CanSave(id entitlement.Identity) bool {
	return Check(id, ActionSave) == Allowed
}
