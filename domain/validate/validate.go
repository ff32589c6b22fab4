// Package validate provides the step gating for the AI idea validator.
// The validator walks a fixed sequence of analysis steps; the first few
// are free previews, the rest require an active subscription.
package validate

import "github.com/nicheshunter/nicheshunter/domain/entitlement"

// Steps is the ordered validator flow.
var Steps = []string{
	"market_demand",
	"competition_scan",
	"monetization_fit",
	"differentiation",
	"verdict",
}

// DefaultFreeSteps is how many leading steps are free for everyone.
const DefaultFreeSteps = 2

// Outcome of a step gate check.
type Outcome string

const (
	Allowed              Outcome = "allowed"
	SubscriptionRequired Outcome = "subscription_required"
	UnknownStep          Outcome = "unknown_step"
)

// Gate holds the validator gating policy (value type).
type Gate struct {
	FreeSteps int
}

// NewGate returns a gate allowing the given number of free preview steps,
// falling back to DefaultFreeSteps for negative values.
func NewGate(freeSteps int) Gate {
	if freeSteps < 0 {
		freeSteps = DefaultFreeSteps
	}
	return Gate{FreeSteps: freeSteps}
}

// CheckStep decides whether the identity may run the step at the given
// index. Steps below FreeSteps are free for everyone, including anonymous
// viewers; beyond that an active subscription is required, and the outcome
// is the distinct SubscriptionRequired condition so callers can route to
// an upgrade path instead of a generic error. This is a PURE function.
func (g Gate) CheckStep(id entitlement.Identity, stepIndex int) Outcome {
	if stepIndex < 0 || stepIndex >= len(Steps) {
		return UnknownStep
	}
	if stepIndex < g.FreeSteps {
		return Allowed
	}
	if id.Entitled() {
		return Allowed
	}
	return SubscriptionRequired
}

// FreePreview returns the names of the free preview steps.
func (g Gate) FreePreview() []string {
	n := g.FreeSteps
	if n > len(Steps) {
		n = len(Steps)
	}
	return Steps[:n]
}
