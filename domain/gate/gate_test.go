package gate

import (
	"testing"

	"github.com/nicheshunter/nicheshunter/domain/billing"
	"github.com/nicheshunter/nicheshunter/domain/entitlement"
)

func TestCheck_Save(t *testing.T) {
	tests := []struct {
		name string
		id   entitlement.Identity
		want Outcome
	}{
		{"anonymous", entitlement.Anonymous(), Unauthenticated},
		{"logged_in_no_subscription", entitlement.Identity{UserID: "u1", Status: billing.StatusNone}, SubscriptionRequired},
		{"canceled", entitlement.Identity{UserID: "u1", Status: billing.StatusCanceled}, SubscriptionRequired},
		{"past_due", entitlement.Identity{UserID: "u1", Status: billing.StatusPastDue}, SubscriptionRequired},
		{"active", entitlement.Identity{UserID: "u1", Status: billing.StatusActive}, Allowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Check(tt.id, ActionSave); got != tt.want {
				t.Errorf("Check(save) = %v, want %v", got, tt.want)
			}
			// Unsave carries the same entitlement requirement.
			if got := Check(tt.id, ActionUnsave); got != tt.want {
				t.Errorf("Check(unsave) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheck_Validate(t *testing.T) {
	// Validation is gated on entitlement, not on having an account: the
	// outcome must be the distinct subscription_required condition so
	// callers can route to an upgrade flow.
	if got := Check(entitlement.Anonymous(), ActionValidate); got != SubscriptionRequired {
		t.Errorf("anonymous validate = %v, want %v", got, SubscriptionRequired)
	}
	if got := Check(entitlement.Identity{UserID: "u1", Status: billing.StatusNone}, ActionValidate); got != SubscriptionRequired {
		t.Errorf("unsubscribed validate = %v, want %v", got, SubscriptionRequired)
	}
	if got := Check(entitlement.Identity{UserID: "u1", Status: billing.StatusActive}, ActionValidate); got != Allowed {
		t.Errorf("active validate = %v, want %v", got, Allowed)
	}
}

func TestCheck_CheckoutAlwaysAllowed(t *testing.T) {
	identities := []entitlement.Identity{
		entitlement.Anonymous(),
		{UserID: "u1", Status: billing.StatusNone},
		{UserID: "u1", Status: billing.StatusActive},
	}
	for _, id := range identities {
		if got := Check(id, ActionCheckout); got != Allowed {
			t.Errorf("identity %+v: checkout = %v, want allowed", id, got)
		}
	}
}

func TestCheck_UnknownActionFailsClosed(t *testing.T) {
	if got := Check(entitlement.Anonymous(), Action("bogus")); got != Unauthenticated {
		t.Errorf("unknown action for anonymous = %v, want unauthenticated", got)
	}
	if got := Check(entitlement.Identity{UserID: "u1", Status: billing.StatusActive}, Action("bogus")); got == Allowed {
		t.Errorf("unknown action must never be allowed")
	}
}

func TestCanSave(t *testing.T) {
	if CanSave(entitlement.Anonymous()) {
		t.Errorf("anonymous must not save")
	}
	if !CanSave(entitlement.Identity{UserID: "u1", Status: billing.StatusActive}) {
		t.Errorf("active subscriber must be able to save")
	}
}
