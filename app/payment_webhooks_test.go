package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nicheshunter/nicheshunter/adapters/clock"
	"github.com/nicheshunter/nicheshunter/adapters/idgen"
	"github.com/nicheshunter/nicheshunter/adapters/memory"
	"github.com/nicheshunter/nicheshunter/adapters/payment"
	"github.com/nicheshunter/nicheshunter/app"
	"github.com/nicheshunter/nicheshunter/domain/billing"
	"github.com/nicheshunter/nicheshunter/ports"
)

type webhookFixture struct {
	svc      *app.PaymentWebhookService
	users    *memory.UserStore
	subs     *memory.SubscriptionStore
	provider *payment.FakeProvider
}

func newWebhookFixture(t *testing.T) webhookFixture {
	t.Helper()
	users := memory.NewUserStore()
	subs := memory.NewSubscriptionStore()
	provider := payment.NewFakeProvider()

	svc := app.NewPaymentWebhookService(
		users, subs, provider,
		idgen.NewSequential("sub-"),
		clock.NewFake(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		nil,
		zerolog.Nop(),
	)

	_ = users.Create(context.Background(), ports.User{
		ID: "u1", Email: "a@example.com", StripeCustomerID: "cus_1", Status: billing.StatusNone,
	})

	return webhookFixture{svc: svc, users: users, subs: subs, provider: provider}
}

func TestHandleCheckoutCompleted_ActivatesUser(t *testing.T) {
	f := newWebhookFixture(t)
	ctx := context.Background()

	if err := f.svc.HandleCheckoutCompleted(ctx, "cus_1", "sub_stripe_1", "price_pro"); err != nil {
		t.Fatalf("HandleCheckoutCompleted: %v", err)
	}

	u, _ := f.users.Get(ctx, "u1")
	if u.Status != billing.StatusActive {
		t.Errorf("user status = %q, want active", u.Status)
	}

	sub, err := f.subs.GetByProviderID(ctx, "sub_stripe_1")
	if err != nil {
		t.Fatalf("subscription not recorded: %v", err)
	}
	if sub.UserID != "u1" || sub.Status != billing.StatusActive {
		t.Errorf("subscription = %+v", sub)
	}
}

func TestHandleCheckoutCompleted_ReplayIsIdempotent(t *testing.T) {
	f := newWebhookFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := f.svc.HandleCheckoutCompleted(ctx, "cus_1", "sub_stripe_1", "price_pro"); err != nil {
			t.Fatalf("delivery #%d: %v", i, err)
		}
	}

	// Still exactly one subscription for the provider ID.
	if _, err := f.subs.GetByProviderID(ctx, "sub_stripe_1"); err != nil {
		t.Fatalf("GetByProviderID: %v", err)
	}
}

func TestHandleCheckoutCompleted_UnknownCustomer(t *testing.T) {
	f := newWebhookFixture(t)

	err := f.svc.HandleCheckoutCompleted(context.Background(), "cus_ghost", "sub_x", "price_pro")
	if err == nil {
		t.Error("expected error for unknown customer")
	}
}

func TestHandleSubscriptionUpdated_SyncsUserStatus(t *testing.T) {
	f := newWebhookFixture(t)
	ctx := context.Background()

	_ = f.svc.HandleCheckoutCompleted(ctx, "cus_1", "sub_stripe_1", "price_pro")

	if err := f.svc.HandleSubscriptionUpdated(ctx, "sub_stripe_1", billing.StatusPastDue); err != nil {
		t.Fatalf("HandleSubscriptionUpdated: %v", err)
	}

	u, _ := f.users.Get(ctx, "u1")
	if u.Status != billing.StatusPastDue {
		t.Errorf("user status = %q, want past_due", u.Status)
	}
	// Past due does not grant entitlement.
	if u.Status.Grants() {
		t.Error("past_due status grants entitlement")
	}
}

func TestHandleSubscriptionCanceled_DowngradesUser(t *testing.T) {
	f := newWebhookFixture(t)
	ctx := context.Background()

	_ = f.svc.HandleCheckoutCompleted(ctx, "cus_1", "sub_stripe_1", "price_pro")

	if err := f.svc.HandleSubscriptionCanceled(ctx, "sub_stripe_1"); err != nil {
		t.Fatalf("HandleSubscriptionCanceled: %v", err)
	}

	u, _ := f.users.Get(ctx, "u1")
	if u.Status != billing.StatusCanceled {
		t.Errorf("user status = %q, want canceled", u.Status)
	}

	sub, _ := f.subs.GetByProviderID(ctx, "sub_stripe_1")
	if sub.CanceledAt == nil {
		t.Error("CanceledAt not set")
	}
}

func TestProcessWebhook_Dispatch(t *testing.T) {
	f := newWebhookFixture(t)
	ctx := context.Background()

	f.provider.WebhookEvent = "checkout.session.completed"
	f.provider.WebhookData = map[string]any{
		"customer":     "cus_1",
		"subscription": "sub_stripe_1",
	}

	if err := f.svc.ProcessWebhook(ctx, []byte("{}"), "sig"); err != nil {
		t.Fatalf("ProcessWebhook: %v", err)
	}

	u, _ := f.users.Get(ctx, "u1")
	if u.Status != billing.StatusActive {
		t.Errorf("user status = %q, want active", u.Status)
	}
}

func TestProcessWebhook_InvoiceEvents(t *testing.T) {
	f := newWebhookFixture(t)
	ctx := context.Background()

	if err := f.svc.HandleCheckoutCompleted(ctx, "cus_1", "sub_stripe_1", "price_pro"); err != nil {
		t.Fatalf("HandleCheckoutCompleted: %v", err)
	}

	f.provider.WebhookEvent = "invoice.payment_failed"
	f.provider.WebhookData = map[string]any{"subscription": "sub_stripe_1"}
	if err := f.svc.ProcessWebhook(ctx, []byte("{}"), "sig"); err != nil {
		t.Fatalf("invoice.payment_failed: %v", err)
	}
	u, _ := f.users.Get(ctx, "u1")
	if u.Status != billing.StatusPastDue {
		t.Errorf("after failed invoice status = %q, want past_due", u.Status)
	}

	f.provider.WebhookEvent = "invoice.paid"
	if err := f.svc.ProcessWebhook(ctx, []byte("{}"), "sig"); err != nil {
		t.Fatalf("invoice.paid: %v", err)
	}
	u, _ = f.users.Get(ctx, "u1")
	if u.Status != billing.StatusActive {
		t.Errorf("after paid invoice status = %q, want active", u.Status)
	}
}

func TestProcessWebhook_BadSignature(t *testing.T) {
	f := newWebhookFixture(t)

	// FakeProvider with no configured event rejects like a bad signature.
	err := f.svc.ProcessWebhook(context.Background(), []byte("{}"), "bad")
	if !errors.Is(err, app.ErrBadSignature) {
		t.Errorf("ProcessWebhook = %v, want ErrBadSignature", err)
	}
}

func TestProcessWebhook_IgnoresUnknownEvents(t *testing.T) {
	f := newWebhookFixture(t)

	f.provider.WebhookEvent = "invoice.finalized"
	if err := f.svc.ProcessWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Errorf("unknown event = %v, want nil", err)
	}
}
