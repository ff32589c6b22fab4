package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nicheshunter/nicheshunter/adapters/memory"
	"github.com/nicheshunter/nicheshunter/adapters/payment"
	"github.com/nicheshunter/nicheshunter/app"
	"github.com/nicheshunter/nicheshunter/ports"
)

func newCheckoutService(t *testing.T) (*app.CheckoutService, *memory.UserStore, *payment.FakeProvider) {
	t.Helper()
	users := memory.NewUserStore()
	provider := payment.NewFakeProvider()
	svc := app.NewCheckoutService(users, provider, "price_pro", "https://niches.example.com", nil, zerolog.Nop())
	return svc, users, provider
}

func TestStartCheckout_CreatesCustomerOnce(t *testing.T) {
	svc, users, provider := newCheckoutService(t)
	ctx := context.Background()

	_ = users.Create(ctx, ports.User{ID: "u-free", Email: "a@example.com"})

	url, err := svc.StartCheckout(ctx, freeUser)
	if err != nil {
		t.Fatalf("StartCheckout: %v", err)
	}
	if !strings.Contains(url, "price_pro") {
		t.Errorf("checkout URL %q missing price", url)
	}

	u, _ := users.Get(ctx, "u-free")
	if u.StripeCustomerID == "" {
		t.Fatal("customer ID not persisted")
	}
	first := u.StripeCustomerID

	// Second checkout reuses the stored customer.
	if _, err := svc.StartCheckout(ctx, freeUser); err != nil {
		t.Fatalf("second StartCheckout: %v", err)
	}
	if len(provider.CreatedCustomers) != 1 {
		t.Errorf("created %d customers, want 1", len(provider.CreatedCustomers))
	}
	u, _ = users.Get(ctx, "u-free")
	if u.StripeCustomerID != first {
		t.Error("customer ID changed between checkouts")
	}
}

func TestStartCheckout_RequiresUser(t *testing.T) {
	svc, _, _ := newCheckoutService(t)

	if _, err := svc.StartCheckout(context.Background(), anon); !errors.Is(err, app.ErrUnauthenticated) {
		t.Errorf("anonymous checkout = %v, want ErrUnauthenticated", err)
	}
}

func TestStartPortal(t *testing.T) {
	svc, users, _ := newCheckoutService(t)
	ctx := context.Background()

	_ = users.Create(ctx, ports.User{ID: "u-sub", Email: "s@example.com", StripeCustomerID: "cus_existing"})

	url, err := svc.StartPortal(ctx, subscriber)
	if err != nil {
		t.Fatalf("StartPortal: %v", err)
	}
	if !strings.Contains(url, "cus_existing") {
		t.Errorf("portal URL %q missing customer", url)
	}
}

func TestStartPortal_NoCustomer(t *testing.T) {
	svc, users, _ := newCheckoutService(t)
	ctx := context.Background()

	_ = users.Create(ctx, ports.User{ID: "u-free", Email: "a@example.com"})

	if _, err := svc.StartPortal(ctx, freeUser); !errors.Is(err, app.ErrNotFound) {
		t.Errorf("portal without customer = %v, want ErrNotFound", err)
	}
}
