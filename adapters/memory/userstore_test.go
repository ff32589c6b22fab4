package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nicheshunter/nicheshunter/adapters/memory"
	"github.com/nicheshunter/nicheshunter/domain/billing"
	"github.com/nicheshunter/nicheshunter/ports"
)

func TestUserStore_CreateAndGet(t *testing.T) {
	store := memory.NewUserStore()
	ctx := context.Background()

	u := ports.User{
		ID:        "user-001",
		Email:     "hunter@example.com",
		Name:      "Hunter",
		Status:    billing.StatusNone,
		CreatedAt: time.Now(),
	}
	if err := store.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, "user-001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Email != u.Email {
		t.Errorf("Email = %q, want %q", got.Email, u.Email)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
}

func TestUserStore_GetByEmailCaseInsensitive(t *testing.T) {
	store := memory.NewUserStore()
	ctx := context.Background()

	if err := store.Create(ctx, ports.User{ID: "u1", Email: "Hunter@Example.com"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.GetByEmail(ctx, "hunter@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != "u1" {
		t.Errorf("ID = %q, want u1", got.ID)
	}
}

func TestUserStore_DuplicateEmailRejected(t *testing.T) {
	store := memory.NewUserStore()
	ctx := context.Background()

	if err := store.Create(ctx, ports.User{ID: "u1", Email: "a@example.com"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := store.Create(ctx, ports.User{ID: "u2", Email: "A@EXAMPLE.COM"})
	if !errors.Is(err, ports.ErrDuplicate) {
		t.Errorf("duplicate email Create = %v, want ErrDuplicate", err)
	}
}

func TestUserStore_GetByCustomerID(t *testing.T) {
	store := memory.NewUserStore()
	ctx := context.Background()

	_ = store.Create(ctx, ports.User{ID: "u1", Email: "a@example.com", StripeCustomerID: "cus_123"})
	_ = store.Create(ctx, ports.User{ID: "u2", Email: "b@example.com"})

	got, err := store.GetByCustomerID(ctx, "cus_123")
	if err != nil {
		t.Fatalf("GetByCustomerID: %v", err)
	}
	if got.ID != "u1" {
		t.Errorf("ID = %q, want u1", got.ID)
	}

	// Empty customer ID must not match users without one.
	if _, err := store.GetByCustomerID(ctx, ""); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("GetByCustomerID(\"\") = %v, want ErrNotFound", err)
	}
}

func TestUserStore_Update(t *testing.T) {
	store := memory.NewUserStore()
	ctx := context.Background()

	_ = store.Create(ctx, ports.User{ID: "u1", Email: "a@example.com", Status: billing.StatusNone})

	u, _ := store.Get(ctx, "u1")
	u.Status = billing.StatusActive
	if err := store.Update(ctx, u); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := store.Get(ctx, "u1")
	if got.Status != billing.StatusActive {
		t.Errorf("Status = %q, want active", got.Status)
	}

	err := store.Update(ctx, ports.User{ID: "missing"})
	if !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("Update(missing) = %v, want ErrNotFound", err)
	}
}

func TestUserStore_ListNewestFirst(t *testing.T) {
	store := memory.NewUserStore()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = store.Create(ctx, ports.User{ID: "u1", Email: "a@example.com", CreatedAt: base})
	_ = store.Create(ctx, ports.User{ID: "u2", Email: "b@example.com", CreatedAt: base.Add(time.Hour)})
	_ = store.Create(ctx, ports.User{ID: "u3", Email: "c@example.com", CreatedAt: base.Add(2 * time.Hour)})

	users, err := store.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 || users[0].ID != "u3" || users[1].ID != "u2" {
		t.Errorf("List(2,0) = %+v, want u3 then u2", users)
	}

	rest, err := store.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("List offset: %v", err)
	}
	if len(rest) != 1 || rest[0].ID != "u1" {
		t.Errorf("List(2,2) = %+v, want u1", rest)
	}
}

func TestUserStore_Count(t *testing.T) {
	store := memory.NewUserStore()
	ctx := context.Background()

	_ = store.Create(ctx, ports.User{ID: "u1", Email: "a@example.com"})
	_ = store.Create(ctx, ports.User{ID: "u2", Email: "b@example.com"})

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}
