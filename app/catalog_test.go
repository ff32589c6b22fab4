package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nicheshunter/nicheshunter/adapters/memory"
	"github.com/nicheshunter/nicheshunter/app"
	"github.com/nicheshunter/nicheshunter/domain/billing"
	"github.com/nicheshunter/nicheshunter/domain/catalog"
	"github.com/nicheshunter/nicheshunter/domain/entitlement"
	"github.com/nicheshunter/nicheshunter/domain/revenue"
)

func seededCatalog(t *testing.T) *memory.CatalogStore {
	t.Helper()
	store := memory.NewCatalogStore()
	ctx := context.Background()

	niches := []catalog.Niche{
		{
			ID: "n1", DisplayCode: "NH-001", Title: "Pet Meal Planner", Category: "lifestyle", Score: 72, FreeTier: true,
			Stats:    catalog.Stats{RevenueBracket: "$1K-$5K/mo"},
			Analysis: catalog.Analysis{Opportunity: "free insight", Gap: "gap", Move: "move"},
		},
		{
			ID: "n2", DisplayCode: "NH-002", Title: "Van Life Router", Category: "travel", Score: 91,
			Stats:    catalog.Stats{RevenueBracket: "$10K-$50K/mo"},
			Analysis: catalog.Analysis{Opportunity: "paid insight", Gap: "gap", Move: "move"},
		},
	}
	for _, n := range niches {
		if err := store.Create(ctx, n); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	return store
}

var (
	anon       = entitlement.Anonymous()
	freeUser   = entitlement.Identity{UserID: "u-free", Status: billing.StatusNone}
	subscriber = entitlement.Identity{UserID: "u-sub", Status: billing.StatusActive}
)

func TestCatalogList_PerItemDecisions(t *testing.T) {
	svc := app.NewCatalogService(seededCatalog(t), nil, zerolog.Nop())
	ctx := context.Background()

	decisions, err := svc.List(ctx, freeUser, app.ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(decisions) != 2 {
		t.Fatalf("got %d decisions, want 2", len(decisions))
	}

	// Score-descending order: paid niche first.
	if decisions[0].Niche.DisplayCode != "NH-002" {
		t.Errorf("first = %q, want NH-002", decisions[0].Niche.DisplayCode)
	}
	if decisions[0].Unlocked {
		t.Error("paid niche unlocked for free user")
	}
	if decisions[0].Niche.Analysis.Opportunity != "" {
		t.Error("locked niche leaked analysis")
	}

	if !decisions[1].Unlocked {
		t.Error("free-tier niche locked")
	}
	if decisions[1].Niche.Analysis.Opportunity != "free insight" {
		t.Error("free-tier analysis missing")
	}
}

func TestCatalogList_SubscriberSeesEverything(t *testing.T) {
	svc := app.NewCatalogService(seededCatalog(t), nil, zerolog.Nop())

	decisions, err := svc.List(context.Background(), subscriber, app.ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, d := range decisions {
		if !d.Unlocked {
			t.Errorf("niche %s locked for subscriber", d.Niche.DisplayCode)
		}
		if d.Niche.Analysis.Opportunity == "" {
			t.Errorf("niche %s analysis redacted for subscriber", d.Niche.DisplayCode)
		}
	}
}

func TestCatalogList_Filters(t *testing.T) {
	svc := app.NewCatalogService(seededCatalog(t), nil, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name   string
		filter app.ListFilter
		want   []string
	}{
		{"category case-insensitive", app.ListFilter{Category: "Travel"}, []string{"NH-002"}},
		{"free tier only", app.ListFilter{FreeOnly: true}, []string{"NH-001"}},
		{"revenue band", app.ListFilter{Revenue: &revenue.Bracket{Low: 20000, High: 20000}}, []string{"NH-002"}},
		{"no match", app.ListFilter{Category: "games"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decisions, err := svc.List(ctx, anon, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(decisions) != len(tt.want) {
				t.Fatalf("got %d decisions, want %d", len(decisions), len(tt.want))
			}
			for i, d := range decisions {
				if d.Niche.DisplayCode != tt.want[i] {
					t.Errorf("got[%d] = %s, want %s", i, d.Niche.DisplayCode, tt.want[i])
				}
			}
		})
	}
}

func TestCatalogGetByCode_NotFoundVsLocked(t *testing.T) {
	svc := app.NewCatalogService(seededCatalog(t), nil, zerolog.Nop())
	ctx := context.Background()

	// Unknown code is a 404 condition.
	if _, err := svc.GetByCode(ctx, anon, "NH-999"); !errors.Is(err, app.ErrNotFound) {
		t.Errorf("unknown code = %v, want ErrNotFound", err)
	}

	// Known but locked code is a successful, redacted decision.
	d, err := svc.GetByCode(ctx, anon, "NH-002")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if d.Unlocked {
		t.Error("locked niche reported unlocked")
	}
	if d.Niche.Title != "Van Life Router" {
		t.Errorf("redacted projection lost title: %q", d.Niche.Title)
	}
	if d.Niche.Analysis.Opportunity != "" {
		t.Error("redacted projection leaked analysis")
	}
}
