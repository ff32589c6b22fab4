package entitlement

import (
	"reflect"
	"testing"

	"github.com/nicheshunter/nicheshunter/domain/billing"
	"github.com/nicheshunter/nicheshunter/domain/catalog"
)

func fullNiche() catalog.Niche {
	return catalog.Niche{
		ID:          "n-42",
		DisplayCode: "9999",
		Title:       "AI Meal Planner",
		Category:    "Health",
		Tags:        []string{"ai", "b2c"},
		Score:       8.4,
		SourceType:  "trending",
		Stats: catalog.Stats{
			Competition:    "medium",
			RevenueBracket: "$5K-$10K/mo",
			MarketSize:     "large",
			TimeToMVP:      "6 weeks",
			Difficulty:     4,
		},
		Analysis: catalog.Analysis{
			Opportunity:         "meal planning apps ignore allergies",
			Gap:                 "no allergy-first planner",
			Move:                "launch allergy-focused MVP",
			MarketAnalysis:      "crowded top, empty niche bottom",
			KeyLearnings:        []string{"retention beats acquisition"},
			Improvements:        []string{"barcode scanning"},
			MarketingStrategies: []string{"ASO on allergy keywords"},
			TechStack:           []string{"react-native", "supabase"},
			Risks:               []string{"big player copies feature"},
			TrendingApps:        []string{"MealMate"},
			ASOKeywords:         []string{"allergy meal plan"},
		},
	}
}

// -----------------------------------------------------------------------------
// Resolve
// -----------------------------------------------------------------------------

func TestResolve_ActiveSubscriberGetsFullItem(t *testing.T) {
	n := fullNiche()
	id := Identity{UserID: "user-1", Status: billing.StatusActive}

	d := Resolve(id, n)

	if !d.Unlocked {
		t.Fatalf("expected Unlocked=true for active subscriber")
	}
	if !reflect.DeepEqual(d.Niche, n) {
		t.Errorf("expected item returned unmodified for active subscriber")
	}
}

func TestResolve_FreeTierUnlocksForAnyIdentity(t *testing.T) {
	n := fullNiche()
	n.DisplayCode = "0110"
	n.FreeTier = true

	identities := []Identity{
		Anonymous(),
		{UserID: "user-1", Status: billing.StatusNone},
		{UserID: "user-2", Status: billing.StatusCanceled},
		{UserID: "user-3", Status: billing.StatusPastDue},
		{UserID: "user-4", Status: billing.StatusActive},
	}

	for _, id := range identities {
		d := Resolve(id, n)
		if !d.Unlocked {
			t.Errorf("identity %+v: expected free-tier item unlocked", id)
		}
		if !reflect.DeepEqual(d.Niche, n) {
			t.Errorf("identity %+v: expected full content for free-tier item", id)
		}
	}
}

func TestResolve_LockedForNonActiveStatuses(t *testing.T) {
	n := fullNiche()

	statuses := []billing.SubscriptionStatus{
		billing.StatusNone,
		billing.StatusCanceled,
		billing.StatusPastDue,
	}

	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			d := Resolve(Identity{UserID: "user-1", Status: status}, n)
			if d.Unlocked {
				t.Fatalf("expected locked for status %q", status)
			}
			if d.Niche.HasAnalysis() {
				t.Errorf("locked projection must carry no narrative fields")
			}
		})
	}
}

func TestResolve_AnonymousViewerLockedProjection(t *testing.T) {
	n := fullNiche()

	d := Resolve(Anonymous(), n)

	if d.Unlocked {
		t.Fatalf("expected locked for anonymous viewer")
	}
	// Summary fields survive.
	if d.Niche.DisplayCode != "9999" {
		t.Errorf("expected display code retained, got %q", d.Niche.DisplayCode)
	}
	if d.Niche.Score != 8.4 {
		t.Errorf("expected score retained, got %v", d.Niche.Score)
	}
	if d.Niche.Stats.Competition != "medium" {
		t.Errorf("expected competition stat retained, got %q", d.Niche.Stats.Competition)
	}
	if d.Niche.Stats.RevenueBracket != "$5K-$10K/mo" {
		t.Errorf("expected revenue bracket retained, got %q", d.Niche.Stats.RevenueBracket)
	}
	// Narrative fields withheld entirely.
	if d.Niche.Analysis.Opportunity != "" {
		t.Errorf("opportunity leaked into locked projection: %q", d.Niche.Analysis.Opportunity)
	}
	if d.Niche.Analysis.MarketAnalysis != "" {
		t.Errorf("market analysis leaked into locked projection")
	}
	if len(d.Niche.Analysis.ASOKeywords) != 0 {
		t.Errorf("ASO keywords leaked into locked projection")
	}
}

func TestResolve_TotalForZeroValues(t *testing.T) {
	// Must not panic and must return a locked decision for zero inputs.
	d := Resolve(Identity{}, catalog.Niche{})
	if d.Unlocked {
		t.Errorf("expected locked decision for zero-value inputs")
	}
}

// -----------------------------------------------------------------------------
// Redact
// -----------------------------------------------------------------------------

func TestRedact_DropsEveryNarrativeField(t *testing.T) {
	r := Redact(fullNiche())

	if r.HasAnalysis() {
		t.Fatalf("redacted niche still has analysis: %+v", r.Analysis)
	}
	var zero catalog.Analysis
	if !reflect.DeepEqual(r.Analysis, zero) {
		t.Errorf("expected zero analysis, got %+v", r.Analysis)
	}
}

func TestRedact_RetainsSummary(t *testing.T) {
	n := fullNiche()
	r := Redact(n)

	if r.ID != n.ID || r.DisplayCode != n.DisplayCode || r.Title != n.Title {
		t.Errorf("identity fields must survive redaction")
	}
	if !reflect.DeepEqual(r.Stats, n.Stats) {
		t.Errorf("stats must survive redaction")
	}
	if !reflect.DeepEqual(r.Tags, n.Tags) {
		t.Errorf("tags must survive redaction")
	}
}

// -----------------------------------------------------------------------------
// ResolveAll
// -----------------------------------------------------------------------------

func TestResolveAll_IndependentPerItem(t *testing.T) {
	free := fullNiche()
	free.DisplayCode = "0110"
	free.FreeTier = true
	paid := fullNiche()

	decisions := ResolveAll(Identity{UserID: "u", Status: billing.StatusNone}, []catalog.Niche{free, paid})

	if len(decisions) != 2 {
		t.Fatalf("expected 2 decisions, got %d", len(decisions))
	}
	if !decisions[0].Unlocked {
		t.Errorf("free-tier item should be unlocked")
	}
	if decisions[1].Unlocked {
		t.Errorf("paid item should be locked")
	}
	if decisions[1].Niche.HasAnalysis() {
		t.Errorf("locked item in listing leaked narrative fields")
	}
}

func TestResolveAll_EmptyList(t *testing.T) {
	decisions := ResolveAll(Anonymous(), nil)
	if len(decisions) != 0 {
		t.Errorf("expected no decisions for empty list, got %d", len(decisions))
	}
}

// -----------------------------------------------------------------------------
// Identity helpers
// -----------------------------------------------------------------------------

func TestIdentity_IsAnonymous(t *testing.T) {
	if !Anonymous().IsAnonymous() {
		t.Errorf("Anonymous() should be anonymous")
	}
	if (Identity{UserID: "u"}).IsAnonymous() {
		t.Errorf("identity with user id should not be anonymous")
	}
}

func TestIdentity_Entitled(t *testing.T) {
	if (Identity{Status: billing.StatusCanceled}).Entitled() {
		t.Errorf("canceled should not be entitled")
	}
	if !(Identity{Status: billing.StatusActive}).Entitled() {
		t.Errorf("active should be entitled")
	}
}
