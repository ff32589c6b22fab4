package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/nicheshunter/nicheshunter/adapters/memory"
)

func TestSavedNicheStore_AddIsIdempotent(t *testing.T) {
	store := memory.NewSavedNicheStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Add(ctx, "user-1", "niche-1"); err != nil {
			t.Fatalf("Add #%d: %v", i, err)
		}
	}

	ids, err := store.ListFor(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("got %d rows after repeated adds, want 1", len(ids))
	}
}

func TestSavedNicheStore_ConcurrentDuplicateAdds(t *testing.T) {
	store := memory.NewSavedNicheStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Add(ctx, "user-1", "niche-1")
		}()
	}
	wg.Wait()

	ids, err := store.ListFor(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("got %d rows after concurrent adds, want 1", len(ids))
	}
}

func TestSavedNicheStore_RemoveReportsOwnership(t *testing.T) {
	store := memory.NewSavedNicheStore()
	ctx := context.Background()

	if err := store.Add(ctx, "user-1", "niche-1"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Another user removing the same niche touches nothing.
	removed, err := store.Remove(ctx, "user-2", "niche-1")
	if err != nil {
		t.Fatalf("Remove (wrong owner): %v", err)
	}
	if removed {
		t.Error("remove by non-owner reported true")
	}

	saved, _ := store.IsSaved(ctx, "user-1", "niche-1")
	if !saved {
		t.Error("owner's row vanished after a non-owner remove")
	}

	removed, err = store.Remove(ctx, "user-1", "niche-1")
	if err != nil {
		t.Fatalf("Remove (owner): %v", err)
	}
	if !removed {
		t.Error("remove by owner reported false")
	}

	// Removing again is a no-op.
	removed, _ = store.Remove(ctx, "user-1", "niche-1")
	if removed {
		t.Error("second remove reported true")
	}
}

func TestSavedNicheStore_ListForNewestFirst(t *testing.T) {
	store := memory.NewSavedNicheStore()
	ctx := context.Background()

	for _, id := range []string{"niche-a", "niche-b", "niche-c"} {
		if err := store.Add(ctx, "user-1", id); err != nil {
			t.Fatalf("Add %s: %v", id, err)
		}
	}
	_ = store.Add(ctx, "user-2", "niche-z")

	ids, err := store.ListFor(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	want := []string{"niche-c", "niche-b", "niche-a"}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestSavedNicheStore_IsSaved(t *testing.T) {
	store := memory.NewSavedNicheStore()
	ctx := context.Background()

	saved, err := store.IsSaved(ctx, "user-1", "niche-1")
	if err != nil {
		t.Fatalf("IsSaved: %v", err)
	}
	if saved {
		t.Error("empty store reported a saved niche")
	}

	_ = store.Add(ctx, "user-1", "niche-1")
	saved, _ = store.IsSaved(ctx, "user-1", "niche-1")
	if !saved {
		t.Error("IsSaved false after Add")
	}
}
