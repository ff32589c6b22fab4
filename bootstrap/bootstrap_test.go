package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/nicheshunter/nicheshunter/adapters/sqlite"
	"github.com/nicheshunter/nicheshunter/domain/catalog"
	"github.com/nicheshunter/nicheshunter/domain/entitlement"
)

func writeAppConfig(t *testing.T, path, dsn string, spinLimit, freeSteps int) {
	t.Helper()
	content := fmt.Sprintf(
		"database:\n  dsn: %q\ntools:\n  spin_limit: %d\n  free_valid_steps: %d\n",
		dsn, spinLimit, freeSteps)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestHotReloadAppliesToolSettings(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	dsn := filepath.Join(dir, "app.db")
	writeAppConfig(t, cfgPath, dsn, 2, 1)

	a, err := NewWithHotReload(cfgPath)
	if err != nil {
		t.Fatalf("NewWithHotReload: %v", err)
	}
	defer a.Shutdown()

	ctx := context.Background()
	store := sqlite.NewCatalogStore(a.DB)
	if err := store.Create(ctx, catalog.Niche{
		ID: "n1", DisplayCode: "0001", Title: "Plant care reminders", FreeTier: true,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	anon := entitlement.Anonymous()

	res, err := a.spinSvc.Spin(ctx, anon, 2)
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}
	if !res.Limited {
		t.Fatal("count at spin_limit 2 not limited")
	}
	if got := len(a.validation.Flow().FreePreview); got != 1 {
		t.Fatalf("free preview steps = %d, want 1", got)
	}

	// Raise the limits and reload through the holder, as SIGHUP would.
	writeAppConfig(t, cfgPath, dsn, 10, 3)
	if err := a.holder.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	res, err = a.spinSvc.Spin(ctx, anon, 2)
	if err != nil {
		t.Fatalf("Spin after reload: %v", err)
	}
	if res.Limited {
		t.Error("spin_limit 10 not applied after reload")
	}
	if res.Decision.Niche.DisplayCode != "0001" {
		t.Errorf("drew %q, want 0001", res.Decision.Niche.DisplayCode)
	}
	if got := len(a.validation.Flow().FreePreview); got != 3 {
		t.Errorf("free preview steps after reload = %d, want 3", got)
	}
}
