package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"ocmhub/internal/infra/persistence/memory"
	"ocmhub/pkg/domain"
)

func TestSQLiteStorePersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	var itemID string
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		g, err := tx.CreateWorkbenchGroup(domain.WorkbenchGroup{Title: "Delivery"})
		if err != nil {
			return err
		}
		it, err := tx.CreateWorkbenchItem(g.ID, domain.WorkbenchItem{Title: "Persist"})
		itemID = it.ID
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	version := store.Version()
	_ = store.Close()

	reloaded, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	t.Cleanup(func() { _ = reloaded.Close() })
	snap := reloaded.Current()
	if len(snap.Workbench) != 1 || len(snap.Workbench[0].Items) != 1 {
		t.Fatalf("expected persisted workbench, got %+v", snap.Workbench)
	}
	if snap.Projects[itemID].Name != "Persist" {
		t.Fatalf("expected persisted project for %s", itemID)
	}
	if reloaded.Version() != version {
		t.Fatalf("expected version %d after reload, got %d", version, reloaded.Version())
	}
	if reloaded.Path() != path {
		t.Fatalf("unexpected path %s", reloaded.Path())
	}
}

func TestSQLiteStoreWritesEveryBucket(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "state.db"), nil)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.ImportState(domain.Snapshot{HomeModules: []domain.HomeModule{{Title: "Reports"}}}); err != nil {
		t.Fatalf("import: %v", err)
	}
	for _, bucket := range memory.Buckets {
		var n int
		if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state WHERE bucket = ?`, bucket).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", bucket, err)
		}
		if n != 1 {
			t.Fatalf("expected bucket %s to be written", bucket)
		}
	}
}
