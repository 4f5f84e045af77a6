package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"ocmhub/pkg/domain"
)

func TestSQLiteStoreLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.db")
	store, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	if _, err := store.DB().Exec(`INSERT INTO state(bucket,payload) VALUES('workbench', '{not json')`); err != nil {
		t.Fatalf("corrupt bucket: %v", err)
	}
	_ = store.Close()

	if _, err := NewStore(path, domain.NewRulesEngine()); err == nil || !strings.Contains(err.Error(), "decode workbench") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestSQLiteStoreFailedTransactionSkipsPersist(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "skip.db"), domain.NewRulesEngine())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		return tx.DeleteHomeModule("missing")
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	var n int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no persisted rows, got %d", n)
	}
}

func TestSQLiteStorePersistAfterClose(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "closed.db"), domain.NewRulesEngine())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	_ = store.Close()
	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, e := tx.CreateHomeModule(domain.HomeModule{Title: "After close"})
		return e
	})
	if err == nil {
		t.Fatalf("expected persist error on closed database")
	}
}
