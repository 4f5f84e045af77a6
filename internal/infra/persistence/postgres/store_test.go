package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"ocmhub/internal/infra/persistence/memory"
	"ocmhub/internal/infra/persistence/postgres/testutil"
	"ocmhub/pkg/domain"
)

func openStub(t *testing.T) (*sql.DB, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)
	return db, conn
}

func TestNewStoreEnsuresTableAndLoadsSnapshot(t *testing.T) {
	_, conn := openStub(t)
	payloads, err := memory.EncodeBuckets(domain.Snapshot{
		Version:   7,
		Workbench: []domain.WorkbenchGroup{{ID: "wg-1", Title: "Delivery", Items: []domain.WorkbenchItem{{ID: "wb-1", Title: "Alpha"}}}},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for bucket, payload := range payloads {
		conn.Tables["state"] = append(conn.Tables["state"], map[string]any{"bucket": bucket, "payload": payload})
	}

	store, err := NewStore("", domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if store.Version() != 7 {
		t.Fatalf("expected persisted version 7, got %d", store.Version())
	}
	if store.Current().Projects["wb-1"].Name != "Alpha" {
		t.Fatalf("expected project created for persisted item")
	}
	var sawDDL bool
	for _, stmt := range conn.Execs {
		if strings.Contains(strings.ToUpper(stmt), "CREATE TABLE IF NOT EXISTS STATE") {
			sawDDL = true
		}
	}
	if !sawDDL {
		t.Fatalf("expected state table DDL, got execs: %v", conn.Execs)
	}
}

func TestRunInTransactionPersistsBuckets(t *testing.T) {
	_, conn := openStub(t)
	store, err := NewStore("ignored", domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateHomeModule(domain.HomeModule{Title: "Change Toolkit"})
		return err
	})
	if err != nil {
		t.Fatalf("RunInTransaction: %v", err)
	}
	rows := conn.Rows("state")
	if len(rows) != len(memory.Buckets) {
		t.Fatalf("expected %d buckets, got %d", len(memory.Buckets), len(rows))
	}
	payloads := map[string][]byte{}
	for _, row := range rows {
		payloads[row["bucket"].(string)] = row["payload"].([]byte)
	}
	snap, ok, err := memory.DecodeBuckets(payloads)
	if err != nil || !ok {
		t.Fatalf("decode persisted buckets: %v", err)
	}
	if len(snap.HomeModules) != 1 || snap.Version != store.Version() {
		t.Fatalf("unexpected persisted snapshot %+v", snap)
	}
}

func TestImportStateWritesThrough(t *testing.T) {
	_, conn := openStub(t)
	store, err := NewStore("ignored", nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.ImportState(domain.Snapshot{OCMSetup: []domain.OCMSetupStep{{Title: "Prepare"}}}); err != nil {
		t.Fatalf("ImportState: %v", err)
	}
	if len(conn.Rows("state")) != len(memory.Buckets) {
		t.Fatalf("expected import to persist every bucket")
	}
}

func TestNewStoreErrors(t *testing.T) {
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return nil, errors.New("boom") })
	if _, err := NewStore("dsn", nil); err == nil || !strings.Contains(err.Error(), "open postgres") {
		t.Fatalf("expected open error, got %v", err)
	}
	restore()

	_, conn := openStub(t)
	conn.FailPing = true
	if _, err := NewStore("dsn", nil); err == nil || !strings.Contains(err.Error(), "ping postgres") {
		t.Fatalf("expected ping error, got %v", err)
	}
	conn.FailPing = false
	conn.FailTables = map[string]bool{"state": true}
	if _, err := NewStore("dsn", nil); err == nil || !strings.Contains(err.Error(), "select state") {
		t.Fatalf("expected select error, got %v", err)
	}
	conn.FailTables = nil
	conn.Tables["state"] = []map[string]any{{"bucket": memory.BucketProjects, "payload": []byte("{")}}
	if _, err := NewStore("dsn", nil); err == nil || !strings.Contains(err.Error(), "decode projects") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestPersistFailuresSurface(t *testing.T) {
	_, conn := openStub(t)
	store, err := NewStore("dsn", nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	create := func(tx domain.Transaction) error {
		_, err := tx.CreateHomeModule(domain.HomeModule{Title: "Reports"})
		return err
	}
	conn.FailCommit = true
	if _, err := store.RunInTransaction(context.Background(), create); err == nil || !strings.Contains(err.Error(), "commit") {
		t.Fatalf("expected commit error, got %v", err)
	}
	conn.FailCommit = false
	conn.FailBegin = true
	if _, err := store.RunInTransaction(context.Background(), create); err == nil || !strings.Contains(err.Error(), "begin tx") {
		t.Fatalf("expected begin error, got %v", err)
	}
	conn.FailBegin = false
	conn.FailTables = map[string]bool{"state": true}
	if _, err := store.RunInTransaction(context.Background(), create); err == nil || !strings.Contains(err.Error(), "upsert") {
		t.Fatalf("expected upsert error, got %v", err)
	}
}
