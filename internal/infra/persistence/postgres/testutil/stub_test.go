package testutil

import (
	"context"
	"database/sql/driver"
	"testing"
)

func TestStubDBUpsertsAndQueriesRows(t *testing.T) {
	ctx := context.Background()
	_, conn := NewStubDB()

	if err := conn.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	upsert := "INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload"
	for _, payload := range []string{"[]", "[1]"} {
		if _, err := conn.ExecContext(ctx, upsert, []driver.NamedValue{{Value: "workbench"}, {Value: payload}}); err != nil {
			t.Fatalf("ExecContext: %v", err)
		}
	}
	if rows := conn.Rows("state"); len(rows) != 1 || rows[0]["payload"] != "[1]" {
		t.Fatalf("expected a single upserted row, got %v", rows)
	}

	rows, err := conn.QueryContext(ctx, "SELECT bucket, payload FROM state", nil)
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	defer func() { _ = rows.Close() }()
	dest := make([]driver.Value, 2)
	if err := rows.Next(dest); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if dest[0] != "workbench" || dest[1] != "[1]" {
		t.Fatalf("unexpected row values: %v", dest)
	}
}

func TestStubDBFailures(t *testing.T) {
	ctx := context.Background()
	_, conn := NewStubDB()
	conn.FailTables = map[string]bool{"state": true}
	if _, err := conn.QueryContext(ctx, "SELECT bucket FROM state", nil); err == nil {
		t.Fatalf("expected query failure")
	}
	if _, err := conn.QueryContext(ctx, "UPDATE state", nil); err == nil {
		t.Fatalf("expected parse failure")
	}
	conn.FailBegin = true
	if _, err := conn.Begin(); err == nil {
		t.Fatalf("expected begin failure")
	}
}
