package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"ocmhub/internal/blob/core"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestStore_PutGetHeadListDelete(t *testing.T) { //nolint:cyclop
	ctx := context.Background()
	store := newTempStore(t)
	info, err := store.Put(ctx, "snapshots/v1.json", bytes.NewReader([]byte("hello")), core.PutOptions{ContentType: "application/json", Metadata: map[string]string{"version": "1"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "snapshots/v1.json" || info.Size != 5 || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "snapshots/v1.json", bytes.NewReader([]byte("x")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	h, err := store.Head(ctx, "snapshots/v1.json")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if h.Metadata["version"] != "1" || h.ContentType != "application/json" {
		t.Fatalf("sidecar not restored: %+v", h)
	}
	g, rc, err := store.Get(ctx, "snapshots/v1.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	if err := rc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if string(b) != "hello" || g.ETag != h.ETag {
		t.Fatalf("unexpected get artifacts")
	}
	list, err := store.List(ctx, "snapshots/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Key != "snapshots/v1.json" {
		t.Fatalf("unexpected list %+v", list)
	}
	ok, err := store.Delete(ctx, "snapshots/v1.json")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	ok, err = store.Delete(ctx, "snapshots/v1.json")
	if err != nil || ok {
		t.Fatalf("second delete should be false")
	}
}

func TestStore_MissingKeys(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, _, err := store.Get(ctx, "missing.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}
	if _, err := store.Head(ctx, "missing.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from head, got %v", err)
	}
}

func TestSanitizeKeyErrors(t *testing.T) {
	cases := []string{"", "  ", "../escape", "/abs", "a/../b", "x.meta"}
	for _, c := range cases {
		if _, err := sanitizeKey(c); err == nil {
			t.Fatalf("expected error for key %q", c)
		}
	}
}

type errorReader struct{}

func (errorReader) Read(p []byte) (int, error) { return 0, errors.New("boom") }

func TestStore_PutCopyErrorLeavesNothing(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "bad.bin", errorReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected copy error")
	}
	if list, err := store.List(ctx, ""); err != nil || len(list) != 0 {
		t.Fatalf("expected empty store, got %v %+v", err, list)
	}
}

func TestStore_ListOrderAndPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for i := 2; i >= 0; i-- {
		k := "folder/f" + strconv.Itoa(i) + ".txt"
		if _, err := store.Put(ctx, k, bytes.NewReader([]byte("data")), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	if _, err := store.Put(ctx, "other/x.txt", bytes.NewReader([]byte("x")), core.PutOptions{}); err != nil {
		t.Fatalf("put other: %v", err)
	}
	list, err := store.List(ctx, "folder/")
	if err != nil || len(list) != 3 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Key > list[i].Key {
			t.Fatalf("expected sorted keys, got %+v", list)
		}
	}
}

func TestListMetaCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	data := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(data, []byte("data"), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	if err := os.WriteFile(data+".meta", []byte("{"), 0o644); err != nil {
		t.Fatalf("write meta: %v", err)
	}
	if _, err := store.List(context.Background(), ""); err == nil {
		t.Fatalf("expected list error on corrupt meta")
	}
}

func TestNewRejectsFileRoot(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "afile")
	if err := os.WriteFile(filePath, []byte("x"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := New(filePath); err == nil {
		t.Fatalf("expected error when root is file")
	}
}

func TestStoreStampsWithClock(t *testing.T) {
	store := newTempStore(t)
	at := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return at }
	info, err := store.Put(context.Background(), "time/test", bytes.NewReader([]byte("abc")), core.PutOptions{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !info.LastModified.Equal(at) {
		t.Fatalf("expected %v, got %v", at, info.LastModified)
	}
}
