package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocmhub/pkg/domain"
)

func init() {
	color.NoColor = true
}

// writeConfig stores a config using a memory store and a filesystem archive
// under a temporary directory.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ocmhub.yaml")
	body := fmt.Sprintf("store:\n  driver: memory\narchive:\n  driver: fs\n  fs_root: %s\nlog:\n  level: error\n%s",
		filepath.Join(dir, "archive"), extra)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestSnapshotText(t *testing.T) {
	cfg := writeConfig(t, "")
	out, _, err := run(t, "--config", cfg, "snapshot")
	require.NoError(t, err)
	assert.Contains(t, out, "Snapshot v1")
	assert.Contains(t, out, "workbench items: 8")
	assert.Contains(t, out, "OCM Workbench 3 - Brake Duct Revision")
}

func TestSnapshotJSON(t *testing.T) {
	cfg := writeConfig(t, "")
	out, _, err := run(t, "--config", cfg, "snapshot", "--format", "json")
	require.NoError(t, err)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Len(t, snap.Projects, 8)
	assert.Len(t, snap.OCMSetup, 4)

	_, errOut, err := run(t, "--config", cfg, "snapshot", "--format", "xml")
	assert.Error(t, err)
	assert.Contains(t, errOut, `invalid format "xml"`)
}

func TestSnapshotFromSeedFile(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte("workbenchData:\n  - groupId: g\n    groupTitle: Delivery\n    items:\n      - id: a\n        title: Alpha\n"), 0o644))
	cfg := writeConfig(t, "seed:\n  path: "+seedPath+"\n")

	out, _, err := run(t, "--config", cfg, "snapshot", "--format", "json")
	require.NoError(t, err)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	require.Contains(t, snap.Projects, "a")
	assert.Equal(t, "Alpha", snap.Projects["a"].Name)
}

func TestSeedValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`{"homeModules":[{"title":"Reports"}]}`), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("homeModules:\n  - path: /x\n"), 0o644))

	out, _, err := run(t, "seed", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid: 1 home modules")

	_, errOut, err := run(t, "seed", "validate", bad)
	require.Error(t, err)
	assert.Contains(t, errOut, "seed rejected")

	_, _, err = run(t, "seed", "validate")
	assert.Error(t, err)
}

func TestArchiveCreateListRestore(t *testing.T) {
	cfg := writeConfig(t, "")

	_, errOut, err := run(t, "--config", cfg, "archive", "restore")
	require.Error(t, err)
	assert.Contains(t, errOut, "nothing to restore")

	out, _, err := run(t, "--config", cfg, "archive", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no archives")

	out, _, err = run(t, "--config", cfg, "archive", "create")
	require.NoError(t, err)
	assert.Contains(t, out, "archived version 1 to snapshots/snapshot-v1-")

	out, _, err = run(t, "--config", cfg, "archive", "list", "--match", "snapshots/*-v1-*")
	require.NoError(t, err)
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "snapshots/snapshot-v1-")

	out, _, err = run(t, "--config", cfg, "archive", "list", "--match", "snapshots/*-v9-*")
	require.NoError(t, err)
	assert.Contains(t, out, "no archives")

	out, _, err = run(t, "--config", cfg, "archive", "restore")
	require.NoError(t, err)
	assert.Contains(t, out, "store is now at version 2")
}

func TestRootFlagErrors(t *testing.T) {
	_, errOut, err := run(t, "--log-format", "xml", "snapshot")
	require.Error(t, err)
	assert.Contains(t, errOut, "invalid log format")

	_, errOut, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "snapshot")
	require.Error(t, err)
	assert.Contains(t, errOut, "could not load configuration")
}

func TestServeGracefulShutdown(t *testing.T) {
	opts := &RootOptions{ConfigPath: writeConfig(t, ""), Now: func() time.Time { return time.Now().UTC() }}
	var out, errOut bytes.Buffer
	require.NoError(t, opts.init(&out, &errOut))

	traceFile := filepath.Join(t.TempDir(), "trace.jsonl")
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- runServe(ctx, opts, &ServeOptions{Addr: "127.0.0.1:0", TraceFile: traceFile, Ready: func(addr string) { ready <- addr }})
	}()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get("http://" + addr + "/debug/vars")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get("http://" + addr + "/api/v1/projects/wb1")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post("http://"+addr+"/api/v1/home-modules", "application/json", strings.NewReader(`{"title":"Reporting"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}

	trace, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(trace), `"operation":"add_home_module"`)
}
