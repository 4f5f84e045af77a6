package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocmhub/internal/core"
	"ocmhub/pkg/domain"
)

var seedNow = time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC)

func TestDefaultDataSet(t *testing.T) {
	snap := Default(seedNow)
	require.Len(t, snap.HomeModules, 5)
	require.Len(t, snap.Workbench, 3)
	items := 0
	for _, g := range snap.Workbench {
		items += len(g.Items)
	}
	assert.Equal(t, 8, items)
	require.Len(t, snap.OCMSetup, 4)
	assert.NotNil(t, snap.OCMSetup[3].ImageCard)
	assert.Equal(t, "Modus Admin Set up", snap.OCMSetup[2].SidebarTitle)
	assert.Len(t, snap.Projects, 8)

	p := snap.Projects["wb3"]
	assert.Equal(t, "wb3", p.WorkbenchItemID)
	assert.Equal(t, "OCM Workbench 3 - Brake Duct Revision", p.Name)
	assert.Equal(t, "Mar 2025", p.RAGHistory[0].Period)
	assert.Len(t, p.KeyUpdates["wb3-link-1"], 1)
}

func TestDefaultImportsCleanly(t *testing.T) {
	svc := core.NewInMemoryService(nil)
	require.NoError(t, svc.ImportSnapshot(context.Background(), Default(seedNow)))

	snap := svc.Snapshot()
	assert.Len(t, snap.Projects, 8)
	assert.Equal(t, uint64(1), svc.Version())
	assert.Equal(t, "/aero-project-workbench", snap.HomeModules[0].Path)
}

func TestParseYAMLAndJSON(t *testing.T) {
	y := []byte("homeModules:\n  - title: Reports\nworkbenchData:\n  - groupTitle: Delivery\n    items:\n      - title: Alpha\n")
	snap, err := Parse(y, FormatYAML, "inline.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Reports", snap.HomeModules[0].Title)
	assert.Equal(t, "Alpha", snap.Workbench[0].Items[0].Title)

	j := []byte(`{"version": 4, "ocmSetupData": [{"title": "Step", "topics": null}]}`)
	snap, err = Parse(j, FormatJSON, "inline.json")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), snap.Version)
	assert.Equal(t, "Step", snap.OCMSetup[0].Title)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"missing title":  "homeModules:\n  - description: no title\n",
		"empty title":    "workbenchData:\n  - groupTitle: \"\"\n",
		"unknown field":  "homeModules:\n  - title: A\n    colour: red\n",
		"wrong type":     "ocmSetupData: yes\n",
		"negative count": "version: -1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc), FormatYAML, "bad.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "bad.yaml")
		})
	}
	_, err := Parse([]byte(""), FormatYAML, "empty.yaml")
	assert.ErrorContains(t, err, "empty document")
	_, err = Parse([]byte("{"), FormatJSON, "broken.json")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yml")
	require.NoError(t, os.WriteFile(path, []byte("homeModules:\n  - title: Reports\n"), 0o644))
	snap, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, snap.HomeModules, 1)
	assert.NoError(t, ValidateFile(path))

	_, err = LoadFile(filepath.Join(dir, "seed.txt"))
	assert.ErrorContains(t, err, "unsupported seed format")
	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestWithTemplateProjectsKeepsExisting(t *testing.T) {
	snap := domain.Snapshot{
		Workbench: []domain.WorkbenchGroup{{ID: "wg", Items: []domain.WorkbenchItem{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}}},
		Projects:  map[string]domain.ProjectDetails{"a": {ID: "a", WorkbenchItemID: "a", Name: "Custom"}},
	}
	out := WithTemplateProjects(snap, seedNow)
	assert.Equal(t, "Custom", out.Projects["a"].Name)
	assert.Equal(t, "B", out.Projects["b"].Name)
}
