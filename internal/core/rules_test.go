package core

import (
	"context"
	"errors"
	"testing"

	"ocmhub/pkg/domain"
)

func TestDefaultRulesEngineOrder(t *testing.T) {
	got := NewDefaultRulesEngine().Rules()
	want := []string{"workbench_project_link", "unique_identity", "natural_key_collision"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestWorkbenchProjectLinkRule(t *testing.T) {
	ctx := context.Background()
	rule := NewWorkbenchProjectLinkRule()

	cases := []struct {
		name     string
		snap     domain.Snapshot
		entities []domain.EntityType
	}{
		{
			name: "linked",
			snap: domain.Snapshot{
				Workbench: []domain.WorkbenchGroup{{ID: "wg-1", Items: []domain.WorkbenchItem{{ID: "wb-1", Title: "A"}}}},
				Projects:  map[string]domain.ProjectDetails{"wb-1": {ID: "wb-1", WorkbenchItemID: "wb-1"}},
			},
		},
		{
			name: "item without project",
			snap: domain.Snapshot{
				Workbench: []domain.WorkbenchGroup{{ID: "wg-1", Items: []domain.WorkbenchItem{{ID: "wb-1", Title: "A"}}}},
				Projects:  map[string]domain.ProjectDetails{},
			},
			entities: []domain.EntityType{domain.EntityWorkbenchItem},
		},
		{
			name: "project without item",
			snap: domain.Snapshot{
				Projects: map[string]domain.ProjectDetails{"wb-9": {ID: "wb-9", WorkbenchItemID: "wb-9"}},
			},
			entities: []domain.EntityType{domain.EntityProject},
		},
		{
			name: "foreign key mismatch",
			snap: domain.Snapshot{
				Workbench: []domain.WorkbenchGroup{{ID: "wg-1", Items: []domain.WorkbenchItem{{ID: "wb-1"}}}},
				Projects:  map[string]domain.ProjectDetails{"wb-1": {ID: "wb-1", WorkbenchItemID: "wb-2"}},
			},
			entities: []domain.EntityType{domain.EntityProject},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := rule.Evaluate(ctx, snapshotView{snap: tc.snap}, nil)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if len(res.Violations) != len(tc.entities) {
				t.Fatalf("expected %d violations, got %+v", len(tc.entities), res.Violations)
			}
			for i, v := range res.Violations {
				if v.Severity != domain.SeverityBlock || v.Entity != tc.entities[i] {
					t.Fatalf("unexpected violation %+v", v)
				}
			}
		})
	}
}

func TestUniqueIdentityRule(t *testing.T) {
	ctx := context.Background()
	rule := NewUniqueIdentityRule()

	snap := domain.Snapshot{
		HomeModules: []domain.HomeModule{{ID: "hm-1"}, {ID: "hm-1"}},
		Workbench: []domain.WorkbenchGroup{
			{ID: "wg-1", Items: []domain.WorkbenchItem{{ID: "wb-1"}}},
			{ID: "wg-2", Items: []domain.WorkbenchItem{{ID: "wb-1"}}},
		},
		Projects: map[string]domain.ProjectDetails{
			"wb-1": {
				ID:         "wb-1",
				Risks:      []domain.ProjectRisk{{ID: "risk-1"}, {ID: "risk-2"}},
				KeyUpdates: map[string][]domain.KeyUpdateItem{"link-1": {{ID: 1}, {ID: 1}}},
			},
		},
		OCMSetup: []domain.OCMSetupStep{{
			ID:     "step-1",
			Topics: []domain.OCMSetupTopicGroup{{ID: "topic-1", Items: []domain.OCMSetupItem{{ID: "item-1"}, {ID: "item-1"}}}},
		}},
	}
	res, err := rule.Evaluate(ctx, snapshotView{snap: snap}, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	got := map[domain.EntityType]string{}
	for _, v := range res.Violations {
		if v.Severity != domain.SeverityBlock {
			t.Fatalf("expected blocking severity, got %+v", v)
		}
		got[v.Entity] = v.EntityID
	}
	want := map[domain.EntityType]string{
		domain.EntityHomeModule:    "hm-1",
		domain.EntityWorkbenchItem: "wb-1",
		domain.EntityKeyUpdate:     "1",
		domain.EntityOCMItem:       "item-1",
	}
	if len(got) != len(want) {
		t.Fatalf("expected violations for %v, got %+v", want, res.Violations)
	}
	for entity, id := range want {
		if got[entity] != id {
			t.Fatalf("expected %s violation for %s, got %+v", entity, id, res.Violations)
		}
	}
}

func TestUniqueIdentityRuleBlocksImport(t *testing.T) {
	svc := newTestService(nil)
	err := svc.ImportSnapshot(context.Background(), domain.Snapshot{
		HomeModules: []domain.HomeModule{{ID: "hm-1", Title: "A"}, {ID: "hm-1", Title: "B"}},
	})
	var violation domain.RuleViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected rule violation, got %v", err)
	}
	if svc.Version() != 0 {
		t.Fatalf("rejected import must not advance the version")
	}
}

func TestNaturalKeyCollisionRuleWarnsOnTouchedProject(t *testing.T) {
	ctx := context.Background()
	log := &captureLogger{}
	svc := newTestService(nil, WithLogger(log))
	_, projectID := seedItem(t, svc)

	if _, _, err := svc.AddQuickLink(ctx, projectID, domain.QuickLink{Name: "Plan", URL: "https://a"}); err != nil {
		t.Fatalf("add first link: %v", err)
	}
	_, res, err := svc.AddQuickLink(ctx, projectID, domain.QuickLink{Name: " plan ", URL: "https://b"})
	if err != nil {
		t.Fatalf("colliding names must still commit: %v", err)
	}
	if len(res.Violations) != 1 {
		t.Fatalf("expected one warning, got %+v", res.Violations)
	}
	v := res.Violations[0]
	if v.Rule != "natural_key_collision" || v.Severity != domain.SeverityWarn || v.Entity != domain.EntityQuickLink {
		t.Fatalf("unexpected violation %+v", v)
	}
	if !log.has("w:rule warning") {
		t.Fatalf("expected warning to be logged, got %v", log.calls)
	}
	if got := len(svc.Snapshot().Projects[projectID].QuickLinks); got != 2 {
		t.Fatalf("expected both links stored, got %d", got)
	}
}

func TestNaturalKeyCollisionRuleSkipsUntouchedProjects(t *testing.T) {
	rule := NewNaturalKeyCollisionRule()
	snap := domain.Snapshot{
		Projects: map[string]domain.ProjectDetails{
			"wb-1": {ID: "wb-1", Documents: []domain.ProjectDocument{{ID: "doc-1", Name: "Plan"}, {ID: "doc-2", Name: "Plan"}}},
		},
	}
	view := snapshotView{snap: snap}
	unrelated := []domain.Change{{Entity: domain.EntityHomeModule, Action: domain.ActionCreate, Path: []string{"hm-1"}}}

	res, err := rule.Evaluate(context.Background(), view, unrelated)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 0 {
		t.Fatalf("expected untouched project to be skipped, got %+v", res.Violations)
	}

	res, err = rule.Evaluate(context.Background(), view, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 1 || res.Violations[0].EntityID != "doc-2" {
		t.Fatalf("expected full evaluation to flag doc-2, got %+v", res.Violations)
	}
}

func TestAnnouncementsInSameInstantBothSurvive(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(nil)
	_, projectID := seedItem(t, svc)

	first, _, err := svc.AddAnnouncement(ctx, projectID, domain.Announcement{Title: "Go live", Content: "one"})
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	second, res, err := svc.AddAnnouncement(ctx, projectID, domain.Announcement{Title: "Go live", Content: "two"})
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct ids, got %s twice", first.ID)
	}
	if len(res.Violations) != 1 || res.Violations[0].Severity != domain.SeverityWarn {
		t.Fatalf("expected a collision warning, got %+v", res.Violations)
	}
	got := svc.Snapshot().Projects[projectID].Announcements
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("expected newest first with both kept, got %+v", got)
	}
}
