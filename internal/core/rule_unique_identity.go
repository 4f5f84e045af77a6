package core

import (
	"context"
	"fmt"
	"strconv"

	"ocmhub/pkg/domain"
)

const uniqueIdentityRuleName = "unique_identity"

// NewUniqueIdentityRule returns the rule rejecting duplicate identifiers
// within an owning collection. Workbench item ids must be unique across groups.
func NewUniqueIdentityRule() domain.Rule {
	return uniqueIdentityRule{}
}

type uniqueIdentityRule struct{}

func (uniqueIdentityRule) Name() string { return uniqueIdentityRuleName }

type idChecker struct {
	res *domain.Result
}

func (c idChecker) check(entity domain.EntityType, scope string, ids []string) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			c.res.Violations = append(c.res.Violations, domain.Violation{
				Rule:     uniqueIdentityRuleName,
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("duplicate %s id %q in %s", entity, id, scope),
				Entity:   entity,
				EntityID: id,
			})
			continue
		}
		seen[id] = struct{}{}
	}
}

func idsOf[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func (uniqueIdentityRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	c := idChecker{res: &res}

	c.check(domain.EntityHomeModule, "home modules", idsOf(view.ListHomeModules(), func(m domain.HomeModule) string { return m.ID }))

	groups := view.ListWorkbenchGroups()
	c.check(domain.EntityWorkbenchGroup, "workbench", idsOf(groups, func(g domain.WorkbenchGroup) string { return g.ID }))
	var items []string
	for _, g := range groups {
		items = append(items, idsOf(g.Items, func(it domain.WorkbenchItem) string { return it.ID })...)
	}
	c.check(domain.EntityWorkbenchItem, "workbench", items)

	for _, p := range view.ListProjects() {
		checkProjectIDs(c, p)
	}

	steps := view.ListOCMSteps()
	c.check(domain.EntityOCMStep, "ocm setup", idsOf(steps, func(s domain.OCMSetupStep) string { return s.ID }))
	for _, s := range steps {
		scope := "step " + s.ID
		c.check(domain.EntityOCMTopic, scope, idsOf(s.Topics, func(t domain.OCMSetupTopicGroup) string { return t.ID }))
		c.check(domain.EntityOCMSidebarLink, scope, idsOf(s.SidebarLinks, func(l domain.OCMSetupSidebarLink) string { return l.ID }))
		for _, t := range s.Topics {
			c.check(domain.EntityOCMItem, "topic "+t.ID, idsOf(t.Items, func(it domain.OCMSetupItem) string { return it.ID }))
		}
	}
	return res, nil
}

func checkProjectIDs(c idChecker, p domain.ProjectDetails) {
	scope := "project " + p.ID
	c.check(domain.EntityRAGEntry, scope, idsOf(p.RAGHistory, func(v domain.RAGEntry) string { return v.ID }))
	c.check(domain.EntityQuickLink, scope, idsOf(p.QuickLinks, func(v domain.QuickLink) string { return v.ID }))
	c.check(domain.EntityAnnouncement, scope, idsOf(p.Announcements, func(v domain.Announcement) string { return v.ID }))
	c.check(domain.EntityDocument, scope, idsOf(p.Documents, func(v domain.ProjectDocument) string { return v.ID }))
	c.check(domain.EntityRisk, scope, idsOf(p.Risks, func(v domain.ProjectRisk) string { return v.ID }))
	c.check(domain.EntityIssue, scope, idsOf(p.Issues, func(v domain.ProjectIssue) string { return v.ID }))
	c.check(domain.EntityAction, scope, idsOf(p.Actions, func(v domain.ProjectAction) string { return v.ID }))
	c.check(domain.EntityDependency, scope, idsOf(p.Dependencies, func(v domain.ProjectDependency) string { return v.ID }))
	c.check(domain.EntityAssumption, scope, idsOf(p.Assumptions, func(v domain.ProjectAssumption) string { return v.ID }))
	c.check(domain.EntityLesson, scope, idsOf(p.LessonsLearned, func(v domain.LessonLearned) string { return v.ID }))
	c.check(domain.EntityStatusUpdate, scope, idsOf(p.StatusUpdates, func(v domain.StatusUpdate) string { return v.ID }))
	c.check(domain.EntityBudgetCategory, scope, idsOf(p.Budget.Breakdown, func(v domain.BudgetCategory) string { return v.ID }))
	c.check(domain.EntityResource, scope, idsOf(p.Resources, func(v domain.ProjectResource) string { return v.ID }))
	c.check(domain.EntityAssetCategory, scope, idsOf(p.ProjectAssets, func(v domain.AssetCategory) string { return v.ID }))

	var links []string
	for _, cat := range p.ProjectAssets {
		links = append(links, idsOf(cat.Links, func(l domain.AssetLink) string { return l.ID })...)
	}
	c.check(domain.EntityAssetLink, scope, links)
	for linkID, docs := range p.AssetDocuments {
		c.check(domain.EntityAssetDocument, "link "+linkID, idsOf(docs, func(v domain.ProjectDocument) string { return v.ID }))
	}
	for linkID, rows := range p.KeyUpdates {
		c.check(domain.EntityKeyUpdate, "link "+linkID, idsOf(rows, func(v domain.KeyUpdateItem) string { return strconv.Itoa(v.ID) }))
	}
}
