package core

import (
	"context"
	"fmt"
	"strings"

	"ocmhub/pkg/domain"
)

const naturalKeyCollisionRuleName = "natural_key_collision"

// NewNaturalKeyCollisionRule returns a warning rule flagging project entries
// that share a display key. Entries are matched by id, so collisions are
// legal but usually a data entry mistake.
func NewNaturalKeyCollisionRule() domain.Rule {
	return naturalKeyCollisionRule{}
}

type naturalKeyCollisionRule struct{}

func (naturalKeyCollisionRule) Name() string { return naturalKeyCollisionRuleName }

func (naturalKeyCollisionRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, p := range view.ListProjects() {
		if changes != nil && !touchesProject(changes, p.ID) {
			continue
		}
		warnCollisions(&res, p.ID, domain.EntityAnnouncement, p.Announcements, func(a domain.Announcement) (string, string) {
			return a.ID, a.Date + "|" + a.Title
		})
		warnCollisions(&res, p.ID, domain.EntityDocument, p.Documents, func(d domain.ProjectDocument) (string, string) {
			return d.ID, d.Name
		})
		warnCollisions(&res, p.ID, domain.EntityQuickLink, p.QuickLinks, func(l domain.QuickLink) (string, string) {
			return l.ID, l.Name
		})
		warnCollisions(&res, p.ID, domain.EntityResource, p.Resources, func(r domain.ProjectResource) (string, string) {
			return r.ID, r.Role
		})
		warnCollisions(&res, p.ID, domain.EntityBudgetCategory, p.Budget.Breakdown, func(c domain.BudgetCategory) (string, string) {
			return c.ID, c.Category
		})
	}
	return res, nil
}

// touchesProject reports whether any change addresses an entity nested in the
// project. Project scoped change paths start with the project id.
func touchesProject(changes []domain.Change, projectID string) bool {
	for _, c := range changes {
		switch c.Entity {
		case domain.EntityHomeModule, domain.EntityWorkbenchGroup, domain.EntityOCMStep,
			domain.EntityOCMTopic, domain.EntityOCMItem, domain.EntityOCMSidebarLink, domain.EntityOCMImageCard:
			continue
		case domain.EntityWorkbenchItem:
			if len(c.Path) == 2 && c.Path[1] == projectID {
				return true
			}
			continue
		}
		if len(c.Path) > 0 && c.Path[0] == projectID {
			return true
		}
	}
	return false
}

func warnCollisions[T any](res *domain.Result, projectID string, entity domain.EntityType, items []T, key func(T) (string, string)) {
	seen := make(map[string]string, len(items))
	for _, it := range items {
		id, k := key(it)
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || k == "|" {
			continue
		}
		if first, dup := seen[k]; dup {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     naturalKeyCollisionRuleName,
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("%s %s in project %s shares its display key with %s", entity, id, projectID, first),
				Entity:   entity,
				EntityID: id,
			})
			continue
		}
		seen[k] = id
	}
}
