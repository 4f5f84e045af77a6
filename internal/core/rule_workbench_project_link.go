package core

import (
	"context"
	"fmt"

	"ocmhub/pkg/domain"
)

const workbenchProjectLinkRuleName = "workbench_project_link"

// NewWorkbenchProjectLinkRule returns the rule keeping workbench items and
// project aggregates in one-to-one correspondence.
func NewWorkbenchProjectLinkRule() domain.Rule {
	return workbenchProjectLinkRule{}
}

type workbenchProjectLinkRule struct{}

func (workbenchProjectLinkRule) Name() string { return workbenchProjectLinkRuleName }

func (workbenchProjectLinkRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	items := map[string]struct{}{}
	for _, g := range view.ListWorkbenchGroups() {
		for _, it := range g.Items {
			items[it.ID] = struct{}{}
			p, ok := view.FindProject(it.ID)
			if !ok {
				res.Violations = append(res.Violations, linkViolation(domain.EntityWorkbenchItem, it.ID,
					fmt.Sprintf("workbench item %s (%s) has no project", it.Title, it.ID)))
				continue
			}
			if p.WorkbenchItemID != it.ID {
				res.Violations = append(res.Violations, linkViolation(domain.EntityProject, p.ID,
					fmt.Sprintf("project %s points at workbench item %q", p.ID, p.WorkbenchItemID)))
			}
		}
	}
	for _, p := range view.ListProjects() {
		if _, ok := items[p.ID]; !ok {
			res.Violations = append(res.Violations, linkViolation(domain.EntityProject, p.ID,
				fmt.Sprintf("project %s (%s) has no workbench item", p.Name, p.ID)))
		}
	}
	return res, nil
}

func linkViolation(entity domain.EntityType, id, msg string) domain.Violation {
	return domain.Violation{
		Rule:     workbenchProjectLinkRuleName,
		Severity: domain.SeverityBlock,
		Message:  msg,
		Entity:   entity,
		EntityID: id,
	}
}
