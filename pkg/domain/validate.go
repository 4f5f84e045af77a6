package domain

import "strings"

type validator interface{ Valid() bool }

func required(entity EntityType, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Entity: entity, Field: field, Message: "is required"}
	}
	return nil
}

func oneOf(entity EntityType, field string, v validator, raw string) error {
	if !v.Valid() {
		return ValidationError{Entity: entity, Field: field, Message: "has unknown value " + quote(raw)}
	}
	return nil
}

func percent(entity EntityType, field string, v int) error {
	if v < 0 || v > 100 {
		return ValidationError{Entity: entity, Field: field, Message: "must be between 0 and 100"}
	}
	return nil
}

func nonNegative(entity EntityType, field string, v float64) error {
	if v < 0 {
		return ValidationError{Entity: entity, Field: field, Message: "must not be negative"}
	}
	return nil
}

func quote(s string) string { return "\"" + s + "\"" }

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the home module fields.
func (m HomeModule) Validate() error {
	return required(EntityHomeModule, "title", m.Title)
}

// Validate checks the group fields. Items are validated individually.
func (g WorkbenchGroup) Validate() error {
	return required(EntityWorkbenchGroup, "groupTitle", g.Title)
}

// Validate checks the item fields.
func (it WorkbenchItem) Validate() error {
	return required(EntityWorkbenchItem, "title", it.Title)
}

// Validate checks the scalar project fields.
func (p ProjectDetails) Validate() error {
	return firstError(
		required(EntityProject, "name", p.Name),
		percent(EntityProject, "percentComplete", p.PercentComplete),
		oneOf(EntityProject, "overallHealth", p.OverallHealth, string(p.OverallHealth)),
		p.Budget.Validate(),
	)
}

// Validate checks the budget totals.
func (b BudgetData) Validate() error {
	return firstError(
		nonNegative(EntityBudget, "totalBudget", b.TotalBudget),
		nonNegative(EntityBudget, "actualSpend", b.ActualSpend),
	)
}

// Validate checks every rating of the entry.
func (r RAGEntry) Validate() error {
	fields := []struct {
		name string
		h    Health
	}{
		{"overall", r.Overall}, {"scope", r.Scope}, {"schedule", r.Schedule},
		{"budget", r.Budget}, {"resources", r.Resources}, {"risks", r.Risks},
		{"issues", r.Issues},
	}
	for _, f := range fields {
		if err := oneOf(EntityRAGEntry, f.name, f.h, string(f.h)); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the link fields.
func (l QuickLink) Validate() error {
	return firstError(required(EntityQuickLink, "name", l.Name), required(EntityQuickLink, "url", l.URL))
}

// Validate checks the announcement fields.
func (a Announcement) Validate() error {
	return required(EntityAnnouncement, "title", a.Title)
}

// Validate checks the document fields.
func (d ProjectDocument) Validate() error {
	return required(EntityDocument, "name", d.Name)
}

func (r ProjectRisk) Validate() error {
	return firstError(
		required(EntityRisk, "description", r.Description),
		oneOf(EntityRisk, "impact", r.Impact, string(r.Impact)),
		oneOf(EntityRisk, "likelihood", r.Likelihood, string(r.Likelihood)),
		oneOf(EntityRisk, "status", r.Status, string(r.Status)),
	)
}

func (i ProjectIssue) Validate() error {
	return firstError(
		required(EntityIssue, "description", i.Description),
		oneOf(EntityIssue, "priority", i.Priority, string(i.Priority)),
		oneOf(EntityIssue, "status", i.Status, string(i.Status)),
	)
}

func (a ProjectAction) Validate() error {
	return firstError(
		required(EntityAction, "description", a.Description),
		oneOf(EntityAction, "status", a.Status, string(a.Status)),
	)
}

func (d ProjectDependency) Validate() error {
	return firstError(
		required(EntityDependency, "description", d.Description),
		oneOf(EntityDependency, "impactIfFails", d.ImpactIfFails, string(d.ImpactIfFails)),
		oneOf(EntityDependency, "status", d.Status, string(d.Status)),
	)
}

func (a ProjectAssumption) Validate() error {
	return firstError(
		required(EntityAssumption, "description", a.Description),
		oneOf(EntityAssumption, "status", a.Status, string(a.Status)),
	)
}

func (l LessonLearned) Validate() error {
	return required(EntityLesson, "title", l.Title)
}

func (s StatusUpdate) Validate() error {
	return oneOf(EntityStatusUpdate, "status", s.Status, string(s.Status))
}

func (c BudgetCategory) Validate() error {
	return firstError(
		required(EntityBudgetCategory, "category", c.Category),
		nonNegative(EntityBudgetCategory, "budgeted", c.Budgeted),
		nonNegative(EntityBudgetCategory, "spent", c.Spent),
	)
}

func (r ProjectResource) Validate() error {
	return firstError(
		required(EntityResource, "role", r.Role),
		percent(EntityResource, "allocation", r.Allocation),
	)
}

func (c AssetCategory) Validate() error {
	return required(EntityAssetCategory, "title", c.Title)
}

func (l AssetLink) Validate() error {
	return required(EntityAssetLink, "name", l.Name)
}

func (k KeyUpdateItem) Validate() error {
	return firstError(
		required(EntityKeyUpdate, "project", k.Project),
		oneOf(EntityKeyUpdate, "previousRag", k.PreviousRag, string(k.PreviousRag)),
		oneOf(EntityKeyUpdate, "currentRag", k.CurrentRag, string(k.CurrentRag)),
	)
}

func (s OCMSetupStep) Validate() error {
	if err := required(EntityOCMStep, "title", s.Title); err != nil {
		return err
	}
	if s.ImageCard != nil {
		return s.ImageCard.Validate()
	}
	return nil
}

func (t OCMSetupTopicGroup) Validate() error {
	return required(EntityOCMTopic, "title", t.Title)
}

func (i OCMSetupItem) Validate() error {
	return required(EntityOCMItem, "text", i.Text)
}

func (l OCMSetupSidebarLink) Validate() error {
	return required(EntityOCMSidebarLink, "text", l.Text)
}

func (c OCMSetupImageCard) Validate() error {
	return required(EntityOCMImageCard, "title", c.Title)
}
