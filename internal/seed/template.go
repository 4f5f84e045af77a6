package seed

import (
	"time"

	"ocmhub/pkg/domain"
)

// ProjectTemplate builds the starting aggregate for a seeded workbench item.
// Nested ids are derived from the item id so reseeding is deterministic.
func ProjectTemplate(item domain.WorkbenchItem, now time.Time) domain.ProjectDetails {
	p := domain.NewProjectDetails(item)
	id := func(suffix string) string { return item.ID + "-" + suffix }
	date := func(days int) string { return domain.FormatDate(now.AddDate(0, 0, days)) }

	p.ProjectManager = "Alex Morgan"
	p.BusinessOwner = "Head of Vehicle Performance"
	p.StartDate = date(-60)
	p.FinishDate = date(120)
	p.Stage = "Planning"
	p.PercentComplete = 25

	p.RAGHistory = []domain.RAGEntry{{
		ID:        id("rag-1"),
		Period:    domain.FormatPeriod(now),
		Overall:   domain.HealthGreen,
		Scope:     domain.HealthGreen,
		Schedule:  domain.HealthAmber,
		Budget:    domain.HealthGreen,
		Resources: domain.HealthGreen,
		Risks:     domain.HealthAmber,
		Issues:    domain.HealthGreen,
	}}
	p.QuickLinks = []domain.QuickLink{
		{ID: id("ql-1"), Name: "Project SharePoint", URL: "https://sharepoint.example.com/sites/" + item.ID},
		{ID: id("ql-2"), Name: "Teams Channel", URL: "https://teams.example.com/channels/" + item.ID},
	}
	p.Announcements = []domain.Announcement{{
		ID:      id("ann-1"),
		Title:   "Workbench kick-off",
		Date:    date(-7),
		Content: "The change workbench is live. Review the assets tab for the current plan.",
	}}
	p.ProjectAssets = []domain.AssetCategory{
		{ID: id("cat-1"), Title: "Change Planning", Links: []domain.AssetLink{
			{ID: id("link-1"), Name: "Change Impact Assessment"},
			{ID: id("link-2"), Name: "Stakeholder Map"},
		}},
		{ID: id("cat-2"), Title: "Communications", Links: []domain.AssetLink{
			{ID: id("link-3"), Name: "Communications Plan"},
		}},
	}
	p.Documents = []domain.ProjectDocument{{
		ID:           id("doc-1"),
		Name:         "Project Charter",
		Type:         "PDF",
		Version:      domain.DefaultDocumentVersion,
		LastModified: date(-30),
		ModifiedBy:   p.ProjectManager,
	}}
	p.Risks = []domain.ProjectRisk{{
		ID:             id("risk-1"),
		Description:    "Key engineers unavailable during race weekends",
		Impact:         domain.LevelMedium,
		Likelihood:     domain.LevelHigh,
		Owner:          p.ProjectManager,
		MitigationPlan: "Schedule change sessions between race events",
		Status:         domain.RiskOpen,
	}}
	p.StatusUpdates = []domain.StatusUpdate{{
		ID:                id("status-1"),
		Date:              date(-1),
		Status:            domain.HealthGreen,
		Accomplishments:   "Stakeholder interviews completed",
		PlannedNextPeriod: "Publish the change impact assessment",
	}}
	p.Budget = domain.BudgetData{
		TotalBudget: 250000,
		ActualSpend: 60000,
		Breakdown: []domain.BudgetCategory{
			{ID: id("budget-1"), Category: "Training", Budgeted: 150000, Spent: 40000},
			{ID: id("budget-2"), Category: "Communications", Budgeted: 100000, Spent: 20000},
		},
	}
	p.Resources = []domain.ProjectResource{{
		ID:         id("res-1"),
		Role:       "Change Lead",
		AssignedTo: p.ProjectManager,
		Allocation: 50,
		StartDate:  p.StartDate,
		EndDate:    p.FinishDate,
	}}
	p.KeyUpdates = map[string][]domain.KeyUpdateItem{
		id("link-1"): {{
			ID:          1,
			Portfolio:   "Engineering",
			Pillar:      "People",
			Programme:   "OCM",
			Project:     item.Title,
			PreviousRag: domain.HealthAmber,
			CurrentRag:  domain.HealthGreen,
			Commentary:  "Impact assessment signed off by department heads",
			Owner:       p.ProjectManager,
		}},
	}
	p.AssetDocuments = map[string][]domain.ProjectDocument{
		id("link-1"): {{
			ID:           id("adoc-1"),
			Name:         "Impact Assessment v1",
			Type:         "XLSX",
			Version:      domain.DefaultDocumentVersion,
			LastModified: date(-14),
			ModifiedBy:   p.ProjectManager,
		}},
	}
	return p
}
