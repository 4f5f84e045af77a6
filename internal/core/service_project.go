package core

import (
	"context"

	"ocmhub/pkg/domain"
)

// Project returns the project aggregate with the given id from the latest snapshot.
func (s *Service) Project(id string) (domain.ProjectDetails, bool) {
	p, ok := s.store.Current().Projects[id]
	return p, ok
}

// UpdateProjectDetails applies a partial update to the project scalars.
func (s *Service) UpdateProjectDetails(ctx context.Context, projectID string, patch domain.ProjectDetailsPatch) (domain.ProjectDetails, Result, error) {
	var updated domain.ProjectDetails
	res, err := s.run(ctx, "update_project", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateProjectDetails(projectID, patch)
		return projectID, err
	})
	return updated, res, err
}

// UpdateBudget applies a partial update to the budget totals.
func (s *Service) UpdateBudget(ctx context.Context, projectID string, patch domain.BudgetPatch) (domain.BudgetData, Result, error) {
	var updated domain.BudgetData
	res, err := s.run(ctx, "update_budget", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateBudget(projectID, patch)
		return projectID, err
	})
	return updated, res, err
}

// AddRAGEntry records a RAG history entry for the current period and lists it first.
func (s *Service) AddRAGEntry(ctx context.Context, projectID string, entry domain.RAGEntry) (domain.RAGEntry, Result, error) {
	var created domain.RAGEntry
	res, err := s.run(ctx, "add_rag_entry", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateRAGEntry(projectID, entry)
		return created.ID, err
	})
	return created, res, err
}

// UpdateRAGEntry mutates a RAG history entry.
func (s *Service) UpdateRAGEntry(ctx context.Context, projectID, id string, mutator func(*domain.RAGEntry) error) (domain.RAGEntry, Result, error) {
	var updated domain.RAGEntry
	res, err := s.run(ctx, "update_rag_entry", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateRAGEntry(projectID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteRAGEntry removes a RAG history entry.
func (s *Service) DeleteRAGEntry(ctx context.Context, projectID, id string) (Result, error) {
	return s.run(ctx, "delete_rag_entry", func(tx Transaction) (string, error) {
		return id, tx.DeleteRAGEntry(projectID, id)
	})
}

// AddQuickLink appends a quick link.
func (s *Service) AddQuickLink(ctx context.Context, projectID string, link domain.QuickLink) (domain.QuickLink, Result, error) {
	var created domain.QuickLink
	res, err := s.run(ctx, "add_quick_link", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateQuickLink(projectID, link)
		return created.ID, err
	})
	return created, res, err
}

// UpdateQuickLink mutates a quick link.
func (s *Service) UpdateQuickLink(ctx context.Context, projectID, id string, mutator func(*domain.QuickLink) error) (domain.QuickLink, Result, error) {
	var updated domain.QuickLink
	res, err := s.run(ctx, "update_quick_link", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateQuickLink(projectID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteQuickLink removes a quick link.
func (s *Service) DeleteQuickLink(ctx context.Context, projectID, id string) (Result, error) {
	return s.run(ctx, "delete_quick_link", func(tx Transaction) (string, error) {
		return id, tx.DeleteQuickLink(projectID, id)
	})
}

// AddAnnouncement adds a dated announcement at the top of the list.
func (s *Service) AddAnnouncement(ctx context.Context, projectID string, a domain.Announcement) (domain.Announcement, Result, error) {
	var created domain.Announcement
	res, err := s.run(ctx, "add_announcement", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateAnnouncement(projectID, a)
		return created.ID, err
	})
	return created, res, err
}

// UpdateAnnouncement mutates an announcement.
func (s *Service) UpdateAnnouncement(ctx context.Context, projectID, id string, mutator func(*domain.Announcement) error) (domain.Announcement, Result, error) {
	var updated domain.Announcement
	res, err := s.run(ctx, "update_announcement", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateAnnouncement(projectID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteAnnouncement removes an announcement.
func (s *Service) DeleteAnnouncement(ctx context.Context, projectID, id string) (Result, error) {
	return s.run(ctx, "delete_announcement", func(tx Transaction) (string, error) {
		return id, tx.DeleteAnnouncement(projectID, id)
	})
}

// AddDocument appends a project document stamped with version and modification data.
func (s *Service) AddDocument(ctx context.Context, projectID string, doc domain.ProjectDocument) (domain.ProjectDocument, Result, error) {
	var created domain.ProjectDocument
	res, err := s.run(ctx, "add_document", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateDocument(projectID, doc)
		return created.ID, err
	})
	return created, res, err
}

// UpdateDocument mutates a document and re-stamps its modification data.
func (s *Service) UpdateDocument(ctx context.Context, projectID, id string, mutator func(*domain.ProjectDocument) error) (domain.ProjectDocument, Result, error) {
	var updated domain.ProjectDocument
	res, err := s.run(ctx, "update_document", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateDocument(projectID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteDocument removes a document.
func (s *Service) DeleteDocument(ctx context.Context, projectID, id string) (Result, error) {
	return s.run(ctx, "delete_document", func(tx Transaction) (string, error) {
		return id, tx.DeleteDocument(projectID, id)
	})
}

// AddRisk appends a risk.
func (s *Service) AddRisk(ctx context.Context, projectID string, risk domain.ProjectRisk) (domain.ProjectRisk, Result, error) {
	var created domain.ProjectRisk
	res, err := s.run(ctx, "add_risk", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateRisk(projectID, risk)
		return created.ID, err
	})
	return created, res, err
}

// UpdateRisk mutates a risk.
func (s *Service) UpdateRisk(ctx context.Context, projectID, id string, mutator func(*domain.ProjectRisk) error) (domain.ProjectRisk, Result, error) {
	var updated domain.ProjectRisk
	res, err := s.run(ctx, "update_risk", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateRisk(projectID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteRisk removes a risk.
func (s *Service) DeleteRisk(ctx context.Context, projectID, id string) (Result, error) {
	return s.run(ctx, "delete_risk", func(tx Transaction) (string, error) {
		return id, tx.DeleteRisk(projectID, id)
	})
}

// AddIssue adds an issue at the top of the log.
func (s *Service) AddIssue(ctx context.Context, projectID string, issue domain.ProjectIssue) (domain.ProjectIssue, Result, error) {
	var created domain.ProjectIssue
	res, err := s.run(ctx, "add_issue", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateIssue(projectID, issue)
		return created.ID, err
	})
	return created, res, err
}

// UpdateIssue mutates an issue.
func (s *Service) UpdateIssue(ctx context.Context, projectID, id string, mutator func(*domain.ProjectIssue) error) (domain.ProjectIssue, Result, error) {
	var updated domain.ProjectIssue
	res, err := s.run(ctx, "update_issue", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateIssue(projectID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteIssue removes an issue.
func (s *Service) DeleteIssue(ctx context.Context, projectID, id string) (Result, error) {
	return s.run(ctx, "delete_issue", func(tx Transaction) (string, error) {
		return id, tx.DeleteIssue(projectID, id)
	})
}

// AddAction appends an action.
func (s *Service) AddAction(ctx context.Context, projectID string, action domain.ProjectAction) (domain.ProjectAction, Result, error) {
	var created domain.ProjectAction
	res, err := s.run(ctx, "add_action", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateAction(projectID, action)
		return created.ID, err
	})
	return created, res, err
}

// UpdateAction mutates an action.
func (s *Service) UpdateAction(ctx context.Context, projectID, id string, mutator func(*domain.ProjectAction) error) (domain.ProjectAction, Result, error) {
	var updated domain.ProjectAction
	res, err := s.run(ctx, "update_action", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateAction(projectID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteAction removes an action.
func (s *Service) DeleteAction(ctx context.Context, projectID, id string) (Result, error) {
	return s.run(ctx, "delete_action", func(tx Transaction) (string, error) {
		return id, tx.DeleteAction(projectID, id)
	})
}

// AddDependency appends a dependency.
func (s *Service) AddDependency(ctx context.Context, projectID string, dep domain.ProjectDependency) (domain.ProjectDependency, Result, error) {
	var created domain.ProjectDependency
	res, err := s.run(ctx, "add_dependency", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateDependency(projectID, dep)
		return created.ID, err
	})
	return created, res, err
}

// UpdateDependency mutates a dependency.
func (s *Service) UpdateDependency(ctx context.Context, projectID, id string, mutator func(*domain.ProjectDependency) error) (domain.ProjectDependency, Result, error) {
	var updated domain.ProjectDependency
	res, err := s.run(ctx, "update_dependency", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateDependency(projectID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteDependency removes a dependency.
func (s *Service) DeleteDependency(ctx context.Context, projectID, id string) (Result, error) {
	return s.run(ctx, "delete_dependency", func(tx Transaction) (string, error) {
		return id, tx.DeleteDependency(projectID, id)
	})
}

// AddAssumption appends an assumption.
func (s *Service) AddAssumption(ctx context.Context, projectID string, a domain.ProjectAssumption) (domain.ProjectAssumption, Result, error) {
	var created domain.ProjectAssumption
	res, err := s.run(ctx, "add_assumption", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateAssumption(projectID, a)
		return created.ID, err
	})
	return created, res, err
}

// UpdateAssumption mutates an assumption.
func (s *Service) UpdateAssumption(ctx context.Context, projectID, id string, mutator func(*domain.ProjectAssumption) error) (domain.ProjectAssumption, Result, error) {
	var updated domain.ProjectAssumption
	res, err := s.run(ctx, "update_assumption", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateAssumption(projectID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteAssumption removes an assumption.
func (s *Service) DeleteAssumption(ctx context.Context, projectID, id string) (Result, error) {
	return s.run(ctx, "delete_assumption", func(tx Transaction) (string, error) {
		return id, tx.DeleteAssumption(projectID, id)
	})
}

// AddLesson adds a lesson learned at the top of the list.
func (s *Service) AddLesson(ctx context.Context, projectID string, lesson domain.LessonLearned) (domain.LessonLearned, Result, error) {
	var created domain.LessonLearned
	res, err := s.run(ctx, "add_lesson", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateLesson(projectID, lesson)
		return created.ID, err
	})
	return created, res, err
}

// UpdateLesson mutates a lesson learned.
func (s *Service) UpdateLesson(ctx context.Context, projectID, id string, mutator func(*domain.LessonLearned) error) (domain.LessonLearned, Result, error) {
	var updated domain.LessonLearned
	res, err := s.run(ctx, "update_lesson", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateLesson(projectID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteLesson removes a lesson learned.
func (s *Service) DeleteLesson(ctx context.Context, projectID, id string) (Result, error) {
	return s.run(ctx, "delete_lesson", func(tx Transaction) (string, error) {
		return id, tx.DeleteLesson(projectID, id)
	})
}

// AddStatusUpdate adds a status update at the top of the list.
func (s *Service) AddStatusUpdate(ctx context.Context, projectID string, update domain.StatusUpdate) (domain.StatusUpdate, Result, error) {
	var created domain.StatusUpdate
	res, err := s.run(ctx, "add_status_update", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateStatusUpdate(projectID, update)
		return created.ID, err
	})
	return created, res, err
}

// UpdateStatusUpdate mutates a status update.
func (s *Service) UpdateStatusUpdate(ctx context.Context, projectID, id string, mutator func(*domain.StatusUpdate) error) (domain.StatusUpdate, Result, error) {
	var updated domain.StatusUpdate
	res, err := s.run(ctx, "update_status_update", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateStatusUpdate(projectID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteStatusUpdate removes a status update.
func (s *Service) DeleteStatusUpdate(ctx context.Context, projectID, id string) (Result, error) {
	return s.run(ctx, "delete_status_update", func(tx Transaction) (string, error) {
		return id, tx.DeleteStatusUpdate(projectID, id)
	})
}

// AddBudgetCategory appends a budget breakdown line.
func (s *Service) AddBudgetCategory(ctx context.Context, projectID string, cat domain.BudgetCategory) (domain.BudgetCategory, Result, error) {
	var created domain.BudgetCategory
	res, err := s.run(ctx, "add_budget_category", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateBudgetCategory(projectID, cat)
		return created.ID, err
	})
	return created, res, err
}

// UpdateBudgetCategory mutates a budget breakdown line.
func (s *Service) UpdateBudgetCategory(ctx context.Context, projectID, id string, mutator func(*domain.BudgetCategory) error) (domain.BudgetCategory, Result, error) {
	var updated domain.BudgetCategory
	res, err := s.run(ctx, "update_budget_category", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateBudgetCategory(projectID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteBudgetCategory removes a budget breakdown line.
func (s *Service) DeleteBudgetCategory(ctx context.Context, projectID, id string) (Result, error) {
	return s.run(ctx, "delete_budget_category", func(tx Transaction) (string, error) {
		return id, tx.DeleteBudgetCategory(projectID, id)
	})
}

// AddResource appends a resource assignment.
func (s *Service) AddResource(ctx context.Context, projectID string, r domain.ProjectResource) (domain.ProjectResource, Result, error) {
	var created domain.ProjectResource
	res, err := s.run(ctx, "add_resource", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateResource(projectID, r)
		return created.ID, err
	})
	return created, res, err
}

// UpdateResource mutates a resource assignment.
func (s *Service) UpdateResource(ctx context.Context, projectID, id string, mutator func(*domain.ProjectResource) error) (domain.ProjectResource, Result, error) {
	var updated domain.ProjectResource
	res, err := s.run(ctx, "update_resource", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateResource(projectID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteResource removes a resource assignment.
func (s *Service) DeleteResource(ctx context.Context, projectID, id string) (Result, error) {
	return s.run(ctx, "delete_resource", func(tx Transaction) (string, error) {
		return id, tx.DeleteResource(projectID, id)
	})
}
