package core

import (
	"context"

	"ocmhub/pkg/domain"
)

// AddHomeModule appends a home tile and derives its route path.
func (s *Service) AddHomeModule(ctx context.Context, m domain.HomeModule) (domain.HomeModule, Result, error) {
	var created domain.HomeModule
	res, err := s.run(ctx, "add_home_module", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateHomeModule(m)
		return created.ID, err
	})
	return created, res, err
}

// UpdateHomeModule mutates a home tile.
func (s *Service) UpdateHomeModule(ctx context.Context, id string, mutator func(*domain.HomeModule) error) (domain.HomeModule, Result, error) {
	var updated domain.HomeModule
	res, err := s.run(ctx, "update_home_module", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateHomeModule(id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteHomeModule removes a home tile.
func (s *Service) DeleteHomeModule(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_home_module", func(tx Transaction) (string, error) {
		return id, tx.DeleteHomeModule(id)
	})
}

// AddWorkbenchGroup appends an empty or pre-filled workbench group. Items
// supplied with the group are created through AddWorkbenchItem semantics.
func (s *Service) AddWorkbenchGroup(ctx context.Context, g domain.WorkbenchGroup) (domain.WorkbenchGroup, Result, error) {
	var created domain.WorkbenchGroup
	res, err := s.run(ctx, "add_workbench_group", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateWorkbenchGroup(g)
		return created.ID, err
	})
	return created, res, err
}

// UpdateWorkbenchGroup mutates a group's title.
func (s *Service) UpdateWorkbenchGroup(ctx context.Context, id string, mutator func(*domain.WorkbenchGroup) error) (domain.WorkbenchGroup, Result, error) {
	var updated domain.WorkbenchGroup
	res, err := s.run(ctx, "update_workbench_group", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateWorkbenchGroup(id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteWorkbenchGroup removes a group together with the projects of its items.
func (s *Service) DeleteWorkbenchGroup(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_workbench_group", func(tx Transaction) (string, error) {
		return id, tx.DeleteWorkbenchGroup(id)
	})
}

// AddWorkbenchItem appends an item to a group and creates its project aggregate.
func (s *Service) AddWorkbenchItem(ctx context.Context, groupID string, item domain.WorkbenchItem) (domain.WorkbenchItem, Result, error) {
	var created domain.WorkbenchItem
	res, err := s.run(ctx, "add_workbench_item", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateWorkbenchItem(groupID, item)
		return created.ID, err
	})
	return created, res, err
}

// UpdateWorkbenchItem mutates an item and mirrors title and description onto its project.
func (s *Service) UpdateWorkbenchItem(ctx context.Context, groupID, id string, mutator func(*domain.WorkbenchItem) error) (domain.WorkbenchItem, Result, error) {
	var updated domain.WorkbenchItem
	res, err := s.run(ctx, "update_workbench_item", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateWorkbenchItem(groupID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteWorkbenchItem removes an item and its project.
func (s *Service) DeleteWorkbenchItem(ctx context.Context, groupID, id string) (Result, error) {
	return s.run(ctx, "delete_workbench_item", func(tx Transaction) (string, error) {
		return id, tx.DeleteWorkbenchItem(groupID, id)
	})
}

// MoveWorkbenchItem moves an item to another group keeping its project.
func (s *Service) MoveWorkbenchItem(ctx context.Context, fromGroupID, id, toGroupID string) (domain.WorkbenchItem, Result, error) {
	var moved domain.WorkbenchItem
	res, err := s.run(ctx, "move_workbench_item", func(tx Transaction) (string, error) {
		var err error
		moved, err = tx.MoveWorkbenchItem(fromGroupID, id, toGroupID)
		return id, err
	})
	return moved, res, err
}

// AddOCMStep appends a setup step.
func (s *Service) AddOCMStep(ctx context.Context, step domain.OCMSetupStep) (domain.OCMSetupStep, Result, error) {
	var created domain.OCMSetupStep
	res, err := s.run(ctx, "add_ocm_step", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateOCMStep(step)
		return created.ID, err
	})
	return created, res, err
}

// UpdateOCMStep mutates a setup step.
func (s *Service) UpdateOCMStep(ctx context.Context, id string, mutator func(*domain.OCMSetupStep) error) (domain.OCMSetupStep, Result, error) {
	var updated domain.OCMSetupStep
	res, err := s.run(ctx, "update_ocm_step", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateOCMStep(id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteOCMStep removes a setup step.
func (s *Service) DeleteOCMStep(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_ocm_step", func(tx Transaction) (string, error) {
		return id, tx.DeleteOCMStep(id)
	})
}

// SetOCMImageCard replaces the step's image card; nil clears it.
func (s *Service) SetOCMImageCard(ctx context.Context, stepID string, card *domain.OCMSetupImageCard) (domain.OCMSetupStep, Result, error) {
	var updated domain.OCMSetupStep
	res, err := s.run(ctx, "set_ocm_image_card", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.SetOCMImageCard(stepID, card)
		return stepID, err
	})
	return updated, res, err
}

// AddOCMTopic appends a topic group to a step.
func (s *Service) AddOCMTopic(ctx context.Context, stepID string, topic domain.OCMSetupTopicGroup) (domain.OCMSetupTopicGroup, Result, error) {
	var created domain.OCMSetupTopicGroup
	res, err := s.run(ctx, "add_ocm_topic", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateOCMTopic(stepID, topic)
		return created.ID, err
	})
	return created, res, err
}

// UpdateOCMTopic mutates a topic group.
func (s *Service) UpdateOCMTopic(ctx context.Context, stepID, id string, mutator func(*domain.OCMSetupTopicGroup) error) (domain.OCMSetupTopicGroup, Result, error) {
	var updated domain.OCMSetupTopicGroup
	res, err := s.run(ctx, "update_ocm_topic", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateOCMTopic(stepID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteOCMTopic removes a topic group.
func (s *Service) DeleteOCMTopic(ctx context.Context, stepID, id string) (Result, error) {
	return s.run(ctx, "delete_ocm_topic", func(tx Transaction) (string, error) {
		return id, tx.DeleteOCMTopic(stepID, id)
	})
}

// AddOCMItem appends a checklist item to a topic.
func (s *Service) AddOCMItem(ctx context.Context, stepID, topicID string, item domain.OCMSetupItem) (domain.OCMSetupItem, Result, error) {
	var created domain.OCMSetupItem
	res, err := s.run(ctx, "add_ocm_item", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateOCMItem(stepID, topicID, item)
		return created.ID, err
	})
	return created, res, err
}

// UpdateOCMItem mutates a checklist item.
func (s *Service) UpdateOCMItem(ctx context.Context, stepID, topicID, id string, mutator func(*domain.OCMSetupItem) error) (domain.OCMSetupItem, Result, error) {
	var updated domain.OCMSetupItem
	res, err := s.run(ctx, "update_ocm_item", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateOCMItem(stepID, topicID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteOCMItem removes a checklist item.
func (s *Service) DeleteOCMItem(ctx context.Context, stepID, topicID, id string) (Result, error) {
	return s.run(ctx, "delete_ocm_item", func(tx Transaction) (string, error) {
		return id, tx.DeleteOCMItem(stepID, topicID, id)
	})
}

// AddOCMSidebarLink appends a sidebar link to a step.
func (s *Service) AddOCMSidebarLink(ctx context.Context, stepID string, link domain.OCMSetupSidebarLink) (domain.OCMSetupSidebarLink, Result, error) {
	var created domain.OCMSetupSidebarLink
	res, err := s.run(ctx, "add_ocm_sidebar_link", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateOCMSidebarLink(stepID, link)
		return created.ID, err
	})
	return created, res, err
}

// UpdateOCMSidebarLink mutates a sidebar link.
func (s *Service) UpdateOCMSidebarLink(ctx context.Context, stepID, id string, mutator func(*domain.OCMSetupSidebarLink) error) (domain.OCMSetupSidebarLink, Result, error) {
	var updated domain.OCMSetupSidebarLink
	res, err := s.run(ctx, "update_ocm_sidebar_link", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateOCMSidebarLink(stepID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteOCMSidebarLink removes a sidebar link.
func (s *Service) DeleteOCMSidebarLink(ctx context.Context, stepID, id string) (Result, error) {
	return s.run(ctx, "delete_ocm_sidebar_link", func(tx Transaction) (string, error) {
		return id, tx.DeleteOCMSidebarLink(stepID, id)
	})
}
