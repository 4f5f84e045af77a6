package core

import (
	"context"
	"strconv"

	"ocmhub/pkg/domain"
)

// AddAssetCategory appends a change asset category to a project.
func (s *Service) AddAssetCategory(ctx context.Context, projectID string, c domain.AssetCategory) (domain.AssetCategory, Result, error) {
	var created domain.AssetCategory
	res, err := s.run(ctx, "add_asset_category", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateAssetCategory(projectID, c)
		return created.ID, err
	})
	return created, res, err
}

// UpdateAssetCategory mutates a category title.
func (s *Service) UpdateAssetCategory(ctx context.Context, projectID, id string, mutator func(*domain.AssetCategory) error) (domain.AssetCategory, Result, error) {
	var updated domain.AssetCategory
	res, err := s.run(ctx, "update_asset_category", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateAssetCategory(projectID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteAssetCategory removes a category along with the documents and key
// updates of its links.
func (s *Service) DeleteAssetCategory(ctx context.Context, projectID, id string) (Result, error) {
	return s.run(ctx, "delete_asset_category", func(tx Transaction) (string, error) {
		return id, tx.DeleteAssetCategory(projectID, id)
	})
}

// AddAssetLink appends a link to a category.
func (s *Service) AddAssetLink(ctx context.Context, projectID, categoryID string, l domain.AssetLink) (domain.AssetLink, Result, error) {
	var created domain.AssetLink
	res, err := s.run(ctx, "add_asset_link", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateAssetLink(projectID, categoryID, l)
		return created.ID, err
	})
	return created, res, err
}

// UpdateAssetLink mutates a link.
func (s *Service) UpdateAssetLink(ctx context.Context, projectID, categoryID, id string, mutator func(*domain.AssetLink) error) (domain.AssetLink, Result, error) {
	var updated domain.AssetLink
	res, err := s.run(ctx, "update_asset_link", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateAssetLink(projectID, categoryID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteAssetLink removes a link and the data keyed by it.
func (s *Service) DeleteAssetLink(ctx context.Context, projectID, categoryID, id string) (Result, error) {
	return s.run(ctx, "delete_asset_link", func(tx Transaction) (string, error) {
		return id, tx.DeleteAssetLink(projectID, categoryID, id)
	})
}

// AddAssetDocument attaches a document to an asset link.
func (s *Service) AddAssetDocument(ctx context.Context, projectID, linkID string, d domain.ProjectDocument) (domain.ProjectDocument, Result, error) {
	var created domain.ProjectDocument
	res, err := s.run(ctx, "add_asset_document", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateAssetDocument(projectID, linkID, d)
		return created.ID, err
	})
	return created, res, err
}

// UpdateAssetDocument mutates a link document and re-stamps it.
func (s *Service) UpdateAssetDocument(ctx context.Context, projectID, linkID, id string, mutator func(*domain.ProjectDocument) error) (domain.ProjectDocument, Result, error) {
	var updated domain.ProjectDocument
	res, err := s.run(ctx, "update_asset_document", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateAssetDocument(projectID, linkID, id, mutator)
		return id, err
	})
	return updated, res, err
}

// DeleteAssetDocument removes a link document.
func (s *Service) DeleteAssetDocument(ctx context.Context, projectID, linkID, id string) (Result, error) {
	return s.run(ctx, "delete_asset_document", func(tx Transaction) (string, error) {
		return id, tx.DeleteAssetDocument(projectID, linkID, id)
	})
}

// AddKeyUpdate appends a reporting row to a link. Row ids are numeric and
// allocated per link.
func (s *Service) AddKeyUpdate(ctx context.Context, projectID, linkID string, k domain.KeyUpdateItem) (domain.KeyUpdateItem, Result, error) {
	var created domain.KeyUpdateItem
	res, err := s.run(ctx, "add_key_update", func(tx Transaction) (string, error) {
		var err error
		created, err = tx.CreateKeyUpdate(projectID, linkID, k)
		return strconv.Itoa(created.ID), err
	})
	return created, res, err
}

// UpdateKeyUpdate mutates a reporting row.
func (s *Service) UpdateKeyUpdate(ctx context.Context, projectID, linkID string, id int, mutator func(*domain.KeyUpdateItem) error) (domain.KeyUpdateItem, Result, error) {
	var updated domain.KeyUpdateItem
	res, err := s.run(ctx, "update_key_update", func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateKeyUpdate(projectID, linkID, id, mutator)
		return strconv.Itoa(id), err
	})
	return updated, res, err
}

// DeleteKeyUpdate removes a reporting row.
func (s *Service) DeleteKeyUpdate(ctx context.Context, projectID, linkID string, id int) (Result, error) {
	return s.run(ctx, "delete_key_update", func(tx Transaction) (string, error) {
		return strconv.Itoa(id), tx.DeleteKeyUpdate(projectID, linkID, id)
	})
}
