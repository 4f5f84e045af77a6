package memory

import (
	"strconv"

	"ocmhub/pkg/domain"
)

func categoryIndex(cats []domain.AssetCategory, id string) int {
	return indexOf(cats, func(c domain.AssetCategory) bool { return c.ID == id })
}

func linkIndex(links []domain.AssetLink, id string) int {
	return indexOf(links, func(l domain.AssetLink) bool { return l.ID == id })
}

// dropLinkData removes the documents and key updates hanging off the given
// link ids.
func dropLinkData(p *domain.ProjectDetails, linkIDs ...string) {
	p.AssetDocuments = withoutKeys(p.AssetDocuments, linkIDs...)
	p.KeyUpdates = withoutKeys(p.KeyUpdates, linkIDs...)
	p.KeyUpdateSeq = withoutKeys(p.KeyUpdateSeq, linkIDs...)
}

func (tx *transaction) category(projectID, categoryID string) (domain.ProjectDetails, int, error) {
	p, err := tx.project(projectID)
	if err != nil {
		return domain.ProjectDetails{}, -1, err
	}
	i := categoryIndex(p.ProjectAssets, categoryID)
	if i < 0 {
		return domain.ProjectDetails{}, -1, domain.ErrNotFound{Entity: domain.EntityAssetCategory, ID: categoryID}
	}
	return p, i, nil
}

// CreateAssetCategory appends a category. Links supplied with it receive
// fresh ids.
func (tx *transaction) CreateAssetCategory(projectID string, c domain.AssetCategory) (domain.AssetCategory, error) {
	p, err := tx.project(projectID)
	if err != nil {
		return domain.AssetCategory{}, err
	}
	if err := c.Validate(); err != nil {
		return domain.AssetCategory{}, err
	}
	c.ID = tx.newID(domain.PrefixAssetCategory)
	links := make([]domain.AssetLink, 0, len(c.Links))
	for _, l := range c.Links {
		if err := l.Validate(); err != nil {
			return domain.AssetCategory{}, err
		}
		l.ID = tx.newID(domain.PrefixAssetLink)
		links = append(links, l)
	}
	c.Links = links
	p.ProjectAssets = appendCopy(p.ProjectAssets, c)
	tx.putProject(p)
	tx.recordChange(Change{Entity: domain.EntityAssetCategory, Action: domain.ActionCreate, Path: []string{projectID, c.ID}, After: c})
	return c, nil
}

// UpdateAssetCategory mutates the category title; its links are preserved.
func (tx *transaction) UpdateAssetCategory(projectID, id string, mutator func(*domain.AssetCategory) error) (domain.AssetCategory, error) {
	p, i, err := tx.category(projectID, id)
	if err != nil {
		return domain.AssetCategory{}, err
	}
	before := p.ProjectAssets[i]
	current := before
	current.Links = append([]domain.AssetLink(nil), before.Links...)
	if err := mutator(&current); err != nil {
		return domain.AssetCategory{}, err
	}
	current.ID = id
	current.Links = before.Links
	if err := current.Validate(); err != nil {
		return domain.AssetCategory{}, err
	}
	p.ProjectAssets = replaceAt(p.ProjectAssets, i, current)
	tx.putProject(p)
	tx.recordChange(Change{Entity: domain.EntityAssetCategory, Action: domain.ActionUpdate, Path: []string{projectID, id}, Before: before, After: current})
	return current, nil
}

// DeleteAssetCategory removes a category and the data of all of its links.
func (tx *transaction) DeleteAssetCategory(projectID, id string) error {
	p, i, err := tx.category(projectID, id)
	if err != nil {
		return err
	}
	before := p.ProjectAssets[i]
	p.ProjectAssets = removeAt(p.ProjectAssets, i)
	linkIDs := make([]string, 0, len(before.Links))
	for _, l := range before.Links {
		linkIDs = append(linkIDs, l.ID)
	}
	dropLinkData(&p, linkIDs...)
	tx.putProject(p)
	tx.recordChange(Change{Entity: domain.EntityAssetCategory, Action: domain.ActionDelete, Path: []string{projectID, id}, Before: before})
	return nil
}

func (tx *transaction) CreateAssetLink(projectID, categoryID string, l domain.AssetLink) (domain.AssetLink, error) {
	p, i, err := tx.category(projectID, categoryID)
	if err != nil {
		return domain.AssetLink{}, err
	}
	if err := l.Validate(); err != nil {
		return domain.AssetLink{}, err
	}
	l.ID = tx.newID(domain.PrefixAssetLink)
	c := p.ProjectAssets[i]
	c.Links = appendCopy(c.Links, l)
	p.ProjectAssets = replaceAt(p.ProjectAssets, i, c)
	tx.putProject(p)
	tx.recordChange(Change{Entity: domain.EntityAssetLink, Action: domain.ActionCreate, Path: []string{projectID, categoryID, l.ID}, After: l})
	return l, nil
}

func (tx *transaction) UpdateAssetLink(projectID, categoryID, id string, mutator func(*domain.AssetLink) error) (domain.AssetLink, error) {
	p, i, err := tx.category(projectID, categoryID)
	if err != nil {
		return domain.AssetLink{}, err
	}
	c := p.ProjectAssets[i]
	li := linkIndex(c.Links, id)
	if li < 0 {
		return domain.AssetLink{}, domain.ErrNotFound{Entity: domain.EntityAssetLink, ID: id}
	}
	before := c.Links[li]
	current := before
	if err := mutator(&current); err != nil {
		return domain.AssetLink{}, err
	}
	current.ID = id
	if err := current.Validate(); err != nil {
		return domain.AssetLink{}, err
	}
	c.Links = replaceAt(c.Links, li, current)
	p.ProjectAssets = replaceAt(p.ProjectAssets, i, c)
	tx.putProject(p)
	tx.recordChange(Change{Entity: domain.EntityAssetLink, Action: domain.ActionUpdate, Path: []string{projectID, categoryID, id}, Before: before, After: current})
	return current, nil
}

// DeleteAssetLink removes a link together with its documents and key updates.
func (tx *transaction) DeleteAssetLink(projectID, categoryID, id string) error {
	p, i, err := tx.category(projectID, categoryID)
	if err != nil {
		return err
	}
	c := p.ProjectAssets[i]
	li := linkIndex(c.Links, id)
	if li < 0 {
		return domain.ErrNotFound{Entity: domain.EntityAssetLink, ID: id}
	}
	before := c.Links[li]
	c.Links = removeAt(c.Links, li)
	p.ProjectAssets = replaceAt(p.ProjectAssets, i, c)
	dropLinkData(&p, id)
	tx.putProject(p)
	tx.recordChange(Change{Entity: domain.EntityAssetLink, Action: domain.ActionDelete, Path: []string{projectID, categoryID, id}, Before: before})
	return nil
}

func (tx *transaction) linkedProject(projectID, linkID string) (domain.ProjectDetails, error) {
	p, err := tx.project(projectID)
	if err != nil {
		return domain.ProjectDetails{}, err
	}
	if _, _, ok := p.FindAssetLink(linkID); !ok {
		return domain.ProjectDetails{}, domain.ErrNotFound{Entity: domain.EntityAssetLink, ID: linkID}
	}
	return p, nil
}

// CreateAssetDocument attaches a document to an existing asset link.
func (tx *transaction) CreateAssetDocument(projectID, linkID string, d domain.ProjectDocument) (domain.ProjectDocument, error) {
	p, err := tx.linkedProject(projectID, linkID)
	if err != nil {
		return domain.ProjectDocument{}, err
	}
	d.ID = tx.newID(domain.PrefixDocument)
	stampDocument(&d, tx.now)
	if err := d.Validate(); err != nil {
		return domain.ProjectDocument{}, err
	}
	p.AssetDocuments = withKey(p.AssetDocuments, linkID, appendCopy(p.AssetDocuments[linkID], d))
	tx.putProject(p)
	tx.recordChange(Change{Entity: domain.EntityAssetDocument, Action: domain.ActionCreate, Path: []string{projectID, linkID, d.ID}, After: d})
	return d, nil
}

// UpdateAssetDocument mutates a document of an asset link and re-stamps it.
func (tx *transaction) UpdateAssetDocument(projectID, linkID, id string, mutator func(*domain.ProjectDocument) error) (domain.ProjectDocument, error) {
	p, err := tx.linkedProject(projectID, linkID)
	if err != nil {
		return domain.ProjectDocument{}, err
	}
	docs := p.AssetDocuments[linkID]
	i := indexOf(docs, func(d domain.ProjectDocument) bool { return d.ID == id })
	if i < 0 {
		return domain.ProjectDocument{}, domain.ErrNotFound{Entity: domain.EntityAssetDocument, ID: id}
	}
	before := docs[i]
	current := before
	if err := mutator(&current); err != nil {
		return domain.ProjectDocument{}, err
	}
	current.ID = id
	restampDocument(&current, before, tx.now)
	if err := current.Validate(); err != nil {
		return domain.ProjectDocument{}, err
	}
	p.AssetDocuments = withKey(p.AssetDocuments, linkID, replaceAt(docs, i, current))
	tx.putProject(p)
	tx.recordChange(Change{Entity: domain.EntityAssetDocument, Action: domain.ActionUpdate, Path: []string{projectID, linkID, id}, Before: before, After: current})
	return current, nil
}

func (tx *transaction) DeleteAssetDocument(projectID, linkID, id string) error {
	p, err := tx.linkedProject(projectID, linkID)
	if err != nil {
		return err
	}
	docs := p.AssetDocuments[linkID]
	i := indexOf(docs, func(d domain.ProjectDocument) bool { return d.ID == id })
	if i < 0 {
		return domain.ErrNotFound{Entity: domain.EntityAssetDocument, ID: id}
	}
	before := docs[i]
	p.AssetDocuments = withKey(p.AssetDocuments, linkID, removeAt(docs, i))
	tx.putProject(p)
	tx.recordChange(Change{Entity: domain.EntityAssetDocument, Action: domain.ActionDelete, Path: []string{projectID, linkID, id}, Before: before})
	return nil
}

func nextKeyUpdateID(rows []domain.KeyUpdateItem) int {
	next := 1
	for _, r := range rows {
		if r.ID >= next {
			next = r.ID + 1
		}
	}
	return next
}

// CreateKeyUpdate appends a reporting row to an asset link. Row ids are
// allocated above both the rows present and the link's high-water mark.
func (tx *transaction) CreateKeyUpdate(projectID, linkID string, k domain.KeyUpdateItem) (domain.KeyUpdateItem, error) {
	p, err := tx.linkedProject(projectID, linkID)
	if err != nil {
		return domain.KeyUpdateItem{}, err
	}
	if err := k.Validate(); err != nil {
		return domain.KeyUpdateItem{}, err
	}
	rows := p.KeyUpdates[linkID]
	k.ID = max(nextKeyUpdateID(rows), p.KeyUpdateSeq[linkID]+1)
	p.KeyUpdates = withKey(p.KeyUpdates, linkID, appendCopy(rows, k))
	p.KeyUpdateSeq = withKey(p.KeyUpdateSeq, linkID, k.ID)
	tx.putProject(p)
	tx.recordChange(Change{Entity: domain.EntityKeyUpdate, Action: domain.ActionCreate, Path: []string{projectID, linkID, strconv.Itoa(k.ID)}, After: k})
	return k, nil
}

func (tx *transaction) UpdateKeyUpdate(projectID, linkID string, id int, mutator func(*domain.KeyUpdateItem) error) (domain.KeyUpdateItem, error) {
	p, err := tx.linkedProject(projectID, linkID)
	if err != nil {
		return domain.KeyUpdateItem{}, err
	}
	rows := p.KeyUpdates[linkID]
	i := indexOf(rows, func(r domain.KeyUpdateItem) bool { return r.ID == id })
	if i < 0 {
		return domain.KeyUpdateItem{}, domain.ErrNotFound{Entity: domain.EntityKeyUpdate, ID: strconv.Itoa(id)}
	}
	before := rows[i]
	current := before
	if err := mutator(&current); err != nil {
		return domain.KeyUpdateItem{}, err
	}
	current.ID = id
	if err := current.Validate(); err != nil {
		return domain.KeyUpdateItem{}, err
	}
	p.KeyUpdates = withKey(p.KeyUpdates, linkID, replaceAt(rows, i, current))
	tx.putProject(p)
	tx.recordChange(Change{Entity: domain.EntityKeyUpdate, Action: domain.ActionUpdate, Path: []string{projectID, linkID, strconv.Itoa(id)}, Before: before, After: current})
	return current, nil
}

func (tx *transaction) DeleteKeyUpdate(projectID, linkID string, id int) error {
	p, err := tx.linkedProject(projectID, linkID)
	if err != nil {
		return err
	}
	rows := p.KeyUpdates[linkID]
	i := indexOf(rows, func(r domain.KeyUpdateItem) bool { return r.ID == id })
	if i < 0 {
		return domain.ErrNotFound{Entity: domain.EntityKeyUpdate, ID: strconv.Itoa(id)}
	}
	before := rows[i]
	p.KeyUpdates = withKey(p.KeyUpdates, linkID, removeAt(rows, i))
	tx.putProject(p)
	tx.recordChange(Change{Entity: domain.EntityKeyUpdate, Action: domain.ActionDelete, Path: []string{projectID, linkID, strconv.Itoa(id)}, Before: before})
	return nil
}
