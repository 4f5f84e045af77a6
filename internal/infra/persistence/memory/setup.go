package memory

import "ocmhub/pkg/domain"

func stepIndex(steps []domain.OCMSetupStep, id string) int {
	return indexOf(steps, func(s domain.OCMSetupStep) bool { return s.ID == id })
}

func topicIndex(topics []domain.OCMSetupTopicGroup, id string) int {
	return indexOf(topics, func(t domain.OCMSetupTopicGroup) bool { return t.ID == id })
}

func (tx *transaction) step(id string) (int, domain.OCMSetupStep, error) {
	i := stepIndex(tx.state.OCMSetup, id)
	if i < 0 {
		return -1, domain.OCMSetupStep{}, domain.ErrNotFound{Entity: domain.EntityOCMStep, ID: id}
	}
	return i, tx.state.OCMSetup[i], nil
}

func (tx *transaction) topic(stepID, topicID string) (int, domain.OCMSetupStep, int, error) {
	si, s, err := tx.step(stepID)
	if err != nil {
		return -1, domain.OCMSetupStep{}, -1, err
	}
	ti := topicIndex(s.Topics, topicID)
	if ti < 0 {
		return -1, domain.OCMSetupStep{}, -1, domain.ErrNotFound{Entity: domain.EntityOCMTopic, ID: topicID}
	}
	return si, s, ti, nil
}

func (tx *transaction) putStep(i int, s domain.OCMSetupStep) {
	tx.state.OCMSetup = replaceAt(tx.state.OCMSetup, i, s)
}

// assignTopic gives a topic and its items fresh ids.
func (tx *transaction) assignTopic(t domain.OCMSetupTopicGroup) (domain.OCMSetupTopicGroup, error) {
	if err := t.Validate(); err != nil {
		return t, err
	}
	t.ID = tx.newID(domain.PrefixOCMTopic)
	items := make([]domain.OCMSetupItem, 0, len(t.Items))
	for _, it := range t.Items {
		if err := it.Validate(); err != nil {
			return t, err
		}
		it.ID = tx.newID(domain.PrefixOCMItem)
		items = append(items, it)
	}
	t.Items = items
	return t, nil
}

// CreateOCMStep appends a setup step. Nested topics, items and sidebar links
// receive fresh ids.
func (tx *transaction) CreateOCMStep(s domain.OCMSetupStep) (domain.OCMSetupStep, error) {
	if err := s.Validate(); err != nil {
		return domain.OCMSetupStep{}, err
	}
	s.ID = tx.newID(domain.PrefixOCMStep)
	topics := make([]domain.OCMSetupTopicGroup, 0, len(s.Topics))
	for _, t := range s.Topics {
		assigned, err := tx.assignTopic(t)
		if err != nil {
			return domain.OCMSetupStep{}, err
		}
		topics = append(topics, assigned)
	}
	s.Topics = topics
	links := make([]domain.OCMSetupSidebarLink, 0, len(s.SidebarLinks))
	for _, l := range s.SidebarLinks {
		if err := l.Validate(); err != nil {
			return domain.OCMSetupStep{}, err
		}
		l.ID = tx.newID(domain.PrefixOCMSidebarLink)
		links = append(links, l)
	}
	s.SidebarLinks = links
	if s.ImageCard != nil {
		card := *s.ImageCard
		s.ImageCard = &card
	}
	tx.state.OCMSetup = appendCopy(tx.state.OCMSetup, s)
	tx.recordChange(Change{Entity: domain.EntityOCMStep, Action: domain.ActionCreate, Path: []string{s.ID}, After: s})
	return s, nil
}

// UpdateOCMStep mutates the step header fields. Topics and sidebar links are
// managed through their own operations and are preserved.
func (tx *transaction) UpdateOCMStep(id string, mutator func(*domain.OCMSetupStep) error) (domain.OCMSetupStep, error) {
	i, before, err := tx.step(id)
	if err != nil {
		return domain.OCMSetupStep{}, err
	}
	current := before.Clone()
	if err := mutator(&current); err != nil {
		return domain.OCMSetupStep{}, err
	}
	current.ID = id
	current.Topics = before.Topics
	current.SidebarLinks = before.SidebarLinks
	if err := current.Validate(); err != nil {
		return domain.OCMSetupStep{}, err
	}
	tx.putStep(i, current)
	tx.recordChange(Change{Entity: domain.EntityOCMStep, Action: domain.ActionUpdate, Path: []string{id}, Before: before, After: current})
	return current, nil
}

func (tx *transaction) DeleteOCMStep(id string) error {
	i, before, err := tx.step(id)
	if err != nil {
		return err
	}
	tx.state.OCMSetup = removeAt(tx.state.OCMSetup, i)
	tx.recordChange(Change{Entity: domain.EntityOCMStep, Action: domain.ActionDelete, Path: []string{id}, Before: before})
	return nil
}

// SetOCMImageCard replaces the image card of a step; nil removes it.
func (tx *transaction) SetOCMImageCard(stepID string, card *domain.OCMSetupImageCard) (domain.OCMSetupStep, error) {
	i, before, err := tx.step(stepID)
	if err != nil {
		return domain.OCMSetupStep{}, err
	}
	current := before
	current.ImageCard = nil
	action := domain.ActionDelete
	if card != nil {
		if err := card.Validate(); err != nil {
			return domain.OCMSetupStep{}, err
		}
		cp := *card
		current.ImageCard = &cp
		action = domain.ActionUpdate
		if before.ImageCard == nil {
			action = domain.ActionCreate
		}
	} else if before.ImageCard == nil {
		return before, nil
	}
	tx.putStep(i, current)
	tx.recordChange(Change{Entity: domain.EntityOCMImageCard, Action: action, Path: []string{stepID}, Before: before.ImageCard, After: current.ImageCard})
	return current, nil
}

func (tx *transaction) CreateOCMTopic(stepID string, t domain.OCMSetupTopicGroup) (domain.OCMSetupTopicGroup, error) {
	i, s, err := tx.step(stepID)
	if err != nil {
		return domain.OCMSetupTopicGroup{}, err
	}
	t, err = tx.assignTopic(t)
	if err != nil {
		return domain.OCMSetupTopicGroup{}, err
	}
	s.Topics = appendCopy(s.Topics, t)
	tx.putStep(i, s)
	tx.recordChange(Change{Entity: domain.EntityOCMTopic, Action: domain.ActionCreate, Path: []string{stepID, t.ID}, After: t})
	return t, nil
}

// UpdateOCMTopic mutates a topic title; its items are preserved.
func (tx *transaction) UpdateOCMTopic(stepID, id string, mutator func(*domain.OCMSetupTopicGroup) error) (domain.OCMSetupTopicGroup, error) {
	si, s, ti, err := tx.topic(stepID, id)
	if err != nil {
		return domain.OCMSetupTopicGroup{}, err
	}
	before := s.Topics[ti]
	current := before
	current.Items = append([]domain.OCMSetupItem(nil), before.Items...)
	if err := mutator(&current); err != nil {
		return domain.OCMSetupTopicGroup{}, err
	}
	current.ID = id
	current.Items = before.Items
	if err := current.Validate(); err != nil {
		return domain.OCMSetupTopicGroup{}, err
	}
	s.Topics = replaceAt(s.Topics, ti, current)
	tx.putStep(si, s)
	tx.recordChange(Change{Entity: domain.EntityOCMTopic, Action: domain.ActionUpdate, Path: []string{stepID, id}, Before: before, After: current})
	return current, nil
}

func (tx *transaction) DeleteOCMTopic(stepID, id string) error {
	si, s, ti, err := tx.topic(stepID, id)
	if err != nil {
		return err
	}
	before := s.Topics[ti]
	s.Topics = removeAt(s.Topics, ti)
	tx.putStep(si, s)
	tx.recordChange(Change{Entity: domain.EntityOCMTopic, Action: domain.ActionDelete, Path: []string{stepID, id}, Before: before})
	return nil
}

func (tx *transaction) CreateOCMItem(stepID, topicID string, it domain.OCMSetupItem) (domain.OCMSetupItem, error) {
	si, s, ti, err := tx.topic(stepID, topicID)
	if err != nil {
		return domain.OCMSetupItem{}, err
	}
	if err := it.Validate(); err != nil {
		return domain.OCMSetupItem{}, err
	}
	it.ID = tx.newID(domain.PrefixOCMItem)
	t := s.Topics[ti]
	t.Items = appendCopy(t.Items, it)
	s.Topics = replaceAt(s.Topics, ti, t)
	tx.putStep(si, s)
	tx.recordChange(Change{Entity: domain.EntityOCMItem, Action: domain.ActionCreate, Path: []string{stepID, topicID, it.ID}, After: it})
	return it, nil
}

func (tx *transaction) UpdateOCMItem(stepID, topicID, id string, mutator func(*domain.OCMSetupItem) error) (domain.OCMSetupItem, error) {
	si, s, ti, err := tx.topic(stepID, topicID)
	if err != nil {
		return domain.OCMSetupItem{}, err
	}
	t := s.Topics[ti]
	ii := indexOf(t.Items, func(it domain.OCMSetupItem) bool { return it.ID == id })
	if ii < 0 {
		return domain.OCMSetupItem{}, domain.ErrNotFound{Entity: domain.EntityOCMItem, ID: id}
	}
	before := t.Items[ii]
	current := before
	if err := mutator(&current); err != nil {
		return domain.OCMSetupItem{}, err
	}
	current.ID = id
	if err := current.Validate(); err != nil {
		return domain.OCMSetupItem{}, err
	}
	t.Items = replaceAt(t.Items, ii, current)
	s.Topics = replaceAt(s.Topics, ti, t)
	tx.putStep(si, s)
	tx.recordChange(Change{Entity: domain.EntityOCMItem, Action: domain.ActionUpdate, Path: []string{stepID, topicID, id}, Before: before, After: current})
	return current, nil
}

func (tx *transaction) DeleteOCMItem(stepID, topicID, id string) error {
	si, s, ti, err := tx.topic(stepID, topicID)
	if err != nil {
		return err
	}
	t := s.Topics[ti]
	ii := indexOf(t.Items, func(it domain.OCMSetupItem) bool { return it.ID == id })
	if ii < 0 {
		return domain.ErrNotFound{Entity: domain.EntityOCMItem, ID: id}
	}
	before := t.Items[ii]
	t.Items = removeAt(t.Items, ii)
	s.Topics = replaceAt(s.Topics, ti, t)
	tx.putStep(si, s)
	tx.recordChange(Change{Entity: domain.EntityOCMItem, Action: domain.ActionDelete, Path: []string{stepID, topicID, id}, Before: before})
	return nil
}

func (tx *transaction) CreateOCMSidebarLink(stepID string, l domain.OCMSetupSidebarLink) (domain.OCMSetupSidebarLink, error) {
	i, s, err := tx.step(stepID)
	if err != nil {
		return domain.OCMSetupSidebarLink{}, err
	}
	if err := l.Validate(); err != nil {
		return domain.OCMSetupSidebarLink{}, err
	}
	l.ID = tx.newID(domain.PrefixOCMSidebarLink)
	s.SidebarLinks = appendCopy(s.SidebarLinks, l)
	tx.putStep(i, s)
	tx.recordChange(Change{Entity: domain.EntityOCMSidebarLink, Action: domain.ActionCreate, Path: []string{stepID, l.ID}, After: l})
	return l, nil
}

func (tx *transaction) UpdateOCMSidebarLink(stepID, id string, mutator func(*domain.OCMSetupSidebarLink) error) (domain.OCMSetupSidebarLink, error) {
	i, s, err := tx.step(stepID)
	if err != nil {
		return domain.OCMSetupSidebarLink{}, err
	}
	li := indexOf(s.SidebarLinks, func(l domain.OCMSetupSidebarLink) bool { return l.ID == id })
	if li < 0 {
		return domain.OCMSetupSidebarLink{}, domain.ErrNotFound{Entity: domain.EntityOCMSidebarLink, ID: id}
	}
	before := s.SidebarLinks[li]
	current := before
	if err := mutator(&current); err != nil {
		return domain.OCMSetupSidebarLink{}, err
	}
	current.ID = id
	if err := current.Validate(); err != nil {
		return domain.OCMSetupSidebarLink{}, err
	}
	s.SidebarLinks = replaceAt(s.SidebarLinks, li, current)
	tx.putStep(i, s)
	tx.recordChange(Change{Entity: domain.EntityOCMSidebarLink, Action: domain.ActionUpdate, Path: []string{stepID, id}, Before: before, After: current})
	return current, nil
}

func (tx *transaction) DeleteOCMSidebarLink(stepID, id string) error {
	i, s, err := tx.step(stepID)
	if err != nil {
		return err
	}
	li := indexOf(s.SidebarLinks, func(l domain.OCMSetupSidebarLink) bool { return l.ID == id })
	if li < 0 {
		return domain.ErrNotFound{Entity: domain.EntityOCMSidebarLink, ID: id}
	}
	before := s.SidebarLinks[li]
	s.SidebarLinks = removeAt(s.SidebarLinks, li)
	tx.putStep(i, s)
	tx.recordChange(Change{Entity: domain.EntityOCMSidebarLink, Action: domain.ActionDelete, Path: []string{stepID, id}, Before: before})
	return nil
}
