package memory

import (
	"ocmhub/pkg/domain"
)

func homeModuleIndex(modules []domain.HomeModule, id string) int {
	return indexOf(modules, func(m domain.HomeModule) bool { return m.ID == id })
}

func (tx *transaction) pathTaken(exceptID string) func(string) bool {
	return func(path string) bool {
		for _, m := range tx.state.HomeModules {
			if m.ID != exceptID && m.Path == path {
				return true
			}
		}
		return false
	}
}

// CreateHomeModule appends a home module and derives its navigation path.
func (tx *transaction) CreateHomeModule(m domain.HomeModule) (domain.HomeModule, error) {
	if err := m.Validate(); err != nil {
		return domain.HomeModule{}, err
	}
	m.ID = tx.newID(domain.PrefixHomeModule)
	m.Path = domain.ModulePath(m, tx.pathTaken(m.ID))
	tx.state.HomeModules = appendCopy(tx.state.HomeModules, m)
	tx.recordChange(Change{Entity: domain.EntityHomeModule, Action: domain.ActionCreate, Path: []string{m.ID}, After: m})
	return m, nil
}

// UpdateHomeModule mutates a home module. The id is immutable and an empty
// path keeps the stored one.
func (tx *transaction) UpdateHomeModule(id string, mutator func(*domain.HomeModule) error) (domain.HomeModule, error) {
	i := homeModuleIndex(tx.state.HomeModules, id)
	if i < 0 {
		return domain.HomeModule{}, domain.ErrNotFound{Entity: domain.EntityHomeModule, ID: id}
	}
	before := tx.state.HomeModules[i]
	current := before
	if err := mutator(&current); err != nil {
		return domain.HomeModule{}, err
	}
	current.ID = id
	keepIfEmpty(&current.Path, before.Path)
	if err := current.Validate(); err != nil {
		return domain.HomeModule{}, err
	}
	tx.state.HomeModules = replaceAt(tx.state.HomeModules, i, current)
	tx.recordChange(Change{Entity: domain.EntityHomeModule, Action: domain.ActionUpdate, Path: []string{id}, Before: before, After: current})
	return current, nil
}

// DeleteHomeModule removes a home module.
func (tx *transaction) DeleteHomeModule(id string) error {
	i := homeModuleIndex(tx.state.HomeModules, id)
	if i < 0 {
		return domain.ErrNotFound{Entity: domain.EntityHomeModule, ID: id}
	}
	before := tx.state.HomeModules[i]
	tx.state.HomeModules = removeAt(tx.state.HomeModules, i)
	tx.recordChange(Change{Entity: domain.EntityHomeModule, Action: domain.ActionDelete, Path: []string{id}, Before: before})
	return nil
}

func groupIndex(groups []domain.WorkbenchGroup, id string) int {
	return indexOf(groups, func(g domain.WorkbenchGroup) bool { return g.ID == id })
}

func itemIndex(items []domain.WorkbenchItem, id string) int {
	return indexOf(items, func(it domain.WorkbenchItem) bool { return it.ID == id })
}

func (tx *transaction) group(id string) (int, domain.WorkbenchGroup, error) {
	i := groupIndex(tx.state.Workbench, id)
	if i < 0 {
		return -1, domain.WorkbenchGroup{}, domain.ErrNotFound{Entity: domain.EntityWorkbenchGroup, ID: id}
	}
	return i, tx.state.Workbench[i], nil
}

// CreateWorkbenchGroup appends a group. Items supplied with the group are
// created through CreateWorkbenchItem so each receives its project.
func (tx *transaction) CreateWorkbenchGroup(g domain.WorkbenchGroup) (domain.WorkbenchGroup, error) {
	if err := g.Validate(); err != nil {
		return domain.WorkbenchGroup{}, err
	}
	items := g.Items
	g.ID = tx.newID(domain.PrefixWorkbenchGroup)
	g.Items = []domain.WorkbenchItem{}
	tx.state.Workbench = appendCopy(tx.state.Workbench, g)
	tx.recordChange(Change{Entity: domain.EntityWorkbenchGroup, Action: domain.ActionCreate, Path: []string{g.ID}, After: g})
	for _, it := range items {
		if _, err := tx.CreateWorkbenchItem(g.ID, it); err != nil {
			return domain.WorkbenchGroup{}, err
		}
	}
	_, created, _ := tx.group(g.ID)
	return created, nil
}

// UpdateWorkbenchGroup mutates the group title. Items are managed through
// the item operations and are preserved.
func (tx *transaction) UpdateWorkbenchGroup(id string, mutator func(*domain.WorkbenchGroup) error) (domain.WorkbenchGroup, error) {
	i, before, err := tx.group(id)
	if err != nil {
		return domain.WorkbenchGroup{}, err
	}
	current := before
	current.Items = append([]domain.WorkbenchItem(nil), before.Items...)
	if err := mutator(&current); err != nil {
		return domain.WorkbenchGroup{}, err
	}
	current.ID = id
	current.Items = before.Items
	if err := current.Validate(); err != nil {
		return domain.WorkbenchGroup{}, err
	}
	tx.state.Workbench = replaceAt(tx.state.Workbench, i, current)
	tx.recordChange(Change{Entity: domain.EntityWorkbenchGroup, Action: domain.ActionUpdate, Path: []string{id}, Before: before, After: current})
	return current, nil
}

// DeleteWorkbenchGroup removes a group together with the projects of all
// of its items.
func (tx *transaction) DeleteWorkbenchGroup(id string) error {
	i, before, err := tx.group(id)
	if err != nil {
		return err
	}
	tx.state.Workbench = removeAt(tx.state.Workbench, i)
	for _, it := range before.Items {
		tx.removeProjectOf(id, it)
	}
	tx.recordChange(Change{Entity: domain.EntityWorkbenchGroup, Action: domain.ActionDelete, Path: []string{id}, Before: before})
	return nil
}

// CreateWorkbenchItem appends an item to a group and creates its project
// from the base template.
func (tx *transaction) CreateWorkbenchItem(groupID string, item domain.WorkbenchItem) (domain.WorkbenchItem, error) {
	i, g, err := tx.group(groupID)
	if err != nil {
		return domain.WorkbenchItem{}, err
	}
	if err := item.Validate(); err != nil {
		return domain.WorkbenchItem{}, err
	}
	item.ID = tx.newID(domain.PrefixWorkbenchItem)
	g.Items = appendCopy(g.Items, item)
	tx.state.Workbench = replaceAt(tx.state.Workbench, i, g)
	project := domain.NewProjectDetails(item)
	tx.putProject(project)
	tx.recordChange(Change{Entity: domain.EntityWorkbenchItem, Action: domain.ActionCreate, Path: []string{groupID, item.ID}, After: item})
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionCreate, Path: []string{project.ID}, After: project})
	return item, nil
}

// UpdateWorkbenchItem mutates an item and mirrors its title and description
// onto the paired project.
func (tx *transaction) UpdateWorkbenchItem(groupID, id string, mutator func(*domain.WorkbenchItem) error) (domain.WorkbenchItem, error) {
	gi, g, err := tx.group(groupID)
	if err != nil {
		return domain.WorkbenchItem{}, err
	}
	ii := itemIndex(g.Items, id)
	if ii < 0 {
		return domain.WorkbenchItem{}, domain.ErrNotFound{Entity: domain.EntityWorkbenchItem, ID: id}
	}
	before := g.Items[ii]
	current := before
	if err := mutator(&current); err != nil {
		return domain.WorkbenchItem{}, err
	}
	current.ID = id
	if err := current.Validate(); err != nil {
		return domain.WorkbenchItem{}, err
	}
	g.Items = replaceAt(g.Items, ii, current)
	tx.state.Workbench = replaceAt(tx.state.Workbench, gi, g)
	tx.recordChange(Change{Entity: domain.EntityWorkbenchItem, Action: domain.ActionUpdate, Path: []string{groupID, id}, Before: before, After: current})

	if p, ok := tx.state.Projects[id]; ok {
		prev := p
		p.Name = current.Title
		p.Description = current.Description
		tx.putProject(p)
		tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionUpdate, Path: []string{id}, Before: prev, After: p})
	}
	return current, nil
}

// DeleteWorkbenchItem removes an item and its project.
func (tx *transaction) DeleteWorkbenchItem(groupID, id string) error {
	gi, g, err := tx.group(groupID)
	if err != nil {
		return err
	}
	ii := itemIndex(g.Items, id)
	if ii < 0 {
		return domain.ErrNotFound{Entity: domain.EntityWorkbenchItem, ID: id}
	}
	before := g.Items[ii]
	g.Items = removeAt(g.Items, ii)
	tx.state.Workbench = replaceAt(tx.state.Workbench, gi, g)
	tx.removeProjectOf(groupID, before)
	return nil
}

func (tx *transaction) removeProjectOf(groupID string, item domain.WorkbenchItem) {
	tx.recordChange(Change{Entity: domain.EntityWorkbenchItem, Action: domain.ActionDelete, Path: []string{groupID, item.ID}, Before: item})
	if p, ok := tx.state.Projects[item.ID]; ok {
		tx.dropProject(item.ID)
		tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionDelete, Path: []string{item.ID}, Before: p})
	}
}

// MoveWorkbenchItem moves an item between groups. The item keeps its id and
// project and is appended to the target group.
func (tx *transaction) MoveWorkbenchItem(fromGroupID, id, toGroupID string) (domain.WorkbenchItem, error) {
	fi, from, err := tx.group(fromGroupID)
	if err != nil {
		return domain.WorkbenchItem{}, err
	}
	ii := itemIndex(from.Items, id)
	if ii < 0 {
		return domain.WorkbenchItem{}, domain.ErrNotFound{Entity: domain.EntityWorkbenchItem, ID: id}
	}
	item := from.Items[ii]
	ti, to, err := tx.group(toGroupID)
	if err != nil {
		return domain.WorkbenchItem{}, err
	}
	if fi == ti {
		return item, nil
	}
	from.Items = removeAt(from.Items, ii)
	to.Items = appendCopy(to.Items, item)
	groups := replaceAt(tx.state.Workbench, fi, from)
	groups[ti] = to
	tx.state.Workbench = groups
	tx.recordChange(Change{
		Entity: domain.EntityWorkbenchItem,
		Action: domain.ActionUpdate,
		Path:   []string{toGroupID, id},
		Before: map[string]string{"groupId": fromGroupID},
		After:  map[string]string{"groupId": toGroupID},
	})
	return item, nil
}
