package memory

import (
	"time"

	"ocmhub/pkg/domain"
)

// collection describes one id-keyed list nested inside a project aggregate.
type collection[T any] struct {
	entity      domain.EntityType
	prefix      string
	newestFirst bool
	get         func(*domain.ProjectDetails) []T
	set         func(*domain.ProjectDetails, []T)
	id          func(T) string
	setID       func(*T, string)
	// stamp fills derived values on create.
	stamp func(v *T, now time.Time)
	// restamp reconciles an updated value with the stored one.
	restamp  func(v *T, old T, now time.Time)
	validate func(T) error
}

func addToProject[T any](tx *transaction, projectID string, c collection[T], v T) (T, error) {
	var zero T
	p, err := tx.project(projectID)
	if err != nil {
		return zero, err
	}
	c.setID(&v, tx.newID(c.prefix))
	if c.stamp != nil {
		c.stamp(&v, tx.now)
	}
	if err := c.validate(v); err != nil {
		return zero, err
	}
	items := c.get(&p)
	if c.newestFirst {
		items = prependCopy(items, v)
	} else {
		items = appendCopy(items, v)
	}
	c.set(&p, items)
	tx.putProject(p)
	tx.recordChange(Change{Entity: c.entity, Action: domain.ActionCreate, Path: []string{projectID, c.id(v)}, After: v})
	return v, nil
}

func updateInProject[T any](tx *transaction, projectID, id string, c collection[T], mutator func(*T) error) (T, error) {
	var zero T
	p, err := tx.project(projectID)
	if err != nil {
		return zero, err
	}
	items := c.get(&p)
	i := indexOf(items, func(v T) bool { return c.id(v) == id })
	if i < 0 {
		return zero, domain.ErrNotFound{Entity: c.entity, ID: id}
	}
	before := items[i]
	current := before
	if err := mutator(&current); err != nil {
		return zero, err
	}
	c.setID(&current, id)
	if c.restamp != nil {
		c.restamp(&current, before, tx.now)
	}
	if err := c.validate(current); err != nil {
		return zero, err
	}
	c.set(&p, replaceAt(items, i, current))
	tx.putProject(p)
	tx.recordChange(Change{Entity: c.entity, Action: domain.ActionUpdate, Path: []string{projectID, id}, Before: before, After: current})
	return current, nil
}

func deleteFromProject[T any](tx *transaction, projectID, id string, c collection[T]) error {
	p, err := tx.project(projectID)
	if err != nil {
		return err
	}
	items := c.get(&p)
	i := indexOf(items, func(v T) bool { return c.id(v) == id })
	if i < 0 {
		return domain.ErrNotFound{Entity: c.entity, ID: id}
	}
	before := items[i]
	c.set(&p, removeAt(items, i))
	tx.putProject(p)
	tx.recordChange(Change{Entity: c.entity, Action: domain.ActionDelete, Path: []string{projectID, id}, Before: before})
	return nil
}

func stampDocument(d *domain.ProjectDocument, now time.Time) {
	if d.Version == "" {
		d.Version = domain.DefaultDocumentVersion
	}
	d.LastModified = domain.FormatDate(now)
	d.ModifiedBy = domain.DefaultModifiedBy
}

func restampDocument(d *domain.ProjectDocument, old domain.ProjectDocument, now time.Time) {
	keepIfEmpty(&d.Version, old.Version)
	d.LastModified = domain.FormatDate(now)
	d.ModifiedBy = domain.DefaultModifiedBy
}

var ragEntries = collection[domain.RAGEntry]{
	entity:      domain.EntityRAGEntry,
	prefix:      domain.PrefixRAGEntry,
	newestFirst: true,
	get:         func(p *domain.ProjectDetails) []domain.RAGEntry { return p.RAGHistory },
	set:         func(p *domain.ProjectDetails, v []domain.RAGEntry) { p.RAGHistory = v },
	id:          func(v domain.RAGEntry) string { return v.ID },
	setID:       func(v *domain.RAGEntry, id string) { v.ID = id },
	stamp:       func(v *domain.RAGEntry, now time.Time) { v.Period = domain.FormatPeriod(now) },
	restamp:     func(v *domain.RAGEntry, old domain.RAGEntry, _ time.Time) { keepIfEmpty(&v.Period, old.Period) },
	validate:    domain.RAGEntry.Validate,
}

var quickLinks = collection[domain.QuickLink]{
	entity:   domain.EntityQuickLink,
	prefix:   domain.PrefixQuickLink,
	get:      func(p *domain.ProjectDetails) []domain.QuickLink { return p.QuickLinks },
	set:      func(p *domain.ProjectDetails, v []domain.QuickLink) { p.QuickLinks = v },
	id:       func(v domain.QuickLink) string { return v.ID },
	setID:    func(v *domain.QuickLink, id string) { v.ID = id },
	validate: domain.QuickLink.Validate,
}

var announcements = collection[domain.Announcement]{
	entity:      domain.EntityAnnouncement,
	prefix:      domain.PrefixAnnouncement,
	newestFirst: true,
	get:         func(p *domain.ProjectDetails) []domain.Announcement { return p.Announcements },
	set:         func(p *domain.ProjectDetails, v []domain.Announcement) { p.Announcements = v },
	id:          func(v domain.Announcement) string { return v.ID },
	setID:       func(v *domain.Announcement, id string) { v.ID = id },
	stamp:       func(v *domain.Announcement, now time.Time) { v.Date = domain.FormatDate(now) },
	restamp:     func(v *domain.Announcement, old domain.Announcement, _ time.Time) { keepIfEmpty(&v.Date, old.Date) },
	validate:    domain.Announcement.Validate,
}

var documents = collection[domain.ProjectDocument]{
	entity:   domain.EntityDocument,
	prefix:   domain.PrefixDocument,
	get:      func(p *domain.ProjectDetails) []domain.ProjectDocument { return p.Documents },
	set:      func(p *domain.ProjectDetails, v []domain.ProjectDocument) { p.Documents = v },
	id:       func(v domain.ProjectDocument) string { return v.ID },
	setID:    func(v *domain.ProjectDocument, id string) { v.ID = id },
	stamp:    stampDocument,
	restamp:  restampDocument,
	validate: domain.ProjectDocument.Validate,
}

var risks = collection[domain.ProjectRisk]{
	entity:   domain.EntityRisk,
	prefix:   domain.PrefixRisk,
	get:      func(p *domain.ProjectDetails) []domain.ProjectRisk { return p.Risks },
	set:      func(p *domain.ProjectDetails, v []domain.ProjectRisk) { p.Risks = v },
	id:       func(v domain.ProjectRisk) string { return v.ID },
	setID:    func(v *domain.ProjectRisk, id string) { v.ID = id },
	validate: domain.ProjectRisk.Validate,
}

var issues = collection[domain.ProjectIssue]{
	entity:      domain.EntityIssue,
	prefix:      domain.PrefixIssue,
	newestFirst: true,
	get:         func(p *domain.ProjectDetails) []domain.ProjectIssue { return p.Issues },
	set:         func(p *domain.ProjectDetails, v []domain.ProjectIssue) { p.Issues = v },
	id:          func(v domain.ProjectIssue) string { return v.ID },
	setID:       func(v *domain.ProjectIssue, id string) { v.ID = id },
	stamp:       func(v *domain.ProjectIssue, now time.Time) { v.Reported = domain.FormatDate(now) },
	restamp:     func(v *domain.ProjectIssue, old domain.ProjectIssue, _ time.Time) { keepIfEmpty(&v.Reported, old.Reported) },
	validate:    domain.ProjectIssue.Validate,
}

var actions = collection[domain.ProjectAction]{
	entity:   domain.EntityAction,
	prefix:   domain.PrefixAction,
	get:      func(p *domain.ProjectDetails) []domain.ProjectAction { return p.Actions },
	set:      func(p *domain.ProjectDetails, v []domain.ProjectAction) { p.Actions = v },
	id:       func(v domain.ProjectAction) string { return v.ID },
	setID:    func(v *domain.ProjectAction, id string) { v.ID = id },
	validate: domain.ProjectAction.Validate,
}

var dependencies = collection[domain.ProjectDependency]{
	entity:   domain.EntityDependency,
	prefix:   domain.PrefixDependency,
	get:      func(p *domain.ProjectDetails) []domain.ProjectDependency { return p.Dependencies },
	set:      func(p *domain.ProjectDetails, v []domain.ProjectDependency) { p.Dependencies = v },
	id:       func(v domain.ProjectDependency) string { return v.ID },
	setID:    func(v *domain.ProjectDependency, id string) { v.ID = id },
	validate: domain.ProjectDependency.Validate,
}

var assumptions = collection[domain.ProjectAssumption]{
	entity: domain.EntityAssumption,
	prefix: domain.PrefixAssumption,
	get:    func(p *domain.ProjectDetails) []domain.ProjectAssumption { return p.Assumptions },
	set:    func(p *domain.ProjectDetails, v []domain.ProjectAssumption) { p.Assumptions = v },
	id:     func(v domain.ProjectAssumption) string { return v.ID },
	setID:  func(v *domain.ProjectAssumption, id string) { v.ID = id },
	stamp: func(v *domain.ProjectAssumption, now time.Time) {
		v.ValidatedDate = domain.FormatDate(now)
	},
	restamp: func(v *domain.ProjectAssumption, old domain.ProjectAssumption, _ time.Time) {
		keepIfEmpty(&v.ValidatedDate, old.ValidatedDate)
	},
	validate: domain.ProjectAssumption.Validate,
}

var lessons = collection[domain.LessonLearned]{
	entity:      domain.EntityLesson,
	prefix:      domain.PrefixLesson,
	newestFirst: true,
	get:         func(p *domain.ProjectDetails) []domain.LessonLearned { return p.LessonsLearned },
	set:         func(p *domain.ProjectDetails, v []domain.LessonLearned) { p.LessonsLearned = v },
	id:          func(v domain.LessonLearned) string { return v.ID },
	setID:       func(v *domain.LessonLearned, id string) { v.ID = id },
	stamp:       func(v *domain.LessonLearned, now time.Time) { v.Date = domain.FormatDate(now) },
	restamp:     func(v *domain.LessonLearned, old domain.LessonLearned, _ time.Time) { keepIfEmpty(&v.Date, old.Date) },
	validate:    domain.LessonLearned.Validate,
}

var statusUpdates = collection[domain.StatusUpdate]{
	entity:      domain.EntityStatusUpdate,
	prefix:      domain.PrefixStatusUpdate,
	newestFirst: true,
	get:         func(p *domain.ProjectDetails) []domain.StatusUpdate { return p.StatusUpdates },
	set:         func(p *domain.ProjectDetails, v []domain.StatusUpdate) { p.StatusUpdates = v },
	id:          func(v domain.StatusUpdate) string { return v.ID },
	setID:       func(v *domain.StatusUpdate, id string) { v.ID = id },
	stamp:       func(v *domain.StatusUpdate, now time.Time) { v.Date = domain.FormatDate(now) },
	restamp:     func(v *domain.StatusUpdate, old domain.StatusUpdate, _ time.Time) { keepIfEmpty(&v.Date, old.Date) },
	validate:    domain.StatusUpdate.Validate,
}

var budgetCategories = collection[domain.BudgetCategory]{
	entity:   domain.EntityBudgetCategory,
	prefix:   domain.PrefixBudgetCategory,
	get:      func(p *domain.ProjectDetails) []domain.BudgetCategory { return p.Budget.Breakdown },
	set:      func(p *domain.ProjectDetails, v []domain.BudgetCategory) { p.Budget.Breakdown = v },
	id:       func(v domain.BudgetCategory) string { return v.ID },
	setID:    func(v *domain.BudgetCategory, id string) { v.ID = id },
	validate: domain.BudgetCategory.Validate,
}

var resources = collection[domain.ProjectResource]{
	entity:   domain.EntityResource,
	prefix:   domain.PrefixResource,
	get:      func(p *domain.ProjectDetails) []domain.ProjectResource { return p.Resources },
	set:      func(p *domain.ProjectDetails, v []domain.ProjectResource) { p.Resources = v },
	id:       func(v domain.ProjectResource) string { return v.ID },
	setID:    func(v *domain.ProjectResource, id string) { v.ID = id },
	validate: domain.ProjectResource.Validate,
}

// UpdateProjectDetails applies a partial update to the scalar project fields.
func (tx *transaction) UpdateProjectDetails(projectID string, patch domain.ProjectDetailsPatch) (domain.ProjectDetails, error) {
	before, err := tx.project(projectID)
	if err != nil {
		return domain.ProjectDetails{}, err
	}
	current := before
	patch.Apply(&current)
	if err := current.Validate(); err != nil {
		return domain.ProjectDetails{}, err
	}
	tx.putProject(current)
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionUpdate, Path: []string{projectID}, Before: before, After: current})
	return current, nil
}

// UpdateBudget merges the supplied totals into the project budget.
func (tx *transaction) UpdateBudget(projectID string, patch domain.BudgetPatch) (domain.BudgetData, error) {
	p, err := tx.project(projectID)
	if err != nil {
		return domain.BudgetData{}, err
	}
	before := p.Budget
	patch.Apply(&p.Budget)
	if err := p.Budget.Validate(); err != nil {
		return domain.BudgetData{}, err
	}
	tx.putProject(p)
	tx.recordChange(Change{Entity: domain.EntityBudget, Action: domain.ActionUpdate, Path: []string{projectID}, Before: before, After: p.Budget})
	return p.Budget, nil
}

func (tx *transaction) CreateRAGEntry(projectID string, e domain.RAGEntry) (domain.RAGEntry, error) {
	return addToProject(tx, projectID, ragEntries, e)
}

func (tx *transaction) UpdateRAGEntry(projectID, id string, mutator func(*domain.RAGEntry) error) (domain.RAGEntry, error) {
	return updateInProject(tx, projectID, id, ragEntries, mutator)
}

func (tx *transaction) DeleteRAGEntry(projectID, id string) error {
	return deleteFromProject(tx, projectID, id, ragEntries)
}

func (tx *transaction) CreateQuickLink(projectID string, l domain.QuickLink) (domain.QuickLink, error) {
	return addToProject(tx, projectID, quickLinks, l)
}

func (tx *transaction) UpdateQuickLink(projectID, id string, mutator func(*domain.QuickLink) error) (domain.QuickLink, error) {
	return updateInProject(tx, projectID, id, quickLinks, mutator)
}

func (tx *transaction) DeleteQuickLink(projectID, id string) error {
	return deleteFromProject(tx, projectID, id, quickLinks)
}

func (tx *transaction) CreateAnnouncement(projectID string, a domain.Announcement) (domain.Announcement, error) {
	return addToProject(tx, projectID, announcements, a)
}

func (tx *transaction) UpdateAnnouncement(projectID, id string, mutator func(*domain.Announcement) error) (domain.Announcement, error) {
	return updateInProject(tx, projectID, id, announcements, mutator)
}

func (tx *transaction) DeleteAnnouncement(projectID, id string) error {
	return deleteFromProject(tx, projectID, id, announcements)
}

func (tx *transaction) CreateDocument(projectID string, d domain.ProjectDocument) (domain.ProjectDocument, error) {
	return addToProject(tx, projectID, documents, d)
}

func (tx *transaction) UpdateDocument(projectID, id string, mutator func(*domain.ProjectDocument) error) (domain.ProjectDocument, error) {
	return updateInProject(tx, projectID, id, documents, mutator)
}

func (tx *transaction) DeleteDocument(projectID, id string) error {
	return deleteFromProject(tx, projectID, id, documents)
}

func (tx *transaction) CreateRisk(projectID string, r domain.ProjectRisk) (domain.ProjectRisk, error) {
	return addToProject(tx, projectID, risks, r)
}

func (tx *transaction) UpdateRisk(projectID, id string, mutator func(*domain.ProjectRisk) error) (domain.ProjectRisk, error) {
	return updateInProject(tx, projectID, id, risks, mutator)
}

func (tx *transaction) DeleteRisk(projectID, id string) error {
	return deleteFromProject(tx, projectID, id, risks)
}

func (tx *transaction) CreateIssue(projectID string, i domain.ProjectIssue) (domain.ProjectIssue, error) {
	return addToProject(tx, projectID, issues, i)
}

func (tx *transaction) UpdateIssue(projectID, id string, mutator func(*domain.ProjectIssue) error) (domain.ProjectIssue, error) {
	return updateInProject(tx, projectID, id, issues, mutator)
}

func (tx *transaction) DeleteIssue(projectID, id string) error {
	return deleteFromProject(tx, projectID, id, issues)
}

func (tx *transaction) CreateAction(projectID string, a domain.ProjectAction) (domain.ProjectAction, error) {
	return addToProject(tx, projectID, actions, a)
}

func (tx *transaction) UpdateAction(projectID, id string, mutator func(*domain.ProjectAction) error) (domain.ProjectAction, error) {
	return updateInProject(tx, projectID, id, actions, mutator)
}

func (tx *transaction) DeleteAction(projectID, id string) error {
	return deleteFromProject(tx, projectID, id, actions)
}

func (tx *transaction) CreateDependency(projectID string, d domain.ProjectDependency) (domain.ProjectDependency, error) {
	return addToProject(tx, projectID, dependencies, d)
}

func (tx *transaction) UpdateDependency(projectID, id string, mutator func(*domain.ProjectDependency) error) (domain.ProjectDependency, error) {
	return updateInProject(tx, projectID, id, dependencies, mutator)
}

func (tx *transaction) DeleteDependency(projectID, id string) error {
	return deleteFromProject(tx, projectID, id, dependencies)
}

func (tx *transaction) CreateAssumption(projectID string, a domain.ProjectAssumption) (domain.ProjectAssumption, error) {
	return addToProject(tx, projectID, assumptions, a)
}

func (tx *transaction) UpdateAssumption(projectID, id string, mutator func(*domain.ProjectAssumption) error) (domain.ProjectAssumption, error) {
	return updateInProject(tx, projectID, id, assumptions, mutator)
}

func (tx *transaction) DeleteAssumption(projectID, id string) error {
	return deleteFromProject(tx, projectID, id, assumptions)
}

func (tx *transaction) CreateLesson(projectID string, l domain.LessonLearned) (domain.LessonLearned, error) {
	return addToProject(tx, projectID, lessons, l)
}

func (tx *transaction) UpdateLesson(projectID, id string, mutator func(*domain.LessonLearned) error) (domain.LessonLearned, error) {
	return updateInProject(tx, projectID, id, lessons, mutator)
}

func (tx *transaction) DeleteLesson(projectID, id string) error {
	return deleteFromProject(tx, projectID, id, lessons)
}

func (tx *transaction) CreateStatusUpdate(projectID string, s domain.StatusUpdate) (domain.StatusUpdate, error) {
	return addToProject(tx, projectID, statusUpdates, s)
}

func (tx *transaction) UpdateStatusUpdate(projectID, id string, mutator func(*domain.StatusUpdate) error) (domain.StatusUpdate, error) {
	return updateInProject(tx, projectID, id, statusUpdates, mutator)
}

func (tx *transaction) DeleteStatusUpdate(projectID, id string) error {
	return deleteFromProject(tx, projectID, id, statusUpdates)
}

func (tx *transaction) CreateBudgetCategory(projectID string, c domain.BudgetCategory) (domain.BudgetCategory, error) {
	return addToProject(tx, projectID, budgetCategories, c)
}

func (tx *transaction) UpdateBudgetCategory(projectID, id string, mutator func(*domain.BudgetCategory) error) (domain.BudgetCategory, error) {
	return updateInProject(tx, projectID, id, budgetCategories, mutator)
}

func (tx *transaction) DeleteBudgetCategory(projectID, id string) error {
	return deleteFromProject(tx, projectID, id, budgetCategories)
}

func (tx *transaction) CreateResource(projectID string, r domain.ProjectResource) (domain.ProjectResource, error) {
	return addToProject(tx, projectID, resources, r)
}

func (tx *transaction) UpdateResource(projectID, id string, mutator func(*domain.ProjectResource) error) (domain.ProjectResource, error) {
	return updateInProject(tx, projectID, id, resources, mutator)
}

func (tx *transaction) DeleteResource(projectID, id string) error {
	return deleteFromProject(tx, projectID, id, resources)
}
