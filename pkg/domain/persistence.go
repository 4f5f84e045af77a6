package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope. Every method returns ErrNotFound when
// the addressed entity or one of its parents is missing and ValidationError
// when the supplied data is rejected.
type Transaction interface {
	Snapshot() TransactionView

	CreateHomeModule(HomeModule) (HomeModule, error)
	UpdateHomeModule(id string, mutator func(*HomeModule) error) (HomeModule, error)
	DeleteHomeModule(id string) error

	CreateWorkbenchGroup(WorkbenchGroup) (WorkbenchGroup, error)
	UpdateWorkbenchGroup(id string, mutator func(*WorkbenchGroup) error) (WorkbenchGroup, error)
	DeleteWorkbenchGroup(id string) error
	CreateWorkbenchItem(groupID string, item WorkbenchItem) (WorkbenchItem, error)
	UpdateWorkbenchItem(groupID, id string, mutator func(*WorkbenchItem) error) (WorkbenchItem, error)
	DeleteWorkbenchItem(groupID, id string) error
	MoveWorkbenchItem(fromGroupID, id, toGroupID string) (WorkbenchItem, error)

	UpdateProjectDetails(projectID string, patch ProjectDetailsPatch) (ProjectDetails, error)
	UpdateBudget(projectID string, patch BudgetPatch) (BudgetData, error)

	CreateRAGEntry(projectID string, e RAGEntry) (RAGEntry, error)
	UpdateRAGEntry(projectID, id string, mutator func(*RAGEntry) error) (RAGEntry, error)
	DeleteRAGEntry(projectID, id string) error
	CreateQuickLink(projectID string, l QuickLink) (QuickLink, error)
	UpdateQuickLink(projectID, id string, mutator func(*QuickLink) error) (QuickLink, error)
	DeleteQuickLink(projectID, id string) error
	CreateAnnouncement(projectID string, a Announcement) (Announcement, error)
	UpdateAnnouncement(projectID, id string, mutator func(*Announcement) error) (Announcement, error)
	DeleteAnnouncement(projectID, id string) error
	CreateDocument(projectID string, d ProjectDocument) (ProjectDocument, error)
	UpdateDocument(projectID, id string, mutator func(*ProjectDocument) error) (ProjectDocument, error)
	DeleteDocument(projectID, id string) error
	CreateRisk(projectID string, r ProjectRisk) (ProjectRisk, error)
	UpdateRisk(projectID, id string, mutator func(*ProjectRisk) error) (ProjectRisk, error)
	DeleteRisk(projectID, id string) error
	CreateIssue(projectID string, i ProjectIssue) (ProjectIssue, error)
	UpdateIssue(projectID, id string, mutator func(*ProjectIssue) error) (ProjectIssue, error)
	DeleteIssue(projectID, id string) error
	CreateAction(projectID string, a ProjectAction) (ProjectAction, error)
	UpdateAction(projectID, id string, mutator func(*ProjectAction) error) (ProjectAction, error)
	DeleteAction(projectID, id string) error
	CreateDependency(projectID string, d ProjectDependency) (ProjectDependency, error)
	UpdateDependency(projectID, id string, mutator func(*ProjectDependency) error) (ProjectDependency, error)
	DeleteDependency(projectID, id string) error
	CreateAssumption(projectID string, a ProjectAssumption) (ProjectAssumption, error)
	UpdateAssumption(projectID, id string, mutator func(*ProjectAssumption) error) (ProjectAssumption, error)
	DeleteAssumption(projectID, id string) error
	CreateLesson(projectID string, l LessonLearned) (LessonLearned, error)
	UpdateLesson(projectID, id string, mutator func(*LessonLearned) error) (LessonLearned, error)
	DeleteLesson(projectID, id string) error
	CreateStatusUpdate(projectID string, s StatusUpdate) (StatusUpdate, error)
	UpdateStatusUpdate(projectID, id string, mutator func(*StatusUpdate) error) (StatusUpdate, error)
	DeleteStatusUpdate(projectID, id string) error
	CreateBudgetCategory(projectID string, c BudgetCategory) (BudgetCategory, error)
	UpdateBudgetCategory(projectID, id string, mutator func(*BudgetCategory) error) (BudgetCategory, error)
	DeleteBudgetCategory(projectID, id string) error
	CreateResource(projectID string, r ProjectResource) (ProjectResource, error)
	UpdateResource(projectID, id string, mutator func(*ProjectResource) error) (ProjectResource, error)
	DeleteResource(projectID, id string) error

	CreateAssetCategory(projectID string, c AssetCategory) (AssetCategory, error)
	UpdateAssetCategory(projectID, id string, mutator func(*AssetCategory) error) (AssetCategory, error)
	DeleteAssetCategory(projectID, id string) error
	CreateAssetLink(projectID, categoryID string, l AssetLink) (AssetLink, error)
	UpdateAssetLink(projectID, categoryID, id string, mutator func(*AssetLink) error) (AssetLink, error)
	DeleteAssetLink(projectID, categoryID, id string) error
	CreateAssetDocument(projectID, linkID string, d ProjectDocument) (ProjectDocument, error)
	UpdateAssetDocument(projectID, linkID, id string, mutator func(*ProjectDocument) error) (ProjectDocument, error)
	DeleteAssetDocument(projectID, linkID, id string) error
	CreateKeyUpdate(projectID, linkID string, k KeyUpdateItem) (KeyUpdateItem, error)
	UpdateKeyUpdate(projectID, linkID string, id int, mutator func(*KeyUpdateItem) error) (KeyUpdateItem, error)
	DeleteKeyUpdate(projectID, linkID string, id int) error

	CreateOCMStep(OCMSetupStep) (OCMSetupStep, error)
	UpdateOCMStep(id string, mutator func(*OCMSetupStep) error) (OCMSetupStep, error)
	DeleteOCMStep(id string) error
	SetOCMImageCard(stepID string, card *OCMSetupImageCard) (OCMSetupStep, error)
	CreateOCMTopic(stepID string, t OCMSetupTopicGroup) (OCMSetupTopicGroup, error)
	UpdateOCMTopic(stepID, id string, mutator func(*OCMSetupTopicGroup) error) (OCMSetupTopicGroup, error)
	DeleteOCMTopic(stepID, id string) error
	CreateOCMItem(stepID, topicID string, it OCMSetupItem) (OCMSetupItem, error)
	UpdateOCMItem(stepID, topicID, id string, mutator func(*OCMSetupItem) error) (OCMSetupItem, error)
	DeleteOCMItem(stepID, topicID, id string) error
	CreateOCMSidebarLink(stepID string, l OCMSetupSidebarLink) (OCMSetupSidebarLink, error)
	UpdateOCMSidebarLink(stepID, id string, mutator func(*OCMSetupSidebarLink) error) (OCMSetupSidebarLink, error)
	DeleteOCMSidebarLink(stepID, id string) error
}

// TransactionView provides read-only access to snapshot data for rules and
// readers.
type TransactionView interface {
	RuleView
	Version() uint64
	Snapshot() Snapshot
}

// CommitHook observes committed snapshots together with the changes that
// produced them. Hooks run after the store lock has been released.
type CommitHook func(ctx context.Context, snapshot Snapshot, changes []Change)

// PersistentStore is the abstraction higher layers depend on. Memory backs
// every implementation; durable variants mirror committed snapshots.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	Current() Snapshot
	Version() uint64
	ExportState() Snapshot
	ImportState(Snapshot) error
	Subscribe(CommitHook)
}
