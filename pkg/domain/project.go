package domain

// DefaultModifiedBy is stamped on documents written through the store.
const DefaultModifiedBy = "Current User"

// DefaultDocumentVersion is assigned to newly added documents.
const DefaultDocumentVersion = "1.0"

// RAGEntry is one period of the RAG health history.
type RAGEntry struct {
	ID        string `json:"id"`
	Period    string `json:"period"`
	Overall   Health `json:"overall"`
	Scope     Health `json:"scope"`
	Schedule  Health `json:"schedule"`
	Budget    Health `json:"budget"`
	Resources Health `json:"resources"`
	Risks     Health `json:"risks"`
	Issues    Health `json:"issues"`
}

// QuickLink is a named shortcut on the project home tab.
type QuickLink struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Announcement is a dated project notice.
type Announcement struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// AssetLink is a named change asset inside a category.
type AssetLink struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// AssetCategory groups change asset links.
type AssetCategory struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	Links []AssetLink `json:"links"`
}

// ProjectDocument describes a versioned project document.
type ProjectDocument struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Version      string `json:"version"`
	LastModified string `json:"lastModified"`
	ModifiedBy   string `json:"modifiedBy"`
	URL          string `json:"url"`
}

// ProjectRisk is an entry of the project risk register.
type ProjectRisk struct {
	ID             string     `json:"id"`
	Description    string     `json:"description"`
	Impact         Level      `json:"impact"`
	Likelihood     Level      `json:"likelihood"`
	Owner          string     `json:"owner"`
	MitigationPlan string     `json:"mitigationPlan"`
	Status         RiskStatus `json:"status"`
}

// ProjectIssue is an entry of the project issue log.
type ProjectIssue struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Priority    Level       `json:"priority"`
	AssignedTo  string      `json:"assignedTo"`
	Reported    string      `json:"reported"`
	Due         string      `json:"due"`
	Status      IssueStatus `json:"status"`
}

// ProjectAction is an entry of the project action log.
type ProjectAction struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Owner       string       `json:"owner"`
	DueDate     string       `json:"dueDate"`
	Status      ActionStatus `json:"status"`
}

// ProjectDependency is an external dependency of the project.
type ProjectDependency struct {
	ID            string           `json:"id"`
	Description   string           `json:"description"`
	DependencyOn  string           `json:"dependencyOn"`
	ImpactIfFails Level            `json:"impactIfFails"`
	Status        DependencyStatus `json:"status"`
}

// ProjectAssumption is a planning assumption awaiting or holding validation.
type ProjectAssumption struct {
	ID            string           `json:"id"`
	Description   string           `json:"description"`
	Owner         string           `json:"owner"`
	ValidatedDate string           `json:"validatedDate"`
	Status        AssumptionStatus `json:"status"`
}

// LessonLearned records a retrospective finding.
type LessonLearned struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Date           string `json:"date"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	Impact         string `json:"impact"`
	Recommendation string `json:"recommendation"`
}

// StatusUpdate is a periodic status report.
type StatusUpdate struct {
	ID                string `json:"id"`
	Date              string `json:"date"`
	Status            Health `json:"status"`
	Accomplishments   string `json:"accomplishments"`
	PlannedNextPeriod string `json:"plannedNextPeriod"`
	Blockers          string `json:"blockers"`
}

// BudgetCategory is one line of the budget breakdown.
type BudgetCategory struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Budgeted float64 `json:"budgeted"`
	Spent    float64 `json:"spent"`
}

// BudgetData holds project budget totals and their breakdown.
type BudgetData struct {
	TotalBudget float64          `json:"totalBudget"`
	ActualSpend float64          `json:"actualSpend"`
	Breakdown   []BudgetCategory `json:"breakdown"`
}

// ProjectResource is a staffed role on the project.
type ProjectResource struct {
	ID         string `json:"id"`
	Role       string `json:"role"`
	AssignedTo string `json:"assignedTo"`
	Allocation int    `json:"allocation"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Notes      string `json:"notes"`
}

// KeyUpdateItem is a reporting row attached to an asset link.
type KeyUpdateItem struct {
	ID          int    `json:"id"`
	Portfolio   string `json:"portfolio"`
	Pillar      string `json:"pillar"`
	Programme   string `json:"programme"`
	Project     string `json:"project"`
	PreviousRag Health `json:"previousRag"`
	CurrentRag  Health `json:"currentRag"`
	Commentary  string `json:"commentary"`
	Owner       string `json:"owner"`
}

// ProjectDetails is the aggregate root for one project.
type ProjectDetails struct {
	ID              string                       `json:"id"`
	WorkbenchItemID string                       `json:"workbenchItemId"`
	Name            string                       `json:"name"`
	ProjectManager  string                       `json:"projectManager"`
	Description     string                       `json:"description"`
	BusinessOwner   string                       `json:"businessOwner"`
	StartDate       string                       `json:"startDate"`
	FinishDate      string                       `json:"finishDate"`
	Stage           string                       `json:"stage"`
	PercentComplete int                          `json:"percentComplete"`
	OverallHealth   Health                       `json:"overallHealth"`
	RAGHistory      []RAGEntry                   `json:"ragHistory"`
	QuickLinks      []QuickLink                  `json:"quickLinks"`
	Announcements   []Announcement               `json:"announcements"`
	ProjectAssets   []AssetCategory              `json:"projectAssets"`
	Documents       []ProjectDocument            `json:"documents"`
	Risks           []ProjectRisk                `json:"risks"`
	Issues          []ProjectIssue               `json:"issues"`
	Actions         []ProjectAction              `json:"actions"`
	Dependencies    []ProjectDependency          `json:"dependencies"`
	Assumptions     []ProjectAssumption          `json:"assumptions"`
	LessonsLearned  []LessonLearned              `json:"lessonsLearned"`
	StatusUpdates   []StatusUpdate               `json:"statusUpdates"`
	Budget          BudgetData                   `json:"budget"`
	Resources       []ProjectResource            `json:"resources"`
	KeyUpdates      map[string][]KeyUpdateItem   `json:"keyUpdates"`
	AssetDocuments  map[string][]ProjectDocument `json:"assetDocuments"`
	// KeyUpdateSeq holds the highest key update id ever issued per asset
	// link, so ids of deleted rows are not handed out again.
	KeyUpdateSeq map[string]int `json:"keyUpdateSeq,omitempty"`
}

// NewProjectDetails builds the aggregate paired with a freshly created
// workbench item from the base template.
func NewProjectDetails(item WorkbenchItem) ProjectDetails {
	return ProjectDetails{
		ID:              item.ID,
		WorkbenchItemID: item.ID,
		Name:            item.Title,
		Description:     item.Description,
		ProjectManager:  "TBC",
		BusinessOwner:   "TBC",
		Stage:           "Initiation",
		OverallHealth:   HealthGreen,
		RAGHistory:      []RAGEntry{},
		QuickLinks:      []QuickLink{},
		Announcements:   []Announcement{},
		ProjectAssets:   []AssetCategory{},
		Documents:       []ProjectDocument{},
		Risks:           []ProjectRisk{},
		Issues:          []ProjectIssue{},
		Actions:         []ProjectAction{},
		Dependencies:    []ProjectDependency{},
		Assumptions:     []ProjectAssumption{},
		LessonsLearned:  []LessonLearned{},
		StatusUpdates:   []StatusUpdate{},
		Budget:          BudgetData{Breakdown: []BudgetCategory{}},
		Resources:       []ProjectResource{},
		KeyUpdates:      map[string][]KeyUpdateItem{},
		AssetDocuments:  map[string][]ProjectDocument{},
	}
}

// FindAssetLink returns the link with the given id and its category id.
func (p ProjectDetails) FindAssetLink(linkID string) (AssetLink, string, bool) {
	for _, c := range p.ProjectAssets {
		for _, l := range c.Links {
			if l.ID == linkID {
				return l, c.ID, true
			}
		}
	}
	return AssetLink{}, "", false
}

// ProjectDetailsPatch carries a partial update of the scalar project fields.
// Nil fields keep their stored value.
type ProjectDetailsPatch struct {
	ProjectManager  *string `json:"projectManager,omitempty"`
	BusinessOwner   *string `json:"businessOwner,omitempty"`
	StartDate       *string `json:"startDate,omitempty"`
	FinishDate      *string `json:"finishDate,omitempty"`
	Stage           *string `json:"stage,omitempty"`
	PercentComplete *int    `json:"percentComplete,omitempty"`
	OverallHealth   *Health `json:"overallHealth,omitempty"`
}

// Apply copies the set fields onto p.
func (patch ProjectDetailsPatch) Apply(p *ProjectDetails) {
	if patch.ProjectManager != nil {
		p.ProjectManager = *patch.ProjectManager
	}
	if patch.BusinessOwner != nil {
		p.BusinessOwner = *patch.BusinessOwner
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.FinishDate != nil {
		p.FinishDate = *patch.FinishDate
	}
	if patch.Stage != nil {
		p.Stage = *patch.Stage
	}
	if patch.PercentComplete != nil {
		p.PercentComplete = *patch.PercentComplete
	}
	if patch.OverallHealth != nil {
		p.OverallHealth = *patch.OverallHealth
	}
}

// BudgetPatch carries a partial update of the budget totals.
type BudgetPatch struct {
	TotalBudget *float64 `json:"totalBudget,omitempty"`
	ActualSpend *float64 `json:"actualSpend,omitempty"`
}

// Apply copies the set fields onto b.
func (patch BudgetPatch) Apply(b *BudgetData) {
	if patch.TotalBudget != nil {
		b.TotalBudget = *patch.TotalBudget
	}
	if patch.ActualSpend != nil {
		b.ActualSpend = *patch.ActualSpend
	}
}
