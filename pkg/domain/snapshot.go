package domain

import "sort"

// Snapshot is an immutable view of the whole entity store at one version.
// Collections not touched by a commit are shared with the previous snapshot,
// so callers must never mutate a snapshot they did not build themselves.
type Snapshot struct {
	Version     uint64                    `json:"version"`
	HomeModules []HomeModule              `json:"homeModules"`
	Workbench   []WorkbenchGroup          `json:"workbenchData"`
	Projects    map[string]ProjectDetails `json:"projectDataMap"`
	OCMSetup    []OCMSetupStep            `json:"ocmSetupData"`
}

// EmptySnapshot returns a snapshot with every collection initialised.
func EmptySnapshot() Snapshot {
	return Snapshot{
		HomeModules: []HomeModule{},
		Workbench:   []WorkbenchGroup{},
		Projects:    map[string]ProjectDetails{},
		OCMSetup:    []OCMSetupStep{},
	}
}

// ProjectIDs returns the project ids in lexical order.
func (s Snapshot) ProjectIDs() []string {
	ids := make([]string, 0, len(s.Projects))
	for id := range s.Projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FindWorkbenchItem locates an item and the id of the group that owns it.
func (s Snapshot) FindWorkbenchItem(id string) (WorkbenchItem, string, bool) {
	for _, g := range s.Workbench {
		for _, it := range g.Items {
			if it.ID == id {
				return it, g.ID, true
			}
		}
	}
	return WorkbenchItem{}, "", false
}

// Clone returns a deep copy of the snapshot that shares no memory with s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Version: s.Version}
	out.HomeModules = append([]HomeModule{}, s.HomeModules...)
	out.Workbench = make([]WorkbenchGroup, len(s.Workbench))
	for i, g := range s.Workbench {
		g.Items = append([]WorkbenchItem{}, g.Items...)
		out.Workbench[i] = g
	}
	out.Projects = make(map[string]ProjectDetails, len(s.Projects))
	for id, p := range s.Projects {
		out.Projects[id] = p.Clone()
	}
	out.OCMSetup = make([]OCMSetupStep, len(s.OCMSetup))
	for i, step := range s.OCMSetup {
		out.OCMSetup[i] = step.Clone()
	}
	return out
}

// Clone returns a deep copy of the step.
func (s OCMSetupStep) Clone() OCMSetupStep {
	out := s
	if s.ImageCard != nil {
		card := *s.ImageCard
		out.ImageCard = &card
	}
	out.Topics = make([]OCMSetupTopicGroup, len(s.Topics))
	for i, t := range s.Topics {
		t.Items = append([]OCMSetupItem{}, t.Items...)
		out.Topics[i] = t
	}
	out.SidebarLinks = append([]OCMSetupSidebarLink{}, s.SidebarLinks...)
	return out
}

// Clone returns a deep copy of the project aggregate.
func (p ProjectDetails) Clone() ProjectDetails {
	out := p
	out.RAGHistory = append([]RAGEntry{}, p.RAGHistory...)
	out.QuickLinks = append([]QuickLink{}, p.QuickLinks...)
	out.Announcements = append([]Announcement{}, p.Announcements...)
	out.ProjectAssets = make([]AssetCategory, len(p.ProjectAssets))
	for i, c := range p.ProjectAssets {
		c.Links = append([]AssetLink{}, c.Links...)
		out.ProjectAssets[i] = c
	}
	out.Documents = append([]ProjectDocument{}, p.Documents...)
	out.Risks = append([]ProjectRisk{}, p.Risks...)
	out.Issues = append([]ProjectIssue{}, p.Issues...)
	out.Actions = append([]ProjectAction{}, p.Actions...)
	out.Dependencies = append([]ProjectDependency{}, p.Dependencies...)
	out.Assumptions = append([]ProjectAssumption{}, p.Assumptions...)
	out.LessonsLearned = append([]LessonLearned{}, p.LessonsLearned...)
	out.StatusUpdates = append([]StatusUpdate{}, p.StatusUpdates...)
	out.Budget.Breakdown = append([]BudgetCategory{}, p.Budget.Breakdown...)
	out.Resources = append([]ProjectResource{}, p.Resources...)
	out.KeyUpdates = make(map[string][]KeyUpdateItem, len(p.KeyUpdates))
	for k, v := range p.KeyUpdates {
		out.KeyUpdates[k] = append([]KeyUpdateItem{}, v...)
	}
	out.AssetDocuments = make(map[string][]ProjectDocument, len(p.AssetDocuments))
	for k, v := range p.AssetDocuments {
		out.AssetDocuments[k] = append([]ProjectDocument{}, v...)
	}
	if p.KeyUpdateSeq != nil {
		out.KeyUpdateSeq = make(map[string]int, len(p.KeyUpdateSeq))
		for k, v := range p.KeyUpdateSeq {
			out.KeyUpdateSeq[k] = v
		}
	}
	return out
}
