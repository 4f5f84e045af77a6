package memory

import "ocmhub/pkg/domain"

func assignID(id *string, ids domain.IDGenerator, prefix string) {
	if *id == "" {
		*id = ids.NewID(prefix)
	}
}

// migrateSnapshot normalises an imported snapshot: nil collections become
// empty, missing synthetic ids are assigned, every workbench item gets a
// project, projects without an item are dropped, and link keyed data for
// unknown links is discarded. The input must not be shared.
//
//nolint:gocyclo // one pass over every collection keeps the rules in one place.
func migrateSnapshot(snapshot Snapshot, ids domain.IDGenerator) Snapshot {
	if snapshot.HomeModules == nil {
		snapshot.HomeModules = []domain.HomeModule{}
	}
	if snapshot.Workbench == nil {
		snapshot.Workbench = []domain.WorkbenchGroup{}
	}
	if snapshot.Projects == nil {
		snapshot.Projects = map[string]domain.ProjectDetails{}
	}
	if snapshot.OCMSetup == nil {
		snapshot.OCMSetup = []domain.OCMSetupStep{}
	}

	for i := range snapshot.HomeModules {
		m := &snapshot.HomeModules[i]
		assignID(&m.ID, ids, domain.PrefixHomeModule)
	}
	for i := range snapshot.HomeModules {
		m := &snapshot.HomeModules[i]
		if m.Path != "" {
			continue
		}
		id := m.ID
		m.Path = domain.ModulePath(*m, func(p string) bool {
			for _, other := range snapshot.HomeModules {
				if other.ID != id && other.Path == p {
					return true
				}
			}
			return false
		})
	}

	items := map[string]domain.WorkbenchItem{}
	for gi := range snapshot.Workbench {
		g := &snapshot.Workbench[gi]
		assignID(&g.ID, ids, domain.PrefixWorkbenchGroup)
		if g.Items == nil {
			g.Items = []domain.WorkbenchItem{}
		}
		for ii := range g.Items {
			it := &g.Items[ii]
			assignID(&it.ID, ids, domain.PrefixWorkbenchItem)
			items[it.ID] = *it
		}
	}

	for id, p := range snapshot.Projects {
		if p.WorkbenchItemID == "" {
			p.WorkbenchItemID = id
		}
		if _, ok := items[p.WorkbenchItemID]; !ok || p.WorkbenchItemID != id {
			delete(snapshot.Projects, id)
			continue
		}
		p.ID = id
		snapshot.Projects[id] = normalizeProject(p, ids)
	}
	for id, it := range items {
		if _, ok := snapshot.Projects[id]; !ok {
			snapshot.Projects[id] = domain.NewProjectDetails(it)
		}
	}

	for si := range snapshot.OCMSetup {
		s := &snapshot.OCMSetup[si]
		assignID(&s.ID, ids, domain.PrefixOCMStep)
		if s.Topics == nil {
			s.Topics = []domain.OCMSetupTopicGroup{}
		}
		if s.SidebarLinks == nil {
			s.SidebarLinks = []domain.OCMSetupSidebarLink{}
		}
		for ti := range s.Topics {
			t := &s.Topics[ti]
			assignID(&t.ID, ids, domain.PrefixOCMTopic)
			if t.Items == nil {
				t.Items = []domain.OCMSetupItem{}
			}
			for ii := range t.Items {
				assignID(&t.Items[ii].ID, ids, domain.PrefixOCMItem)
			}
		}
		for li := range s.SidebarLinks {
			assignID(&s.SidebarLinks[li].ID, ids, domain.PrefixOCMSidebarLink)
		}
	}
	return snapshot
}

func normalizeProject(p domain.ProjectDetails, ids domain.IDGenerator) domain.ProjectDetails {
	if p.OverallHealth == "" {
		p.OverallHealth = domain.HealthGreen
	}
	p.RAGHistory = withIDs(p.RAGHistory, ids, ragEntries)
	p.QuickLinks = withIDs(p.QuickLinks, ids, quickLinks)
	p.Announcements = withIDs(p.Announcements, ids, announcements)
	p.Documents = withIDs(p.Documents, ids, documents)
	p.Risks = withIDs(p.Risks, ids, risks)
	p.Issues = withIDs(p.Issues, ids, issues)
	p.Actions = withIDs(p.Actions, ids, actions)
	p.Dependencies = withIDs(p.Dependencies, ids, dependencies)
	p.Assumptions = withIDs(p.Assumptions, ids, assumptions)
	p.LessonsLearned = withIDs(p.LessonsLearned, ids, lessons)
	p.StatusUpdates = withIDs(p.StatusUpdates, ids, statusUpdates)
	p.Budget.Breakdown = withIDs(p.Budget.Breakdown, ids, budgetCategories)
	p.Resources = withIDs(p.Resources, ids, resources)

	if p.ProjectAssets == nil {
		p.ProjectAssets = []domain.AssetCategory{}
	}
	links := map[string]bool{}
	for ci := range p.ProjectAssets {
		c := &p.ProjectAssets[ci]
		assignID(&c.ID, ids, domain.PrefixAssetCategory)
		if c.Links == nil {
			c.Links = []domain.AssetLink{}
		}
		for li := range c.Links {
			assignID(&c.Links[li].ID, ids, domain.PrefixAssetLink)
			links[c.Links[li].ID] = true
		}
	}

	docs := make(map[string][]domain.ProjectDocument, len(p.AssetDocuments))
	for linkID, list := range p.AssetDocuments {
		if !links[linkID] {
			continue
		}
		docs[linkID] = withIDs(list, ids, documents)
	}
	p.AssetDocuments = docs

	updates := make(map[string][]domain.KeyUpdateItem, len(p.KeyUpdates))
	for linkID, rows := range p.KeyUpdates {
		if !links[linkID] {
			continue
		}
		seen := map[int]bool{}
		for i := range rows {
			if rows[i].ID <= 0 || seen[rows[i].ID] {
				rows[i].ID = nextKeyUpdateID(rows)
			}
			seen[rows[i].ID] = true
		}
		updates[linkID] = rows
	}
	p.KeyUpdates = updates

	if p.KeyUpdateSeq != nil {
		seq := make(map[string]int, len(p.KeyUpdateSeq))
		for linkID, n := range p.KeyUpdateSeq {
			if links[linkID] {
				seq[linkID] = n
			}
		}
		p.KeyUpdateSeq = seq
	}
	return p
}

func withIDs[T any](items []T, ids domain.IDGenerator, c collection[T]) []T {
	if items == nil {
		return []T{}
	}
	for i := range items {
		if c.id(items[i]) == "" {
			c.setID(&items[i], ids.NewID(c.prefix))
		}
	}
	return items
}
