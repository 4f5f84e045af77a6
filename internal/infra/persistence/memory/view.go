package memory

import "ocmhub/pkg/domain"

// transactionView exposes a read-only snapshot to rules and readers.
type transactionView struct {
	state Snapshot
}

func newTransactionView(state Snapshot) TransactionView {
	return transactionView{state: state}
}

func (v transactionView) Version() uint64 { return v.state.Version }

func (v transactionView) Snapshot() Snapshot { return v.state }

// ListHomeModules returns the home modules in display order.
func (v transactionView) ListHomeModules() []domain.HomeModule {
	return append([]domain.HomeModule(nil), v.state.HomeModules...)
}

// ListWorkbenchGroups returns the workbench groups in display order.
func (v transactionView) ListWorkbenchGroups() []domain.WorkbenchGroup {
	return append([]domain.WorkbenchGroup(nil), v.state.Workbench...)
}

// ListProjects returns the project aggregates ordered by id.
func (v transactionView) ListProjects() []domain.ProjectDetails {
	ids := v.state.ProjectIDs()
	out := make([]domain.ProjectDetails, 0, len(ids))
	for _, id := range ids {
		out = append(out, v.state.Projects[id])
	}
	return out
}

// ListOCMSteps returns the setup steps in display order.
func (v transactionView) ListOCMSteps() []domain.OCMSetupStep {
	return append([]domain.OCMSetupStep(nil), v.state.OCMSetup...)
}

func (v transactionView) FindHomeModule(id string) (domain.HomeModule, bool) {
	i := indexOf(v.state.HomeModules, func(m domain.HomeModule) bool { return m.ID == id })
	if i < 0 {
		return domain.HomeModule{}, false
	}
	return v.state.HomeModules[i], true
}

func (v transactionView) FindWorkbenchGroup(id string) (domain.WorkbenchGroup, bool) {
	i := indexOf(v.state.Workbench, func(g domain.WorkbenchGroup) bool { return g.ID == id })
	if i < 0 {
		return domain.WorkbenchGroup{}, false
	}
	return v.state.Workbench[i], true
}

func (v transactionView) FindWorkbenchItem(id string) (domain.WorkbenchItem, string, bool) {
	return v.state.FindWorkbenchItem(id)
}

func (v transactionView) FindProject(id string) (domain.ProjectDetails, bool) {
	p, ok := v.state.Projects[id]
	return p, ok
}

func (v transactionView) FindOCMStep(id string) (domain.OCMSetupStep, bool) {
	i := indexOf(v.state.OCMSetup, func(s domain.OCMSetupStep) bool { return s.ID == id })
	if i < 0 {
		return domain.OCMSetupStep{}, false
	}
	return v.state.OCMSetup[i], true
}
