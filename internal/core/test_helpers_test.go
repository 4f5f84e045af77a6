package core

import (
	"context"
	"sort"
	"testing"
	"time"

	"ocmhub/internal/infra/persistence/memory"
	"ocmhub/pkg/domain"
)

var fixedNow = time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC)

// newTestService builds a service over a memory store with sequential ids and
// a frozen clock.
func newTestService(engine *RulesEngine, opts ...ServiceOption) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	store := memory.NewStore(engine,
		memory.WithIDGenerator(&domain.SequenceGenerator{}),
		memory.WithClock(func() time.Time { return fixedNow }),
	)
	return NewService(store, opts...)
}

// seedItem creates a group holding one item and returns both ids.
func seedItem(t *testing.T, svc *Service) (groupID, itemID string) {
	t.Helper()
	ctx := context.Background()
	g, _, err := svc.AddWorkbenchGroup(ctx, domain.WorkbenchGroup{Title: "Delivery"})
	if err != nil {
		t.Fatalf("add group: %v", err)
	}
	it, _, err := svc.AddWorkbenchItem(ctx, g.ID, domain.WorkbenchItem{Title: "Alpha", ImageURL: "/img/alpha.png"})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	return g.ID, it.ID
}

type captureLogger struct{ calls []string }

func (c *captureLogger) Debug(msg string, _ ...any) { c.calls = append(c.calls, "d:"+msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.calls = append(c.calls, "i:"+msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.calls = append(c.calls, "w:"+msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.calls = append(c.calls, "e:"+msg) }

func (c *captureLogger) has(call string) bool {
	for _, got := range c.calls {
		if got == call {
			return true
		}
	}
	return false
}

type captureAuditRecorder struct {
	entries []AuditEntry
}

func (c *captureAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	c.entries = append(c.entries, entry)
}

func (c *captureAuditRecorder) has(op string, status AuditStatus, predicate func(AuditEntry) bool) bool {
	for _, entry := range c.entries {
		if entry.Operation == op && entry.Status == status {
			if predicate == nil || predicate(entry) {
				return true
			}
		}
	}
	return false
}

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	ended []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	return ctx, &captureSpan{tracer: c, op: op}
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

// snapshotView serves a hand-built snapshot to rules, including states the
// store itself would never commit.
type snapshotView struct {
	snap domain.Snapshot
}

func (v snapshotView) ListHomeModules() []domain.HomeModule        { return v.snap.HomeModules }
func (v snapshotView) ListWorkbenchGroups() []domain.WorkbenchGroup { return v.snap.Workbench }
func (v snapshotView) ListOCMSteps() []domain.OCMSetupStep          { return v.snap.OCMSetup }

func (v snapshotView) ListProjects() []domain.ProjectDetails {
	ids := make([]string, 0, len(v.snap.Projects))
	for id := range v.snap.Projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.ProjectDetails, 0, len(ids))
	for _, id := range ids {
		out = append(out, v.snap.Projects[id])
	}
	return out
}

func (v snapshotView) FindHomeModule(id string) (domain.HomeModule, bool) {
	for _, m := range v.snap.HomeModules {
		if m.ID == id {
			return m, true
		}
	}
	return domain.HomeModule{}, false
}

func (v snapshotView) FindWorkbenchGroup(id string) (domain.WorkbenchGroup, bool) {
	for _, g := range v.snap.Workbench {
		if g.ID == id {
			return g, true
		}
	}
	return domain.WorkbenchGroup{}, false
}

func (v snapshotView) FindWorkbenchItem(id string) (domain.WorkbenchItem, string, bool) {
	return v.snap.FindWorkbenchItem(id)
}

func (v snapshotView) FindProject(id string) (domain.ProjectDetails, bool) {
	p, ok := v.snap.Projects[id]
	return p, ok
}

func (v snapshotView) FindOCMStep(id string) (domain.OCMSetupStep, bool) {
	for _, s := range v.snap.OCMSetup {
		if s.ID == id {
			return s, true
		}
	}
	return domain.OCMSetupStep{}, false
}
