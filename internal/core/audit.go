package core

import (
	"context"
	"strings"
	"time"

	"ocmhub/pkg/domain"
)

// AuditStatus classifies the outcome of an audited operation.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
	// AuditStatusSkipped marks a tolerated not-found no-op.
	AuditStatusSkipped AuditStatus = "skipped"
)

// AuditEntry describes one service operation.
type AuditEntry struct {
	Operation string
	Entity    domain.EntityType
	Action    domain.Action
	EntityID  string
	Status    AuditStatus
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// AuditRecorder receives an entry for every audited operation.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// MetricsRecorder observes operation outcomes and latencies.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Tracer opens a span around each operation.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is closed with the operation error, nil on success.
type TraceSpan interface {
	End(err error)
}

type noopAuditRecorder struct{}

func (noopAuditRecorder) Record(context.Context, AuditEntry) {}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

var auditVerbs = map[string]domain.Action{
	"add":    domain.ActionCreate,
	"update": domain.ActionUpdate,
	"delete": domain.ActionDelete,
	"move":   domain.ActionUpdate,
	"set":    domain.ActionUpdate,
}

var auditEntities = map[domain.EntityType]struct{}{}

func init() {
	for _, e := range []domain.EntityType{
		domain.EntityHomeModule, domain.EntityWorkbenchGroup, domain.EntityWorkbenchItem,
		domain.EntityProject, domain.EntityBudget, domain.EntityRAGEntry, domain.EntityQuickLink,
		domain.EntityAnnouncement, domain.EntityDocument, domain.EntityRisk, domain.EntityIssue,
		domain.EntityAction, domain.EntityDependency, domain.EntityAssumption, domain.EntityLesson,
		domain.EntityStatusUpdate, domain.EntityBudgetCategory, domain.EntityResource,
		domain.EntityAssetCategory, domain.EntityAssetLink, domain.EntityAssetDocument,
		domain.EntityKeyUpdate, domain.EntityOCMStep, domain.EntityOCMTopic, domain.EntityOCMItem,
		domain.EntityOCMSidebarLink, domain.EntityOCMImageCard,
	} {
		auditEntities[e] = struct{}{}
	}
}

// parseOperation splits "<verb>_<entity>" operation names.
func parseOperation(op string) (domain.EntityType, domain.Action, bool) {
	verb, rest, ok := strings.Cut(op, "_")
	if !ok {
		return "", "", false
	}
	action, ok := auditVerbs[verb]
	if !ok {
		return "", "", false
	}
	entity := domain.EntityType(rest)
	if _, ok := auditEntities[entity]; !ok {
		return "", "", false
	}
	return entity, action, true
}

func (s *Service) recordAuditSuccess(ctx context.Context, op, entityID string, duration time.Duration) {
	s.recordAudit(ctx, op, entityID, AuditStatusSuccess, duration, nil)
}

func (s *Service) recordAudit(ctx context.Context, op, entityID string, status AuditStatus, duration time.Duration, err error) {
	entity, action, ok := parseOperation(op)
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: op,
		Entity:    entity,
		Action:    action,
		EntityID:  entityID,
		Status:    status,
		Duration:  duration,
		Timestamp: s.clock.Now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)
}
