package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ocmhub/internal/infra/persistence/memory"
	"ocmhub/pkg/domain"
)

// Logger is the structured logging surface the service writes to.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Clock supplies the current time to the service.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Service exposes the dashboard CRUD operations. Every mutating method runs
// in exactly one store transaction through run.
type Service struct {
	store          domain.PersistentStore
	engine         *RulesEngine
	clock          Clock
	logger         Logger
	audit          AuditRecorder
	metrics        MetricsRecorder
	tracer         Tracer
	strictNotFound bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the service clock. Stores built by NewInMemoryService
// stamp dates from the same clock.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuditRecorder sets the audit sink.
func WithAuditRecorder(recorder AuditRecorder) ServiceOption {
	return func(s *Service) {
		if recorder != nil {
			s.audit = recorder
		}
	}
}

// WithMetricsRecorder sets the metrics sink.
func WithMetricsRecorder(recorder MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithTracer sets the tracer wrapping each operation.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithStrictNotFound makes operations addressing missing entities return
// domain.ErrNotFound. By default such operations are silent no-ops.
func WithStrictNotFound(strict bool) ServiceOption {
	return func(s *Service) {
		s.strictNotFound = strict
	}
}

type rulesEngineProvider interface {
	RulesEngine() *RulesEngine
}

type nowFuncProvider interface {
	NowFunc() func() time.Time
}

// NewService constructs a service over an existing store. The store keeps its
// own clock for stamped dates; the service clock only times audit entries.
func NewService(store domain.PersistentStore, opts ...ServiceOption) *Service {
	svc := &Service{
		store:   store,
		logger:  noopLogger{},
		audit:   noopAuditRecorder{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
	}
	if p, ok := store.(rulesEngineProvider); ok {
		svc.engine = p.RulesEngine()
	}
	if p, ok := store.(nowFuncProvider); ok {
		if now := p.NowFunc(); now != nil {
			svc.clock = ClockFunc(now)
		}
	}
	if svc.clock == nil {
		svc.clock = ClockFunc(func() time.Time { return time.Now().UTC() })
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// NewInMemoryService creates a service and in-memory store with the given
// rules engine. A nil engine selects the default rule set.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	probe := &Service{}
	for _, opt := range opts {
		opt(probe)
	}
	var storeOpts []memory.Option
	if probe.clock != nil {
		storeOpts = append(storeOpts, memory.WithClock(probe.clock.Now))
	}
	return NewService(memory.NewStore(engine, storeOpts...), opts...)
}

// Strict returns a view of the service sharing its store and recorders that
// reports missing entities as domain.ErrNotFound.
func (s *Service) Strict() *Service {
	cp := *s
	cp.strictNotFound = true
	return &cp
}

// Store returns the underlying storage implementation.
func (s *Service) Store() domain.PersistentStore {
	return s.store
}

// RulesEngine returns the engine evaluated on every commit, or nil when the
// store does not expose one.
func (s *Service) RulesEngine() *RulesEngine {
	return s.engine
}

// RegisterRule adds a rule to the engine. Register rules before serving
// traffic; the engine is not guarded against concurrent registration.
func (s *Service) RegisterRule(rule Rule) error {
	if rule == nil {
		return errors.New("rule cannot be nil")
	}
	if s.engine == nil {
		return errors.New("store does not expose a rules engine")
	}
	s.engine.Register(rule)
	return nil
}

// Snapshot returns the latest committed snapshot. It is shared; do not mutate it.
func (s *Service) Snapshot() Snapshot {
	return s.store.Current()
}

// Version reports the latest committed version.
func (s *Service) Version() uint64 {
	return s.store.Version()
}

// ExportSnapshot returns a deep copy of the current state.
func (s *Service) ExportSnapshot() Snapshot {
	return s.store.ExportState()
}

// Subscribe registers a commit hook on the store.
func (s *Service) Subscribe(hook domain.CommitHook) {
	s.store.Subscribe(hook)
}

// ImportSnapshot replaces the store state after normalisation and rule checks.
func (s *Service) ImportSnapshot(ctx context.Context, snapshot Snapshot) error {
	const op = "import_snapshot"
	ctx, span := s.tracer.Start(ctx, op)
	started := time.Now()
	err := s.store.ImportState(snapshot)
	duration := time.Since(started)
	s.metrics.Observe(ctx, op, err == nil, duration)
	span.End(err)
	if err != nil {
		s.logger.Error("import failed", "operation", op, "error", err)
		return fmt.Errorf("import snapshot: %w", err)
	}
	s.logger.Info("snapshot imported", "version", s.store.Version())
	return nil
}

// Batch runs fn in a single transaction so several operations commit together
// or not at all. A missing entity inside a batch is always reported as
// ErrNotFound, whatever the not-found mode. fn must only use tx and must not
// call other Service or store methods.
func (s *Service) Batch(ctx context.Context, fn func(Transaction) error) (Result, error) {
	return s.Strict().run(ctx, "batch", func(tx Transaction) (string, error) {
		return "", fn(tx)
	})
}

// run is the single transactional entry point. fn returns the id of the
// affected entity for audit purposes.
func (s *Service) run(ctx context.Context, op string, fn func(Transaction) (string, error)) (Result, error) {
	ctx, span := s.tracer.Start(ctx, op)
	started := time.Now()
	var entityID string
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		id, err := fn(tx)
		entityID = id
		return err
	})
	duration := time.Since(started)

	if err != nil && domain.IsNotFound(err) && !s.strictNotFound {
		s.logger.Debug("operation skipped", "operation", op, "reason", err.Error())
		s.recordAudit(ctx, op, entityID, AuditStatusSkipped, duration, err)
		s.metrics.Observe(ctx, op, true, duration)
		span.End(nil)
		return Result{}, nil
	}
	if err != nil {
		s.logger.Error("operation failed", "operation", op, "error", err)
		s.recordAudit(ctx, op, entityID, AuditStatusError, duration, err)
		s.metrics.Observe(ctx, op, false, duration)
		span.End(err)
		return res, err
	}

	s.logger.Debug("operation committed", "operation", op, "entity_id", entityID, "version", s.store.Version())
	for _, v := range res.Violations {
		if v.Severity == SeverityWarn {
			s.logger.Warn("rule warning", "rule", v.Rule, "entity", v.Entity, "entity_id", v.EntityID, "message", v.Message)
		}
	}
	s.recordAuditSuccess(ctx, op, entityID, duration)
	s.metrics.Observe(ctx, op, true, duration)
	span.End(nil)
	return res, nil
}

// Replace returns a mutator that overwrites the stored entity with v. The
// store preserves identifiers and creation stamps afterwards.
func Replace[T any](v T) func(*T) error {
	return func(cur *T) error {
		*cur = v
		return nil
	}
}
