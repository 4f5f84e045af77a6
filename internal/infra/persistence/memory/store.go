// Package memory provides the in-memory implementation of the entity store.
// Every other backend embeds it and mirrors its committed snapshots.
package memory

import (
	"context"
	"sync"
	"time"

	"ocmhub/pkg/domain"
)

// Compile-time contract assertions ensuring memory.Store adheres to the domain persistence interfaces.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Snapshot aliases domain.Snapshot for persistence backends.
	Snapshot = domain.Snapshot
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

// Store provides an in-memory transactional store. Committed snapshots are
// never mutated; each commit publishes a new snapshot that shares untouched
// collections with its predecessor.
type Store struct {
	mu      sync.RWMutex
	current Snapshot
	engine  *RulesEngine
	nowFn   func() time.Time
	ids     domain.IDGenerator
	hooks   []domain.CommitHook
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for stamped dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// WithIDGenerator overrides the identifier allocator.
func WithIDGenerator(gen domain.IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.ids = gen
		}
	}
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine, opts ...Option) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	s := &Store{
		current: domain.EmptySnapshot(),
		engine:  engine,
		nowFn:   func() time.Time { return time.Now().UTC() },
		ids:     domain.UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RulesEngine exposes the configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// Subscribe registers a hook invoked after every commit and import.
func (s *Store) Subscribe(hook domain.CommitHook) {
	if hook == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Current returns the latest committed snapshot. The value is shared and
// must be treated as read-only.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Version reports the version of the latest committed snapshot.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Version
}

// ExportState deep-copies the current snapshot for external persistence.
func (s *Store) ExportState() Snapshot {
	return s.Current().Clone()
}

// ImportState replaces the store state with the provided snapshot after
// normalising it and checking it against the registered rules. The imported
// snapshot always advances the store version.
func (s *Store) ImportState(snapshot Snapshot) error {
	publish, err := s.importLocked(snapshot)
	if err != nil {
		return err
	}
	publish(context.Background())
	return nil
}

func (s *Store) importLocked(snapshot Snapshot) (func(context.Context), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	migrated := migrateSnapshot(snapshot.Clone(), s.ids)
	res, err := s.engine.Evaluate(context.Background(), newTransactionView(migrated), nil)
	if err != nil {
		return nil, err
	}
	if res.HasBlocking() {
		return nil, domain.RuleViolationError{Result: res}
	}
	if migrated.Version <= s.current.Version {
		migrated.Version = s.current.Version + 1
	}
	s.current = migrated
	return s.publisher(migrated, nil), nil
}

// RunInTransaction executes fn against a working copy of the latest snapshot.
// The copy is published only when fn succeeds, at least one change was
// recorded, and no blocking rule violation is reported. The store lock is held
// while fn runs, so fn must read through tx and never call back into the store.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	result, publish, err := s.commitLocked(ctx, fn)
	if err != nil {
		return result, err
	}
	publish(ctx)
	return result, nil
}

func (s *Store) commitLocked(ctx context.Context, fn func(tx Transaction) error) (Result, func(context.Context), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.current,
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, nil, err
	}
	if len(tx.changes) == 0 {
		return Result{}, func(context.Context) {}, nil
	}

	var result Result
	if s.engine != nil {
		res, err := s.engine.Evaluate(ctx, newTransactionView(tx.state), tx.changes)
		if err != nil {
			return Result{}, nil, err
		}
		result = res
		if res.HasBlocking() {
			return res, nil, domain.RuleViolationError{Result: res}
		}
	}

	tx.state.Version = s.current.Version + 1
	s.current = tx.state
	return result, s.publisher(s.current, tx.changes), nil
}

// publisher captures the hooks registered at commit time. The returned
// function runs them once the lock has been released.
func (s *Store) publisher(snapshot Snapshot, changes []Change) func(context.Context) {
	hooks := append([]domain.CommitHook(nil), s.hooks...)
	return func(ctx context.Context) {
		for _, hook := range hooks {
			hook(ctx, snapshot, changes)
		}
	}
}

// View executes fn against the latest committed snapshot.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	return fn(newTransactionView(s.Current()))
}

// transaction accumulates changes on a copy-on-write working snapshot.
type transaction struct {
	store        *Store
	state        Snapshot
	changes      []Change
	now          time.Time
	ownsProjects bool
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

func (tx *transaction) newID(prefix string) string {
	return tx.store.ids.NewID(prefix)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(tx.state)
}

// putProject stores p in a project map owned by the transaction.
func (tx *transaction) putProject(p domain.ProjectDetails) {
	tx.ownProjects()
	tx.state.Projects[p.ID] = p
}

func (tx *transaction) dropProject(id string) {
	tx.ownProjects()
	delete(tx.state.Projects, id)
}

func (tx *transaction) ownProjects() {
	if tx.ownsProjects {
		return
	}
	cp := make(map[string]domain.ProjectDetails, len(tx.state.Projects)+1)
	for k, v := range tx.state.Projects {
		cp[k] = v
	}
	tx.state.Projects = cp
	tx.ownsProjects = true
}

func (tx *transaction) project(id string) (domain.ProjectDetails, error) {
	p, ok := tx.state.Projects[id]
	if !ok {
		return domain.ProjectDetails{}, domain.ErrNotFound{Entity: domain.EntityProject, ID: id}
	}
	return p, nil
}
