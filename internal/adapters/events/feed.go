// Package events turns committed store changes into CloudEvents, keeps the
// most recent ones in memory and fans them out to optional publishers.
package events

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"

	"ocmhub/internal/core"
	"ocmhub/pkg/domain"
)

const (
	// Source is the CloudEvents source attribute of every change event.
	Source = "/ocmhub/store"
	// TypePrefix prefixes the event type, followed by <entity>.<action>.
	TypePrefix = "ocmhub."
	// VersionExtension carries the committed store version.
	VersionExtension = "storeversion"
	// DefaultRingSize bounds the in-memory history when none is configured.
	DefaultRingSize = 256
)

// Publisher forwards events outside the process.
type Publisher interface {
	Publish(ctx context.Context, event cloudevents.Event) error
}

// ChangeData is the JSON payload of a change event.
type ChangeData struct {
	Entity domain.EntityType `json:"entity"`
	Action domain.Action     `json:"action"`
	Path   []string          `json:"path"`
	Before any               `json:"before,omitempty"`
	After  any               `json:"after,omitempty"`
}

// Type returns the event type for an entity and action.
func Type(entity domain.EntityType, action domain.Action) string {
	return TypePrefix + string(entity) + "." + string(action)
}

// FromChange builds the event for one change of the commit at version. seq
// orders changes within the commit and keeps ids unique.
func FromChange(ch domain.Change, version uint64, seq int, at time.Time) (cloudevents.Event, error) {
	ev := cloudevents.NewEvent()
	ev.SetSpecVersion(cloudevents.VersionV1)
	ev.SetID(fmt.Sprintf("v%d-%d", version, seq))
	ev.SetSource(Source)
	ev.SetType(Type(ch.Entity, ch.Action))
	ev.SetSubject(ch.Subject())
	ev.SetTime(at)
	ev.SetExtension(VersionExtension, strconv.FormatUint(version, 10))
	data := ChangeData{Entity: ch.Entity, Action: ch.Action, Path: ch.Path, Before: ch.Before, After: ch.After}
	if err := ev.SetData(cloudevents.ApplicationJSON, data); err != nil {
		return cloudevents.Event{}, fmt.Errorf("encode %s change: %w", ch.Entity, err)
	}
	if err := ev.Validate(); err != nil {
		return cloudevents.Event{}, fmt.Errorf("invalid change event: %w", err)
	}
	return ev, nil
}

// Feed is a bounded ring of the most recent change events.
type Feed struct {
	mu         sync.RWMutex
	ring       []cloudevents.Event
	next       int
	full       bool
	publishers []Publisher
	logger     core.Logger
	now        func() time.Time
	timeout    time.Duration
}

// Option configures a Feed.
type Option func(*Feed)

// WithPublisher adds a publisher invoked for every event.
func WithPublisher(p Publisher) Option {
	return func(f *Feed) {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
}

// WithLogger sets the logger used for conversion and publish failures.
func WithLogger(l core.Logger) Option {
	return func(f *Feed) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithClock overrides the event time source.
func WithClock(now func() time.Time) Option {
	return func(f *Feed) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFeed keeps up to size events. Non-positive sizes use DefaultRingSize.
func NewFeed(size int, opts ...Option) *Feed {
	if size <= 0 {
		size = DefaultRingSize
	}
	f := &Feed{
		ring:    make([]cloudevents.Event, size),
		logger:  nopLogger{},
		now:     func() time.Time { return time.Now().UTC() },
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Hook returns the commit hook to register with Service.Subscribe.
func (f *Feed) Hook() domain.CommitHook {
	return func(ctx context.Context, snap domain.Snapshot, changes []domain.Change) {
		f.Record(ctx, snap.Version, changes)
	}
}

// Record converts and stores the changes of one commit, then publishes them.
func (f *Feed) Record(ctx context.Context, version uint64, changes []domain.Change) {
	if len(changes) == 0 {
		return
	}
	at := f.now()
	batch := make([]cloudevents.Event, 0, len(changes))
	for i, ch := range changes {
		ev, err := FromChange(ch, version, i, at)
		if err != nil {
			f.logger.Warn("change event dropped", "entity", ch.Entity, "version", version, "error", err)
			continue
		}
		batch = append(batch, ev)
	}

	f.mu.Lock()
	for _, ev := range batch {
		f.ring[f.next] = ev
		f.next = (f.next + 1) % len(f.ring)
		if f.next == 0 {
			f.full = true
		}
	}
	f.mu.Unlock()

	if len(f.publishers) == 0 {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()
	for _, ev := range batch {
		for _, p := range f.publishers {
			if err := p.Publish(pctx, ev); err != nil {
				f.logger.Error("change event publish failed", "id", ev.ID(), "type", ev.Type(), "error", err)
			}
		}
	}
}

// Recent returns up to limit events, oldest first. A non-positive limit
// returns everything retained.
func (f *Feed) Recent(limit int) []cloudevents.Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []cloudevents.Event
	if f.full {
		out = make([]cloudevents.Event, 0, len(f.ring))
		out = append(out, f.ring[f.next:]...)
		out = append(out, f.ring[:f.next]...)
	} else {
		out = append([]cloudevents.Event(nil), f.ring[:f.next]...)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Len reports how many events are retained.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.full {
		return len(f.ring)
	}
	return f.next
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
