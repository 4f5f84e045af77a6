package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocmhub/internal/core"
	"ocmhub/pkg/domain"
)

var eventTime = time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC)

func change(entity domain.EntityType, action domain.Action, path ...string) domain.Change {
	return domain.Change{Entity: entity, Action: action, Path: path, After: map[string]string{"id": path[len(path)-1]}}
}

func TestFromChange(t *testing.T) {
	ev, err := FromChange(change(domain.EntityRisk, domain.ActionCreate, "wb1", "risk-9"), 7, 2, eventTime)
	require.NoError(t, err)

	assert.Equal(t, "v7-2", ev.ID())
	assert.Equal(t, "ocmhub.risk.create", ev.Type())
	assert.Equal(t, Source, ev.Source())
	assert.Equal(t, "wb1/risk-9", ev.Subject())
	assert.Equal(t, eventTime, ev.Time())
	assert.Equal(t, "7", ev.Extensions()[VersionExtension])
	assert.Equal(t, cloudevents.ApplicationJSON, ev.DataContentType())

	var data ChangeData
	require.NoError(t, json.Unmarshal(ev.Data(), &data))
	assert.Equal(t, domain.EntityRisk, data.Entity)
	assert.Equal(t, []string{"wb1", "risk-9"}, data.Path)
	assert.Nil(t, data.Before)
}

func TestFeedRingKeepsNewest(t *testing.T) {
	feed := NewFeed(3, WithClock(func() time.Time { return eventTime }))
	assert.Empty(t, feed.Recent(0))

	feed.Record(context.Background(), 1, []domain.Change{
		change(domain.EntityHomeModule, domain.ActionCreate, "a"),
		change(domain.EntityHomeModule, domain.ActionCreate, "b"),
	})
	assert.Equal(t, 2, feed.Len())

	feed.Record(context.Background(), 2, []domain.Change{
		change(domain.EntityHomeModule, domain.ActionUpdate, "a"),
		change(domain.EntityHomeModule, domain.ActionDelete, "b"),
	})
	assert.Equal(t, 3, feed.Len())

	got := feed.Recent(0)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"v1-1", "v2-0", "v2-1"}, ids(got))
	assert.Equal(t, []string{"v2-0", "v2-1"}, ids(feed.Recent(2)))

	feed.Record(context.Background(), 3, nil)
	assert.Equal(t, 3, feed.Len())
}

func TestFeedDefaultSize(t *testing.T) {
	assert.Len(t, NewFeed(0).ring, DefaultRingSize)
}

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(context.Context, cloudevents.Event) error {
	p.calls++
	return errors.New("boom")
}

type memLogger struct{ errors []string }

func (l *memLogger) Debug(string, ...any)       {}
func (l *memLogger) Info(string, ...any)        {}
func (l *memLogger) Warn(string, ...any)        {}
func (l *memLogger) Error(msg string, _ ...any) { l.errors = append(l.errors, msg) }

func TestFeedLogsPublishFailures(t *testing.T) {
	pub := &failingPublisher{}
	log := &memLogger{}
	feed := NewFeed(4, WithPublisher(pub), WithLogger(log))
	feed.Record(context.Background(), 1, []domain.Change{change(domain.EntityRisk, domain.ActionDelete, "wb1", "r1")})

	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, []string{"change event publish failed"}, log.errors)
	assert.Equal(t, 1, feed.Len(), "publish failures must not drop the event from the ring")
}

func TestFeedHookReceivesCommits(t *testing.T) {
	feed := NewFeed(16)
	svc := core.NewInMemoryService(nil)
	svc.Subscribe(feed.Hook())

	_, _, err := svc.AddHomeModule(context.Background(), domain.HomeModule{Title: "Reports"})
	require.NoError(t, err)

	got := feed.Recent(0)
	require.Len(t, got, 1)
	assert.Equal(t, "ocmhub.home_module.create", got[0].Type())
	assert.Equal(t, "1", got[0].Extensions()[VersionExtension])
}

func ids(events []cloudevents.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.ID())
	}
	return out
}
