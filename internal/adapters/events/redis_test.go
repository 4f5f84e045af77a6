package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocmhub/pkg/domain"
)

func TestRedisPublisherDeliversEvents(t *testing.T) {
	srv := miniredis.RunT(t)
	ctx := context.Background()

	pub, err := NewRedisPublisher(ctx, "redis://"+srv.Addr(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pub.Close() })
	assert.Equal(t, DefaultChannel, pub.Channel())

	sub := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = sub.Close() })
	ps := sub.Subscribe(ctx, DefaultChannel)
	t.Cleanup(func() { _ = ps.Close() })
	_, err = ps.Receive(ctx)
	require.NoError(t, err)

	feed := NewFeed(4, WithPublisher(pub))
	feed.Record(ctx, 5, []domain.Change{change(domain.EntityDocument, domain.ActionUpdate, "wb1", "doc-1")})

	select {
	case msg := <-ps.Channel():
		var ev cloudevents.Event
		require.NoError(t, ev.UnmarshalJSON([]byte(msg.Payload)))
		assert.Equal(t, "ocmhub.document.update", ev.Type())
		assert.Equal(t, "wb1/doc-1", ev.Subject())
		assert.Equal(t, "5", ev.Extensions()[VersionExtension])
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestNewRedisPublisherErrors(t *testing.T) {
	ctx := context.Background()
	_, err := NewRedisPublisher(ctx, "", "c")
	assert.ErrorContains(t, err, "redis url is required")

	_, err = NewRedisPublisher(ctx, "http://nope", "c")
	assert.ErrorContains(t, err, "invalid redis url")

	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()
	_, err = NewRedisPublisher(ctx, "redis://"+addr, "c")
	assert.ErrorContains(t, err, "connect to redis")
}
