package events

import (
	"context"
	"errors"
	"fmt"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel used when none is configured.
const DefaultChannel = "ocmhub.changes"

// RedisPublisher publishes structured-mode CloudEvents JSON to a redis channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher connects to url (redis://host:port/db) and verifies the
// connection with PING.
func NewRedisPublisher(ctx context.Context, url, channel string) (*RedisPublisher, error) {
	if url == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisPublisherFromClient(client, channel), nil
}

// NewRedisPublisherFromClient wraps an existing client.
func NewRedisPublisherFromClient(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

// Channel returns the target channel.
func (p *RedisPublisher) Channel() string {
	return p.channel
}

// Publish implements Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, event cloudevents.Event) error {
	payload, err := event.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID(), err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}

// Close releases the redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
