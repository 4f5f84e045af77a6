// Package redis mirrors the in-memory entity store into a single Redis hash,
// one field per snapshot bucket.
package redis

import (
	"context"
	"fmt"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"ocmhub/internal/infra/persistence/memory"
	"ocmhub/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

// DefaultKey is the hash key used when none is configured.
const DefaultKey = "ocmhub:state"

// Store persists committed snapshots to a Redis hash while reusing the
// in-memory implementation for transactions.
type Store struct {
	*memory.Store
	rdb *goredis.Client
	key string
	mu  sync.Mutex
}

// NewStore connects to Redis, verifies connectivity and hydrates the memory
// store from the hash at key.
func NewStore(ctx context.Context, opts *goredis.Options, key string, engine *domain.RulesEngine, memOpts ...memory.Option) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}
	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	s := &Store{Store: memory.NewStore(engine, memOpts...), rdb: rdb, key: key}
	if err := s.load(ctx); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	fields, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return fmt.Errorf("read %s: %w", s.key, err)
	}
	payloads := make(map[string][]byte, len(fields))
	for bucket, payload := range fields {
		payloads[bucket] = []byte(payload)
	}
	snapshot, ok, err := memory.DecodeBuckets(payloads)
	if err != nil || !ok {
		return err
	}
	return s.Store.ImportState(snapshot)
}

// persist writes every bucket in one MULTI/EXEC so readers never observe a
// partially written snapshot.
func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payloads, err := memory.EncodeBuckets(s.Current())
	if err != nil {
		return err
	}
	values := make([]any, 0, 2*len(memory.Buckets))
	for _, bucket := range memory.Buckets {
		values = append(values, bucket, payloads[bucket])
	}
	if _, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, s.key, values...)
		return nil
	}); err != nil {
		return fmt.Errorf("write %s: %w", s.key, err)
	}
	return nil
}

// RunInTransaction applies fn through the memory store, then writes the
// committed snapshot to Redis.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if err := s.persist(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// ImportState replaces the in-memory state and writes it through to Redis.
func (s *Store) ImportState(snapshot domain.Snapshot) error {
	if err := s.Store.ImportState(snapshot); err != nil {
		return err
	}
	return s.persist(context.Background())
}

// Key returns the hash key holding the snapshot buckets.
func (s *Store) Key() string { return s.key }

// Close closes the Redis connection.
func (s *Store) Close() error { return s.rdb.Close() }
