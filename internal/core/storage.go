package core

import (
	"context"
	"fmt"
	"time"

	"ocmhub/internal/infra/persistence/memory"
	"ocmhub/internal/infra/persistence/postgres"
	"ocmhub/internal/infra/persistence/redis"
	"ocmhub/internal/infra/persistence/sqlite"
	"ocmhub/pkg/domain"

	goredis "github.com/redis/go-redis/v9"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (default)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite snapshot mirror
	StoragePostgres StorageDriver = "postgres" // PostgreSQL snapshot mirror
	StorageRedis    StorageDriver = "redis"    // redis hash snapshot mirror
)

// ID strategies accepted by StorageConfig.
const (
	IDStrategyUUID     = "uuid"
	IDStrategySequence = "sequence"
)

type (
	Transaction     = domain.Transaction
	TransactionView = domain.TransactionView
	PersistentStore = domain.PersistentStore
)

// StorageConfig selects and parameterises the store backend.
type StorageConfig struct {
	Driver      StorageDriver
	SQLitePath  string
	PostgresDSN string
	RedisAddr   string
	RedisKey    string
	IDStrategy  string
	// Now overrides the clock used for stamped dates.
	Now func() time.Time
}

// MemoryOptions translates the config into memory store options.
func (c StorageConfig) MemoryOptions() ([]memory.Option, error) {
	var opts []memory.Option
	switch c.IDStrategy {
	case "", IDStrategyUUID:
		opts = append(opts, memory.WithIDGenerator(domain.UUIDGenerator{}))
	case IDStrategySequence:
		opts = append(opts, memory.WithIDGenerator(&domain.SequenceGenerator{}))
	default:
		return nil, fmt.Errorf("unknown id strategy %s", c.IDStrategy)
	}
	if c.Now != nil {
		opts = append(opts, memory.WithClock(c.Now))
	}
	return opts, nil
}

// OpenPersistentStore opens the configured backend. Defaults to memory when
// the driver is unset. Durable backends hydrate from their mirror before
// returning; callers close them through io.Closer.
func OpenPersistentStore(ctx context.Context, cfg StorageConfig, engine *RulesEngine) (PersistentStore, error) {
	opts, err := cfg.MemoryOptions()
	if err != nil {
		return nil, err
	}
	driver := cfg.Driver
	if driver == "" {
		driver = StorageMemory
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(engine, opts...), nil
	case StorageSQLite:
		s, err := sqlite.NewStore(cfg.SQLitePath, engine, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	case StoragePostgres:
		s, err := postgres.NewStore(cfg.PostgresDSN, engine, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	case StorageRedis:
		s, err := redis.NewStore(ctx, &goredis.Options{Addr: cfg.RedisAddr}, cfg.RedisKey, engine, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
