// Package config loads the ocmhub configuration from a YAML or TOML file
// and OCMHUB_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"ocmhub/internal/blob"
	"ocmhub/internal/core"
)

// EnvPrefix prefixes every environment override, e.g. OCMHUB_STORE_DRIVER.
const EnvPrefix = "OCMHUB"

// Config is the top-level ocmhub configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http" toml:"http" json:"http"`
	Store   StoreConfig   `yaml:"store" toml:"store" json:"store"`
	Seed    SeedConfig    `yaml:"seed" toml:"seed" json:"seed"`
	Archive ArchiveConfig `yaml:"archive" toml:"archive" json:"archive"`
	Events  EventsConfig  `yaml:"events" toml:"events" json:"events"`
	Log     LogConfig     `yaml:"log" toml:"log" json:"log"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr            string        `yaml:"addr" toml:"addr" json:"addr" env:"HTTP_ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout" toml:"read_timeout" json:"read_timeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" toml:"write_timeout" json:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" json:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT"`
}

// StoreConfig selects the entity store backend.
type StoreConfig struct {
	Driver         string `yaml:"driver" toml:"driver" json:"driver" env:"STORE_DRIVER"`
	SQLitePath     string `yaml:"sqlite_path" toml:"sqlite_path" json:"sqlite_path" env:"STORE_SQLITE_PATH"`
	PostgresDSN    string `yaml:"postgres_dsn" toml:"postgres_dsn" json:"postgres_dsn" env:"STORE_POSTGRES_DSN"`
	RedisAddr      string `yaml:"redis_addr" toml:"redis_addr" json:"redis_addr" env:"STORE_REDIS_ADDR"`
	RedisKey       string `yaml:"redis_key" toml:"redis_key" json:"redis_key" env:"STORE_REDIS_KEY"`
	IDStrategy     string `yaml:"id_strategy" toml:"id_strategy" json:"id_strategy" env:"STORE_ID_STRATEGY"`
	StrictNotFound bool   `yaml:"strict_not_found" toml:"strict_not_found" json:"strict_not_found" env:"STORE_STRICT_NOT_FOUND"`
}

// SeedConfig points at an optional seed file. Without a path the built-in
// data set is used.
type SeedConfig struct {
	Path  string `yaml:"path" toml:"path" json:"path" env:"SEED_PATH"`
	Watch bool   `yaml:"watch" toml:"watch" json:"watch" env:"SEED_WATCH"`
}

// ArchiveConfig configures snapshot archiving.
type ArchiveConfig struct {
	Driver   string   `yaml:"driver" toml:"driver" json:"driver" env:"ARCHIVE_DRIVER"`
	FSRoot   string   `yaml:"fs_root" toml:"fs_root" json:"fs_root" env:"ARCHIVE_FS_ROOT"`
	Prefix   string   `yaml:"prefix" toml:"prefix" json:"prefix" env:"ARCHIVE_PREFIX"`
	Schedule string   `yaml:"schedule" toml:"schedule" json:"schedule" env:"ARCHIVE_SCHEDULE"`
	S3       S3Config `yaml:"s3" toml:"s3" json:"s3"`
}

// S3Config configures the s3 archive driver.
type S3Config struct {
	Bucket          string `yaml:"bucket" toml:"bucket" json:"bucket" env:"ARCHIVE_S3_BUCKET"`
	Region          string `yaml:"region" toml:"region" json:"region" env:"ARCHIVE_S3_REGION"`
	Endpoint        string `yaml:"endpoint" toml:"endpoint" json:"endpoint" env:"ARCHIVE_S3_ENDPOINT"`
	PathStyle       bool   `yaml:"path_style" toml:"path_style" json:"path_style" env:"ARCHIVE_S3_PATH_STYLE"`
	AccessKeyID     string `yaml:"access_key_id" toml:"access_key_id" json:"-" env:"ARCHIVE_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" toml:"secret_access_key" json:"-" env:"ARCHIVE_S3_SECRET_ACCESS_KEY"`
}

// EventsConfig configures the change feed.
type EventsConfig struct {
	RingSize int    `yaml:"ring_size" toml:"ring_size" json:"ring_size" env:"EVENTS_RING_SIZE"`
	RedisURL string `yaml:"redis_url" toml:"redis_url" json:"redis_url" env:"EVENTS_REDIS_URL"`
	Channel  string `yaml:"channel" toml:"channel" json:"channel" env:"EVENTS_CHANNEL"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level" json:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" toml:"format" json:"format" env:"LOG_FORMAT"`
}

// Default returns the configuration used when no file or override is given.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver:     string(core.StorageMemory),
			SQLitePath: "ocmhub.db",
			IDStrategy: core.IDStrategyUUID,
		},
		Archive: ArchiveConfig{
			Driver: string(blob.DriverFilesystem),
			FSRoot: "./archive",
			Prefix: "snapshots",
		},
		Events: EventsConfig{RingSize: 256, Channel: "ocmhub.changes"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path (when non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

var (
	storeDrivers   = []string{"memory", "sqlite", "postgres", "redis"}
	idStrategies   = []string{core.IDStrategyUUID, core.IDStrategySequence}
	archiveDrivers = []string{string(blob.DriverFilesystem), string(blob.DriverMemory), string(blob.DriverS3)}
	logLevels      = []string{"debug", "info", "warn", "error"}
	logFormats     = []string{"text", "json"}
)

// Validate checks the configuration for consistency and reports every problem.
func (c Config) Validate() error {
	var errs []error
	oneOf := func(field, value string, allowed []string) {
		for _, a := range allowed {
			if value == a {
				return
			}
		}
		errs = append(errs, fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, "|"), value))
	}

	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	oneOf("store.driver", c.Store.Driver, storeDrivers)
	oneOf("store.id_strategy", c.Store.IDStrategy, idStrategies)
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("store.sqlite_path is required for the sqlite driver"))
		}
	case "postgres":
		if c.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("store.postgres_dsn is required for the postgres driver"))
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			errs = append(errs, errors.New("store.redis_addr is required for the redis driver"))
		}
	}
	oneOf("archive.driver", c.Archive.Driver, archiveDrivers)
	if c.Archive.Driver == string(blob.DriverS3) && c.Archive.S3.Bucket == "" {
		errs = append(errs, errors.New("archive.s3.bucket is required for the s3 driver"))
	}
	if c.Archive.Schedule != "" {
		if _, err := cron.ParseStandard(c.Archive.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("archive.schedule: %w", err))
		}
	}
	if c.Events.RingSize <= 0 {
		errs = append(errs, errors.New("events.ring_size must be positive"))
	}
	oneOf("log.level", strings.ToLower(c.Log.Level), logLevels)
	oneOf("log.format", strings.ToLower(c.Log.Format), logFormats)
	return errors.Join(errs...)
}

// StorageConfig translates the store section for core.OpenPersistentStore.
func (c Config) StorageConfig() core.StorageConfig {
	return core.StorageConfig{
		Driver:      core.StorageDriver(c.Store.Driver),
		SQLitePath:  c.Store.SQLitePath,
		PostgresDSN: c.Store.PostgresDSN,
		RedisAddr:   c.Store.RedisAddr,
		RedisKey:    c.Store.RedisKey,
		IDStrategy:  c.Store.IDStrategy,
	}
}

// BlobConfig translates the archive section for blob.Open.
func (c Config) BlobConfig() blob.Config {
	return blob.Config{
		Driver: blob.Driver(c.Archive.Driver),
		FSRoot: c.Archive.FSRoot,
		S3: blob.S3Config{
			Bucket:          c.Archive.S3.Bucket,
			Region:          c.Archive.S3.Region,
			Endpoint:        c.Archive.S3.Endpoint,
			PathStyle:       c.Archive.S3.PathStyle,
			AccessKeyID:     c.Archive.S3.AccessKeyID,
			SecretAccessKey: c.Archive.S3.SecretAccessKey,
		},
	}
}

// SlogLevel maps log.level onto a slog level.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
