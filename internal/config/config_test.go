package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocmhub/internal/blob"
	"ocmhub/internal/core"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "fs", cfg.Archive.Driver)
	assert.Equal(t, 256, cfg.Events.RingSize)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "ocmhub.yaml", `
http:
  addr: "127.0.0.1:9090"
  read_timeout: 3s
store:
  driver: sqlite
  sqlite_path: /tmp/hub.db
  strict_not_found: true
archive:
  driver: s3
  schedule: "0 * * * *"
  s3:
    bucket: hub-archive
    path_style: true
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTP.WriteTimeout, "unset keys keep defaults")
	assert.True(t, cfg.Store.StrictNotFound)
	assert.Equal(t, "hub-archive", cfg.Archive.S3.Bucket)
	assert.Equal(t, "snapshots", cfg.Archive.Prefix)

	sc := cfg.StorageConfig()
	assert.Equal(t, core.StorageSQLite, sc.Driver)
	assert.Equal(t, "/tmp/hub.db", sc.SQLitePath)
	bc := cfg.BlobConfig()
	assert.Equal(t, blob.DriverS3, bc.Driver)
	assert.True(t, bc.S3.PathStyle)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "ocmhub.toml", `
[store]
driver = "redis"
redis_addr = "localhost:6379"

[events]
ring_size = 16
channel = "hub"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, "localhost:6379", cfg.Store.RedisAddr)
	assert.Equal(t, 16, cfg.Events.RingSize)
	assert.Equal(t, "hub", cfg.Events.Channel)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("/nonexistent/ocmhub.yaml")
	assert.Error(t, err)

	_, err = Load(writeFile(t, "ocmhub.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(writeFile(t, "bad.yaml", "store: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"OCMHUB_HTTP_ADDR":              ":7000",
		"OCMHUB_HTTP_SHUTDOWN_TIMEOUT":  "250ms",
		"OCMHUB_STORE_STRICT_NOT_FOUND": "true",
		"OCMHUB_EVENTS_RING_SIZE":       "32",
		"OCMHUB_ARCHIVE_S3_BUCKET":      "from-env",
		"OCMHUB_LOG_FORMAT":             "",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }
	require.NoError(t, ApplyEnv(&cfg, lookup))
	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.HTTP.ShutdownTimeout)
	assert.True(t, cfg.Store.StrictNotFound)
	assert.Equal(t, 32, cfg.Events.RingSize)
	assert.Equal(t, "from-env", cfg.Archive.S3.Bucket)
	assert.Equal(t, "text", cfg.Log.Format, "empty values are ignored")
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(&cfg, func(k string) (string, bool) {
		if k == "OCMHUB_EVENTS_RING_SIZE" {
			return "many", true
		}
		return "", false
	})
	assert.ErrorContains(t, err, "OCMHUB_EVENTS_RING_SIZE")

	cfg = Default()
	err = ApplyEnv(&cfg, func(k string) (string, bool) {
		if k == "OCMHUB_HTTP_READ_TIMEOUT" {
			return "soon", true
		}
		return "", false
	})
	assert.ErrorContains(t, err, "OCMHUB_HTTP_READ_TIMEOUT")
}

func TestLoadUsesProcessEnv(t *testing.T) {
	t.Setenv("OCMHUB_STORE_ID_STRATEGY", "sequence")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sequence", cfg.Store.IDStrategy)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown store driver", func(c *Config) { c.Store.Driver = "mongo" }, "store.driver"},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = "postgres" }, "store.postgres_dsn"},
		{"redis without addr", func(c *Config) { c.Store.Driver = "redis" }, "store.redis_addr"},
		{"sqlite without path", func(c *Config) { c.Store.Driver = "sqlite"; c.Store.SQLitePath = "" }, "store.sqlite_path"},
		{"bad id strategy", func(c *Config) { c.Store.IDStrategy = "ulid" }, "store.id_strategy"},
		{"s3 without bucket", func(c *Config) { c.Archive.Driver = "s3" }, "archive.s3.bucket"},
		{"bad schedule", func(c *Config) { c.Archive.Schedule = "sometimes" }, "archive.schedule"},
		{"empty ring", func(c *Config) { c.Events.RingSize = 0 }, "events.ring_size"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"missing addr", func(c *Config) { c.HTTP.Addr = "" }, "http.addr"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestSlogLevel(t *testing.T) {
	cfg := Default()
	for level, want := range map[string]string{"debug": "DEBUG", "info": "INFO", "warn": "WARN", "error": "ERROR"} {
		cfg.Log.Level = level
		assert.Equal(t, want, cfg.SlogLevel().String())
	}
}
