// Package archive stores point-in-time copies of the entity store in a blob
// store and restores them.
package archive

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"ocmhub/internal/blob"
	"ocmhub/internal/core"
	"ocmhub/pkg/domain"
)

const (
	// DefaultPrefix is the key prefix used when none is configured.
	DefaultPrefix = "snapshots"
	contentType   = "application/json"
	keyTimeLayout = "20060102T150405Z"
	schemaURL     = "https://ocmhub.local/schemas/snapshot.json"
)

//go:embed snapshot.schema.json
var snapshotSchema []byte

// ErrNoArchives is returned when a restore finds nothing to restore.
var ErrNoArchives = errors.New("no archives found")

// ErrInvalidMatch wraps glob compilation failures from List.
var ErrInvalidMatch = errors.New("invalid match pattern")

// Source is the store surface the archiver reads from and restores into.
// *core.Service satisfies it.
type Source interface {
	Version() uint64
	ExportSnapshot() domain.Snapshot
	ImportSnapshot(ctx context.Context, snapshot domain.Snapshot) error
}

// Archive describes one stored snapshot.
type Archive struct {
	Key       string    `json:"key"`
	Version   uint64    `json:"version"`
	Size      int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Archiver writes and reads snapshot archives.
type Archiver struct {
	source Source
	store  blob.Store
	prefix string
	now    func() time.Time
	logger core.Logger
	schema *jsonschema.Schema

	mu           sync.Mutex
	lastVersion  uint64
	haveArchived bool
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithPrefix sets the key prefix archives are stored under.
func WithPrefix(prefix string) Option {
	return func(a *Archiver) {
		if p := strings.Trim(prefix, "/"); p != "" {
			a.prefix = p
		}
	}
}

// WithClock overrides the clock used for archive keys.
func WithClock(now func() time.Time) Option {
	return func(a *Archiver) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger core.Logger) Option {
	return func(a *Archiver) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New builds an Archiver over source and store.
func New(source Source, store blob.Store, opts ...Option) (*Archiver, error) {
	if source == nil || store == nil {
		return nil, errors.New("archive: source and store are required")
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	a := &Archiver{
		source: source,
		store:  store,
		prefix: DefaultPrefix,
		now:    func() time.Time { return time.Now().UTC() },
		logger: discardLogger{},
		schema: schema,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(snapshotSchema))
	if err != nil {
		return nil, fmt.Errorf("parse snapshot schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add snapshot schema: %w", err)
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}
	return schema, nil
}

// Key returns the blob key for a snapshot of version taken at ts.
func (a *Archiver) Key(version uint64, ts time.Time) string {
	return fmt.Sprintf("%s/snapshot-v%d-%s.json", a.prefix, version, ts.UTC().Format(keyTimeLayout))
}

// Create archives the current snapshot.
func (a *Archiver) Create(ctx context.Context) (Archive, error) {
	snap := a.source.ExportSnapshot()
	payload, err := json.Marshal(snap)
	if err != nil {
		return Archive{}, fmt.Errorf("encode snapshot: %w", err)
	}
	created := a.now().UTC()
	key := a.Key(snap.Version, created)
	info, err := a.store.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"version": strconv.FormatUint(snap.Version, 10)},
	})
	if err != nil {
		return Archive{}, fmt.Errorf("store archive %s: %w", key, err)
	}
	a.mu.Lock()
	a.lastVersion, a.haveArchived = snap.Version, true
	a.mu.Unlock()
	a.logger.Info("snapshot archived", "key", key, "version", snap.Version, "bytes", info.Size)
	return Archive{Key: key, Version: snap.Version, Size: info.Size, CreatedAt: created.Truncate(time.Second)}, nil
}

// CreateIfChanged archives only when the store version moved since the last
// archive written by this Archiver. The boolean reports whether it wrote one.
func (a *Archiver) CreateIfChanged(ctx context.Context) (Archive, bool, error) {
	a.mu.Lock()
	unchanged := a.haveArchived && a.lastVersion == a.source.Version()
	a.mu.Unlock()
	if unchanged {
		a.logger.Debug("archive skipped", "reason", "version unchanged", "version", a.source.Version())
		return Archive{}, false, nil
	}
	arc, err := a.Create(ctx)
	if err != nil {
		return Archive{}, false, err
	}
	return arc, true, nil
}

// List returns the stored archives, newest version first. A non-empty match
// is a glob applied to the full key, with '/' as separator.
func (a *Archiver) List(ctx context.Context, match string) ([]Archive, error) {
	var g glob.Glob
	if match != "" {
		compiled, err := glob.Compile(match, '/')
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidMatch, match, err)
		}
		g = compiled
	}
	infos, err := a.store.List(ctx, a.prefix+"/")
	if err != nil {
		return nil, err
	}
	out := make([]Archive, 0, len(infos))
	for _, info := range infos {
		arc, ok := parseKey(info.Key)
		if !ok {
			continue
		}
		if g != nil && !g.Match(info.Key) {
			continue
		}
		arc.Size = info.Size
		out = append(out, arc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Version != out[j].Version {
			return out[i].Version > out[j].Version
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// parseKey reads version and timestamp back out of an archive key.
func parseKey(key string) (Archive, bool) {
	base := path.Base(key)
	if !strings.HasPrefix(base, "snapshot-v") || !strings.HasSuffix(base, ".json") {
		return Archive{}, false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(base, "snapshot-v"), ".json")
	rawVersion, rawTime, ok := strings.Cut(rest, "-")
	if !ok {
		return Archive{}, false
	}
	version, err := strconv.ParseUint(rawVersion, 10, 64)
	if err != nil {
		return Archive{}, false
	}
	created, err := time.Parse(keyTimeLayout, rawTime)
	if err != nil {
		return Archive{}, false
	}
	return Archive{Key: key, Version: version, CreatedAt: created}, true
}

// Load fetches and validates an archive without importing it.
func (a *Archiver) Load(ctx context.Context, key string) (domain.Snapshot, error) {
	_, rc, err := a.store.Get(ctx, key)
	if err != nil {
		return domain.Snapshot{}, err
	}
	defer func() { _ = rc.Close() }()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read archive %s: %w", key, err)
	}
	if err := a.Validate(payload); err != nil {
		return domain.Snapshot{}, fmt.Errorf("archive %s: %w", key, err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode archive %s: %w", key, err)
	}
	return snap, nil
}

// Validate checks payload against the embedded snapshot schema.
func (a *Archiver) Validate(payload []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if err := a.schema.Validate(inst); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}

// Restore imports the archive stored under key. An empty key selects the
// newest archive.
func (a *Archiver) Restore(ctx context.Context, key string) (Archive, error) {
	if key == "" {
		latest, err := a.List(ctx, "")
		if err != nil {
			return Archive{}, err
		}
		if len(latest) == 0 {
			return Archive{}, ErrNoArchives
		}
		key = latest[0].Key
	}
	snap, err := a.Load(ctx, key)
	if err != nil {
		return Archive{}, err
	}
	if err := a.source.ImportSnapshot(ctx, snap); err != nil {
		return Archive{}, err
	}
	arc, _ := parseKey(key)
	arc.Key = key
	a.logger.Info("snapshot restored", "key", key, "archived_version", snap.Version, "version", a.source.Version())
	return arc, nil
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}
