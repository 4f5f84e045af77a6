package cli

import (
	"context"
	"fmt"
	"io"

	"ocmhub/internal/archive"
	"ocmhub/internal/blob"
	"ocmhub/internal/core"
	"ocmhub/internal/seed"
	"ocmhub/pkg/domain"
)

// loadSeed returns the configured seed file, or the built-in data set when
// none is configured, with template projects for every item.
func (o *RootOptions) loadSeed() (domain.Snapshot, error) {
	if o.Config.Seed.Path == "" {
		return seed.Default(o.Now()), nil
	}
	snap, err := seed.LoadFile(o.Config.Seed.Path)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return seed.WithTemplateProjects(snap, o.Now()), nil
}

// openService opens the configured store and seeds it when it is empty. The
// returned close function releases durable backends.
func (o *RootOptions) openService(ctx context.Context, extra ...core.ServiceOption) (*core.Service, func(), error) {
	storage := o.Config.StorageConfig()
	storage.Now = o.Now
	store, err := core.OpenPersistentStore(ctx, storage, core.NewDefaultRulesEngine())
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", o.Config.Store.Driver, err)
	}
	closeFn := func() {
		if c, ok := store.(io.Closer); ok {
			if err := c.Close(); err != nil {
				o.Logger.Warn("store close failed", "error", err)
			}
		}
	}
	opts := append([]core.ServiceOption{
		core.WithLogger(o.Logger),
		core.WithClock(core.ClockFunc(o.Now)),
		core.WithStrictNotFound(o.Config.Store.StrictNotFound),
	}, extra...)
	svc := core.NewService(store, opts...)

	if svc.Version() == 0 {
		snap, err := o.loadSeed()
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		if err := svc.ImportSnapshot(ctx, snap); err != nil {
			closeFn()
			return nil, nil, err
		}
		o.Logger.Info("store seeded", "driver", o.Config.Store.Driver, "version", svc.Version())
	}
	return svc, closeFn, nil
}

// openArchiver builds the archiver over the configured blob store.
func (o *RootOptions) openArchiver(ctx context.Context, svc *core.Service) (*archive.Archiver, error) {
	store, err := blob.Open(ctx, o.Config.BlobConfig())
	if err != nil {
		return nil, fmt.Errorf("open %s archive store: %w", o.Config.Archive.Driver, err)
	}
	return archive.New(svc, store,
		archive.WithPrefix(o.Config.Archive.Prefix),
		archive.WithLogger(o.Logger),
		archive.WithClock(o.Now),
	)
}
