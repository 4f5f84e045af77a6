package cli

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"ocmhub/internal/adapters/events"
	"ocmhub/internal/adapters/httpapi"
	"ocmhub/internal/archive"
	"ocmhub/internal/core"
	"ocmhub/internal/seed"
	"ocmhub/pkg/domain"
)

// ServeOptions holds the serve flags.
type ServeOptions struct {
	Addr string
	// TraceFile receives one JSON line per store operation when set.
	TraceFile string
	// Ready receives the bound address once the listener is open.
	Ready func(addr string)
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the entity store over HTTP",
		Long: `Serve the dashboard entity store as a JSON API. The store is seeded on first
start, committed changes are published to the change feed and, when
archive.schedule is set, snapshots are archived on that cron schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address, overrides http.addr")
	cmd.Flags().StringVar(&opts.TraceFile, "trace-file", "", "append operation traces as JSON lines to this file")
	return cmd
}

func runServe(ctx context.Context, rootOpts *RootOptions, opts *ServeOptions) error {
	cfg := rootOpts.Config
	log := rootOpts.Logger
	if opts.Addr != "" {
		cfg.HTTP.Addr = opts.Addr
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMetrics, err := core.NewPrometheusMetricsRecorder(registry)
	if err != nil {
		return err
	}
	expvarMetrics := core.NewExpvarMetricsRecorder("")

	svcOpts := []core.ServiceOption{
		core.WithMetricsRecorder(core.MetricsRecorders{promMetrics, expvarMetrics}),
		core.WithAuditRecorder(core.LogAuditRecorder{Logger: log.With("component", "audit")}),
	}
	if opts.TraceFile != "" {
		traceOut, err := os.OpenFile(opts.TraceFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return rootOpts.Printer.Error("could not open the trace file", err.Error())
		}
		defer traceOut.Close()
		svcOpts = append(svcOpts, core.WithTracer(core.NewJSONTracer(traceOut)))
	}

	svc, closeStore, err := rootOpts.openService(ctx, svcOpts...)
	if err != nil {
		return rootOpts.Printer.Error("could not open the store", err.Error())
	}
	defer closeStore()

	feedOpts := []events.Option{events.WithLogger(log.With("component", "events"))}
	if cfg.Events.RedisURL != "" {
		pub, err := events.NewRedisPublisher(ctx, cfg.Events.RedisURL, cfg.Events.Channel)
		if err != nil {
			return rootOpts.Printer.Error("could not connect the change feed", err.Error(),
				"check events.redis_url or unset it to keep the feed in memory")
		}
		defer func() { _ = pub.Close() }()
		feedOpts = append(feedOpts, events.WithPublisher(pub))
	}
	feed := events.NewFeed(cfg.Events.RingSize, feedOpts...)
	svc.Subscribe(feed.Hook())

	archiver, err := rootOpts.openArchiver(ctx, svc)
	if err != nil {
		return rootOpts.Printer.Error("could not open the archive store", err.Error())
	}
	if cfg.Archive.Schedule != "" {
		sched, err := archive.NewScheduler(archiver, cfg.Archive.Schedule)
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			_ = sched.Stop(stopCtx)
		}()
		log.Info("archive scheduler started", "schedule", cfg.Archive.Schedule)
	}

	if cfg.Seed.Watch && cfg.Seed.Path != "" {
		watcher := seed.NewWatcher(cfg.Seed.Path, func(ctx context.Context, snap domain.Snapshot) error {
			return svc.ImportSnapshot(ctx, seed.WithTemplateProjects(snap, rootOpts.Now()))
		}, seed.WithWatchLogger(log.With("component", "seed")))
		go func() {
			if err := watcher.Run(ctx); err != nil {
				log.Error("seed watcher stopped", "error", err)
			}
		}()
	}

	api := httpapi.NewRouter(svc,
		httpapi.WithChangeFeed(feed),
		httpapi.WithArchiver(archiver),
		httpapi.WithGatherer(registry),
		httpapi.WithLogger(log.With("component", "http")),
	)
	mux := chi.NewRouter()
	mux.Handle("/debug/vars", expvar.Handler())
	mux.Mount("/", api)

	srv := &http.Server{
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	ln, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		return rootOpts.Printer.Error(fmt.Sprintf("could not listen on %s", cfg.HTTP.Addr), err.Error(),
			"pick another address with --addr or http.addr")
	}
	addr := ln.Addr().String()
	log.Info("http server listening", "addr", addr, "store", cfg.Store.Driver, "version", svc.Version())
	if opts.Ready != nil {
		opts.Ready(addr)
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.HTTP.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
