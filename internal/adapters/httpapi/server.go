// Package httpapi serves the dashboard store as JSON over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ocmhub/internal/archive"
	"ocmhub/internal/core"
	"ocmhub/pkg/domain"
)

// ChangeFeed serves recently committed change events.
type ChangeFeed interface {
	Recent(limit int) []cloudevents.Event
}

// Archiver creates and lists snapshot archives.
type Archiver interface {
	Create(ctx context.Context) (archive.Archive, error)
	List(ctx context.Context, match string) ([]archive.Archive, error)
}

// Handler routes requests to the store service.
type Handler struct {
	svc      *core.Service
	feed     ChangeFeed
	archiver Archiver
	gatherer prometheus.Gatherer
	logger   core.Logger
}

// Option configures the handler.
type Option func(*Handler)

// WithChangeFeed enables GET /api/v1/changes.
func WithChangeFeed(feed ChangeFeed) Option {
	return func(h *Handler) { h.feed = feed }
}

// WithArchiver enables the /api/v1/archive endpoints.
func WithArchiver(a Archiver) Option {
	return func(h *Handler) { h.archiver = a }
}

// WithGatherer selects the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(h *Handler) {
		if g != nil {
			h.gatherer = g
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l core.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewRouter builds the HTTP handler. Writes addressing missing entities
// answer 404, so the service is used through its strict view.
func NewRouter(svc *core.Service, opts ...Option) http.Handler {
	h := &Handler{
		svc:      svc.Strict(),
		gatherer: prometheus.DefaultGatherer,
		logger:   nopLogger{},
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": h.svc.Version()})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/snapshot", h.getSnapshot)
		r.Get("/changes", h.getChanges)
		r.Route("/archive", func(r chi.Router) {
			r.Get("/", h.listArchives)
			r.Post("/", h.createArchive)
		})
		h.mountDashboard(r)
		h.mountProjects(r)
		h.mountOCM(r)
	})
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(started),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (h *Handler) getSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Snapshot())
}

func (h *Handler) getChanges(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	events := []cloudevents.Event{}
	if h.feed != nil {
		events = append(events, h.feed.Recent(limit)...)
	}
	w.Header().Set("Content-Type", "application/cloudevents-batch+json")
	writeBatch(w, events)
}

func writeBatch(w http.ResponseWriter, events []cloudevents.Event) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("["))
	for i, ev := range events {
		if i > 0 {
			_, _ = w.Write([]byte(","))
		}
		raw, err := ev.MarshalJSON()
		if err != nil {
			raw = []byte("null")
		}
		_, _ = w.Write(raw)
	}
	_, _ = w.Write([]byte("]\n"))
}

func (h *Handler) listArchives(w http.ResponseWriter, r *http.Request) {
	if h.archiver == nil {
		writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}
	list, err := h.archiver.List(r.Context(), r.URL.Query().Get("match"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"archives": list})
}

func (h *Handler) createArchive(w http.ResponseWriter, r *http.Request) {
	if h.archiver == nil {
		writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}
	arc, err := h.archiver.Create(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"archive": arc})
}

func sortedProjects(snap domain.Snapshot) []domain.ProjectDetails {
	ids := make([]string, 0, len(snap.Projects))
	for id := range snap.Projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.ProjectDetails, 0, len(ids))
	for _, id := range ids {
		out = append(out, snap.Projects[id])
	}
	return out
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
