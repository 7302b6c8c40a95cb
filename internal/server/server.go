package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/packs/internal/errors"
	"github.com/vango-dev/packs/pkg/assets"
)

// EventsPath is where the compile event WebSocket is mounted.
const EventsPath = "/_packs/events"

// Options configures the HTTP service.
type Options struct {
	// Store resolves lookups. Required.
	Store *assets.Store

	// AssetHost prefixes redirect targets (e.g. a CDN origin).
	AssetHost string

	// Gatherer backs /metrics. Default: prometheus.DefaultGatherer
	Gatherer prometheus.Gatherer

	// Events, when set, is mounted at EventsPath.
	Events http.Handler

	// Logger receives request logs. Default: slog.Default()
	Logger *slog.Logger

	// ShutdownTimeout bounds graceful shutdown (default: 10s).
	ShutdownTimeout time.Duration
}

// Server serves asset lookups over HTTP.
type Server struct {
	store    *assets.Store
	resolver assets.Resolver
	logger   *slog.Logger
	router   chi.Router
	shutdown time.Duration
}

// New creates the service and its routes.
func New(opts Options) *Server {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		store:    opts.Store,
		resolver: assets.NewResolver(opts.Store, opts.AssetHost),
		logger:   opts.Logger.With("component", "server"),
		shutdown: opts.ShutdownTimeout,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/lookup/*", s.handleLookup)
	r.Get("/packs/*", s.handleRedirect)
	r.Get("/manifest", s.handleManifest)
	r.Post("/refresh", s.handleRefresh)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	if opts.Events != nil {
		r.Method(http.MethodGet, EventsPath, opts.Events)
	}

	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type lookupResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type errorResponse struct {
	Error    string `json:"error"`
	Name     string `json:"name,omitempty"`
	Manifest string `json:"manifest,omitempty"`
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	path, err := s.store.LookupOrFail(r.Context(), name, variants(r)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lookupResponse{Name: name, Path: path})
}

func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	target, err := s.resolver.Asset(r.Context(), chi.URLParam(r, "*"), variants(r)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.Manifest(r.Context(), variants(r)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(m.Dump() + "\n"))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Refresh(r.Context(), variants(r)...); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var missing *assets.MissingEntryError
	if stderrors.As(err, &missing) {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:    "asset not found",
			Name:     missing.Name,
			Manifest: missing.Path,
		})
		return
	}
	if errors.HasCode(err, "E122") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	s.logger.Error("request failed",
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// variants reads repeated ?variant= parameters, preserving order.
func variants(r *http.Request) []string {
	return r.URL.Query()["variant"]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
