// Package server exposes layouts over HTTP.
//
// Routes:
//
//	POST /v1/layout   {"graph": {...}, "options": {...}} -> laid-out graph
//	GET  /healthz     liveness and build info
//	GET  /metrics     Prometheus metrics
//
// Every request gets an id, echoed in X-Request-Id and attached to the
// request's logger.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/layered/pkg/observability"
	"github.com/matzehuels/layered/pkg/pipeline"
)

// HeaderRequestID carries the request id in both directions. A valid
// incoming value is kept.
const HeaderRequestID = "X-Request-Id"

// DefaultMaxBodyBytes bounds the size of a layout request.
const DefaultMaxBodyBytes = 8 << 20

// Server is the layout HTTP service.
type Server struct {
	router       chi.Router
	runner       *pipeline.Runner
	logger       *log.Logger
	metrics      *Metrics
	maxBodyBytes int64
}

// Option configures optional Server behavior.
type Option func(*Server)

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBodyBytes = n }
}

// WithMetrics shares a metrics registry, e.g. one already registered as
// global cache hooks.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New creates a Server with all routes configured.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		runner:       runner,
		logger:       logger,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Post("/v1/layout", s.handleLayout)

	s.router = r
	return s
}

// Metrics returns the server's metrics.
func (s *Server) Metrics() *Metrics { return s.metrics }

// ServeHTTP implements the http.Handler interface, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestID assigns the request id and a request-scoped logger. Layout
// hooks for the request report to the server's metrics.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)

		ctx := log.WithContext(r.Context(), s.logger.With("request_id", id))
		ctx = observability.WithLayoutHooks(ctx, s.metrics)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// instrument logs each request and reports it to the HTTP hooks under its
// route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		s.metrics.OnRequest(r.Context(), r.Method, route)
		s.metrics.OnResponse(r.Context(), r.Method, route, status, d)

		logger := log.FromContext(r.Context())
		logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", d.Round(time.Microsecond))
	})
}
