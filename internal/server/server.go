// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /layouts
//	POST   /layouts
//	GET    /layouts/{id}
//	DELETE /layouts/{id}
//	GET    /layouts/{id}/svg
//
// Computed layouts are kept in a [store.Store] and identified by UUID.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bubbleset/pkg/pipeline"
	"github.com/matzehuels/bubbleset/pkg/store"
)

// Server limits.
const (
	MaxBodyBytes    = 8 << 20
	MaxRecords      = 10000
	DefaultListSize = 50
	shutdownTimeout = 10 * time.Second
)

// Server serves the layout API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults pipeline.Options
	router   chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaults sets the options requests start from, typically read from
// the config file.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// New creates a server over a runner and a store.
func New(runner *pipeline.Runner, st store.Store, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		store:  st,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/layouts", func(r chi.Router) {
		r.Get("/", s.handleListLayouts)
		r.With(middleware.AllowContentType("application/json")).Post("/", s.handleCreateLayout)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetLayout)
			r.Delete("/", s.handleDeleteLayout)
			r.Get("/svg", s.handleLayoutSVG)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
