// Package server implements the HTTP API for computing and retrieving grids.
//
// Endpoints:
//
//	POST   /v1/grids               compute a grid from a deck and persist it
//	GET    /v1/grids               list recent grids
//	GET    /v1/grids/{id}          fetch a stored grid
//	GET    /v1/grids/{id}/artifact render a stored grid (format/viz query params)
//	DELETE /v1/grids/{id}          delete a stored grid
//	GET    /healthz                liveness probe
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mhertel/cardgrid/pkg/pipeline"
	"github.com/mhertel/cardgrid/pkg/store"
)

// Config configures the API server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Runner executes pipeline operations.
	Runner *pipeline.Runner

	// Store persists computed grids.
	Store store.Store

	// Logger for request and lifecycle logging.
	Logger *log.Logger

	// ListLimit caps GET /v1/grids responses. Defaults to 50.
	ListLimit int
}

// Server is the HTTP API server.
type Server struct {
	cfg    Config
	router chi.Router
	http   *http.Server
}

// New creates the server and mounts all routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.ListLimit == 0 {
		cfg.ListLimit = 50
	}

	s := &Server{cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(requestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/grids", func(r chi.Router) {
		r.Post("/", s.handleCreateGrid)
		r.Get("/", s.handleListGrids)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGrid)
			r.Get("/artifact", s.handleGetArtifact)
			r.Delete("/", s.handleDeleteGrid)
		})
	})

	s.router = r
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router exposes the route tree, mainly for tests.
func (s *Server) Router() http.Handler { return s.router }

// ListenAndServe starts the server and blocks until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("server listening", "addr", s.cfg.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
