// Package server exposes a designer over HTTP.
//
// One [designer.Designer] is owned by the server; every request reads its
// current snapshot or applies one operation to it. Responses are JSON except
// for project exports and rendered reports, which carry their own content
// type. Errors are JSON objects with a machine-readable code:
//
//	{"code": "OUTLET_NOT_FOUND", "message": "outlet \"x\" not found"}
//
// Routes live under /api/v1; see [Server.Routes].
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/drainline/pkg/designer"
	"github.com/matzehuels/drainline/pkg/pipeline"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "127.0.0.1:8080"

// shutdownTimeout bounds graceful shutdown after the context ends.
const shutdownTimeout = 10 * time.Second

// Server serves the drainage design API.
type Server struct {
	designer *designer.Designer
	runner   *pipeline.Runner
	logger   *log.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRunner sets the pipeline runner used for reports. Its cache holds
// rendered reports across requests.
func WithRunner(r *pipeline.Runner) Option {
	return func(s *Server) {
		if r != nil {
			s.runner = r
		}
	}
}

// New creates a server around d.
func New(d *designer.Designer, opts ...Option) *Server {
	s := &Server{
		designer: d,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.router = s.Routes()
	return s
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/snapshot", s.handleSnapshot)

		r.Route("/project", func(r chi.Router) {
			r.Post("/", s.handleCreateProject)
			r.Put("/", s.handleLoadProject)
			r.Patch("/", s.handleUpdateProject)
			r.Delete("/", s.handleReset)
			r.Get("/export", s.handleExport)
		})

		r.Route("/outlets", func(r chi.Router) {
			r.Post("/", s.handleAddOutlet)
			r.Patch("/{id}", s.handleUpdateOutlet)
			r.Delete("/{id}", s.handleRemoveOutlet)
			r.Post("/{id}/drag", s.handleDragOutlet)
		})

		r.Get("/limits", s.handleGetLimits)
		r.Put("/limits", s.handleSetLimits)
		r.Get("/diameters", s.handleDiameters)

		r.Get("/transform/to", s.handleTransformTo)
		r.Get("/transform/from", s.handleTransformFrom)

		r.Get("/report", s.handleReport)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed"})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
