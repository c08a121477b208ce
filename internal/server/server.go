package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/handiism/hot100-history/internal/chart"
	"github.com/handiism/hot100-history/internal/export"
	"github.com/handiism/hot100-history/internal/metrics"
	"github.com/handiism/hot100-history/internal/model"
)

// DefaultRequestTimeout applies when Options.RequestTimeout is zero.
const DefaultRequestTimeout = 60 * time.Second

const shutdownTimeout = 15 * time.Second

//go:embed templates/*.html
var templateFS embed.FS

// Lookuper builds an artist report. *chart.Service implements it.
type Lookuper interface {
	Lookup(ctx context.Context, artist string) (*model.Report, error)
}

// Options configures a Server.
type Options struct {
	Lookup  Lookuper
	Dataset chart.Snapshotter

	// Metrics, when set, is served at /metrics and counts exports.
	Metrics *metrics.Metrics

	XLSX           export.XLSXOptions
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Server serves the web form and the JSON API.
type Server struct {
	lookup  Lookuper
	dataset chart.Snapshotter
	metrics *metrics.Metrics
	xlsx    export.XLSXOptions
	logger  *slog.Logger
	index   *template.Template
	router  *chi.Mux
}

// New creates a Server and its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	s := &Server{
		lookup:  opts.Lookup,
		dataset: opts.Dataset,
		metrics: opts.Metrics,
		xlsx:    opts.XLSX,
		logger:  opts.Logger,
		index:   template.Must(template.ParseFS(templateFS, "templates/index.html")),
	}
	s.router = s.routes(opts.RequestTimeout)
	return s
}

func (s *Server) routes(timeout time.Duration) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		r.Get("/", s.handleIndex)
		r.Post("/analyze", s.handleAnalyze)

		r.Route("/api/v1/artists/{artist}", func(r chi.Router) {
			r.Get("/history", s.handleHistory)
			r.Get("/export", s.handleExport)
		})
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
