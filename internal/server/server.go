// Package server exposes the population reports over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/worldpop/internal/config"
	"github.com/leapstack-labs/worldpop/internal/metrics"
	"github.com/leapstack-labs/worldpop/internal/report"
	"github.com/leapstack-labs/worldpop/pkg/core"
)

// Service is the query surface served by the API. *engine.Engine implements it.
type Service interface {
	report.Source
	BreakdownOne(ctx context.Context, scope core.Scope, name string) (core.PopulationBreakdown, bool, error)
}

// Config holds the dependencies and settings of a Server.
type Config struct {
	Service Service
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Gatherer backs /metrics; the endpoint is not mounted when nil.
	Gatherer prometheus.Gatherer
	// Defaults are the parameters of /api/report.
	Defaults    core.ReportDefaults
	ReadTimeout time.Duration
	// ConfigFile is reloaded into Defaults when Watch is set.
	ConfigFile string
	Watch      bool
}

// Server serves the HTTP API.
type Server struct {
	svc         Service
	logger      *slog.Logger
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
	readTimeout time.Duration
	configFile  string
	watch       bool

	defaults atomic.Pointer[core.ReportDefaults]
}

// New creates a server.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}

	s := &Server{
		svc:         cfg.Service,
		logger:      logger,
		metrics:     cfg.Metrics,
		gatherer:    cfg.Gatherer,
		readTimeout: readTimeout,
		configFile:  cfg.ConfigFile,
		watch:       cfg.Watch,
	}
	s.SetDefaults(cfg.Defaults)
	return s
}

// Defaults returns the current report parameters.
func (s *Server) Defaults() core.ReportDefaults {
	return *s.defaults.Load()
}

// SetDefaults replaces the report parameters. Safe for concurrent use.
func (s *Server) SetDefaults(d core.ReportDefaults) {
	s.defaults.Store(&d)
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		requestID,
		s.instrument,
		middleware.Recoverer,
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/countries", s.handleCountries)
		r.Get("/cities", s.handleCities)
		r.Get("/capitals", s.handleCapitals)
		r.Get("/breakdowns/{scope}", s.handleBreakdowns)
		r.Get("/population/{scope}", s.handlePopulation)
		r.Get("/languages", s.handleLanguages)
		r.Get("/report", s.handleReport)
	})
	return r
}

// Serve listens on addr and blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: s.readTimeout,
		ReadTimeout:       s.readTimeout,
	}

	if s.watch && s.configFile != "" {
		eg.Go(func() error {
			return s.watchConfig(egctx)
		})
	}

	eg.Go(func() error {
		s.logger.Info("starting API server", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchConfig reloads the report parameters when the config file changes.
// The directory is watched because editors often replace files on save.
func (s *Server) watchConfig(ctx context.Context) error {
	path, err := filepath.Abs(s.configFile)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		s.logger.Error("failed to watch config file", slog.String("path", path), slog.Any("error", err))
		// Keep serving without reloads.
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.reloadDefaults(path)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", slog.Any("error", err))
		}
	}
}

// reloadDefaults reads the reports section of path. A broken file keeps
// the previous parameters.
func (s *Server) reloadDefaults(path string) {
	d, err := config.LoadReports(path)
	if err != nil {
		s.logger.Warn("config reload failed, keeping report parameters", slog.Any("error", err))
		return
	}
	s.SetDefaults(d)
	s.logger.Info("reloaded report parameters", slog.String("path", path))
}
