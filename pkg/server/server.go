package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/tollgate/pkg/clock"
	"mercator-hq/tollgate/pkg/config"
	"mercator-hq/tollgate/pkg/gateway/handlers"
	"mercator-hq/tollgate/pkg/gateway/middleware"
	"mercator-hq/tollgate/pkg/quota"
	"mercator-hq/tollgate/pkg/telemetry/health"
	"mercator-hq/tollgate/pkg/telemetry/metrics"
)

// Server is the Tollgate HTTP server.
type Server struct {
	config     *config.Config
	tracker    *quota.Tracker
	gatherer   prometheus.Gatherer
	clock      clock.Clock
	logger     *slog.Logger
	checker    *health.Checker
	requests   *metrics.RequestMetrics
	version    health.VersionInfo
	handler    http.Handler
	httpServer *http.Server

	mu        sync.Mutex
	isRunning bool
	listener  net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer serves metrics from g. Defaults to the default gatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithClock sets the clock used by the health endpoint.
func WithClock(c clock.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRequestMetrics records every served request in m.
func WithRequestMetrics(m *metrics.RequestMetrics) Option {
	return func(s *Server) { s.requests = m }
}

// WithVersion sets the build information served on /version.
func WithVersion(info health.VersionInfo) Option {
	return func(s *Server) { s.version = info }
}

// NewServer builds the router for cfg. Routes are fixed from this point on.
func NewServer(cfg *config.Config, tracker *quota.Tracker, opts ...Option) *Server {
	s := &Server{
		config:   cfg,
		tracker:  tracker,
		gatherer: prometheus.DefaultGatherer,
		logger:   slog.Default().With("component", "server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.checker = health.New(cfg.Server.ReadinessTimeout, s.clock)
	s.checker.RegisterCheck("catalog", func(ctx context.Context) error {
		if s.tracker.Catalog().Len() == 0 {
			return errors.New("no quota groups configured")
		}
		return nil
	})

	s.handler = s.setupRoutes()
	return s
}

// Checker returns the readiness checker behind /ready. Components register
// their own checks on it.
func (s *Server) Checker() *health.Checker {
	return s.checker
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) setupRoutes() http.Handler {
	r := chi.NewRouter()

	if s.requests != nil {
		r.Use(middleware.Metrics(s.requests))
	}
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(s.logger))

	r.Method(http.MethodGet, config.PathHealth, handlers.NewHealthHandler(s.clock))
	r.Get(config.PathReady, s.checker.ReadinessHandler())
	r.Get(config.PathVersion, health.VersionHandler(s.version))
	r.Method(http.MethodGet, config.PathCapabilities, handlers.NewCapabilitiesHandler(s.tracker))
	r.With(middleware.Limit(s.tracker)).Method(http.MethodGet, config.PathLimit, handlers.Success(http.StatusOK))

	if s.config.MetricsEnabled() {
		r.Method(http.MethodGet, s.config.Telemetry.Metrics.Path, metrics.Handler(s.gatherer))
	}

	for _, rt := range s.config.Routes {
		var opts []middleware.QuotaOption
		if cost, ok := rt.CostOverride(); ok {
			opts = append(opts, middleware.WithCost(cost))
		}

		r.With(middleware.Quota(s.tracker, rt.Group, opts...)).
			Method(rt.Method, rt.Path, handlers.Success(rt.Status))

		s.logger.Debug("registered protected route",
			"method", rt.Method,
			"path", rt.Path,
			"group", rt.Group,
		)
	}

	return r
}

// Start listens on the configured address and serves until ctx is done or
// Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	cfg := s.config.Server
	ln, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddress, err)
	}

	s.httpServer = &http.Server{
		Handler:        s.handler,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}
	s.listener = ln
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting tollgate server", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		if ok {
			return err
		}
		return nil
	}
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully stops the server within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	httpServer := s.httpServer
	s.mu.Unlock()

	timeout := s.config.Server.ShutdownTimeout
	s.logger.Info("initiating graceful shutdown", "timeout", timeout.String())

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error during server shutdown", "error", err)
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.logger.Info("tollgate server stopped")
	return nil
}
