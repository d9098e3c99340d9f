package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jackzampolin/fraglab/internal/analysis"
	"github.com/jackzampolin/fraglab/internal/api"
	"github.com/jackzampolin/fraglab/internal/composer"
	"github.com/jackzampolin/fraglab/internal/config"
	"github.com/jackzampolin/fraglab/internal/home"
	"github.com/jackzampolin/fraglab/internal/runs"
	"github.com/jackzampolin/fraglab/internal/server/endpoints"
	"github.com/jackzampolin/fraglab/internal/svcctx"
)

// Server is the fraglab HTTP server. It owns the composer session and the
// Analysis Service client for its lifetime.
type Server struct {
	httpServer *http.Server
	analysis   *analysis.Client
	session    *composer.Session
	runStore   *runs.Store
	configMgr  *config.Manager
	home       *home.Dir
	logger     *slog.Logger

	waitForAnalysis bool

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: from config, then 127.0.0.1)
	Host string
	// Port is the port to listen on (default: from config, then 8090)
	Port string
	// Home is the fraglab home directory holding runs and uploads
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// WaitForAnalysis blocks Start until the Analysis Service answers its
	// health probe or analysis.health_timeout_seconds elapses.
	WaitForAnalysis bool
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Home == nil {
		return nil, errors.New("home directory is required")
	}

	appCfg := config.DefaultConfig()
	if cfg.ConfigManager != nil {
		appCfg = cfg.ConfigManager.Get()
	}
	if cfg.Host == "" {
		cfg.Host = appCfg.Server.Host
	}
	if cfg.Port == "" {
		cfg.Port = appCfg.Server.Port
	}

	client := analysis.NewClient(appCfg.AnalysisURL(),
		analysis.WithTimeout(appCfg.AnalysisTimeout()),
		analysis.WithLogger(cfg.Logger),
	)
	store := runs.NewStore(cfg.Home.RunsPath())
	session := composer.New(composer.Config{
		ChunkSize:      appCfg.Composer.ChunkSize,
		FillerSize:     appCfg.Composer.FillerSize,
		DefaultVariant: appCfg.Variant(),
	}, client, composer.WithStore(store), composer.WithLogger(cfg.Logger))

	s := &Server{
		analysis:        client,
		session:         session,
		runStore:        store,
		configMgr:       cfg.ConfigManager,
		home:            cfg.Home,
		logger:          cfg.Logger,
		waitForAnalysis: cfg.WaitForAnalysis,
	}

	// Watch for config changes
	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(s.applyConfig)
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:        net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:     s.loggingMiddleware(s.withServices(mux)),
		ReadTimeout: 30 * time.Second,
		// Submissions wait on the Analysis Service, so no write timeout.
		IdleTimeout: 120 * time.Second,
	}

	return s, nil
}

// applyConfig picks up settings that can change without a restart.
func (s *Server) applyConfig(c *config.Config) {
	if url := c.AnalysisURL(); url != s.analysis.BaseURL() {
		s.analysis.SetBaseURL(url)
		s.logger.Info("analysis service url reloaded from config", "url", url)
	}
	s.logger.Info("config reloaded; composer sizing applies to the next server start")
}

// Start starts the server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if err := s.home.EnsureExists(); err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to prepare home directory: %w", err)
	}

	if s.waitForAnalysis {
		s.checkAnalysis(ctx)
	}

	// Create services struct for context enrichment
	s.mu.Lock()
	s.services = &svcctx.Services{
		Session:   s.session,
		Analysis:  s.analysis,
		RunStore:  s.runStore,
		ConfigMgr: s.configMgr,
		Logger:    s.logger,
		Home:      s.home,
	}
	s.mu.Unlock()

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// checkAnalysis waits for the Analysis Service. An unreachable service is
// logged, not fatal: submissions report 503 until it comes up.
func (s *Server) checkAnalysis(ctx context.Context) {
	timeout := config.DefaultConfig().HealthTimeout()
	if s.configMgr != nil {
		timeout = s.configMgr.Get().HealthTimeout()
	}
	if timeout <= 0 {
		return
	}

	s.logger.Info("waiting for analysis service", "url", s.analysis.BaseURL(), "timeout", timeout)
	if err := s.analysis.WaitReady(ctx, timeout, 500*time.Millisecond); err != nil {
		s.logger.Warn("analysis service not reachable", "url", s.analysis.BaseURL(), "error", err)
		return
	}
	s.logger.Info("analysis service is ready", "url", s.analysis.BaseURL())
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.services = nil
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Session returns the composer session.
func (s *Server) Session() *composer.Session {
	return s.session
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) currentServices() *svcctx.Services {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svcs := s.currentServices(); svcs != nil {
			ctx = svcctx.WithServices(ctx, svcs)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable if services aren't wired yet.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svcctx.ServicesFrom(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap the response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		level := slog.LevelDebug
		if wrapped.statusCode >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		s.logger.Log(r.Context(), level, "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
