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

	"github.com/lectorapp/lector/internal/api"
	"github.com/lectorapp/lector/internal/config"
	"github.com/lectorapp/lector/internal/document"
	"github.com/lectorapp/lector/internal/events"
	"github.com/lectorapp/lector/internal/home"
	"github.com/lectorapp/lector/internal/playback"
	"github.com/lectorapp/lector/internal/server/endpoints"
	"github.com/lectorapp/lector/internal/settings"
	"github.com/lectorapp/lector/internal/speech"
	"github.com/lectorapp/lector/internal/svcctx"
	"github.com/lectorapp/lector/internal/voices"
)

// Server is the main Lector HTTP server. It owns the document store, the
// speech engine, the playback controller, and the SSE event hub.
type Server struct {
	httpServer *http.Server
	store      *document.Store
	engine     speech.Engine
	controller *playback.Controller
	hub        *events.Hub
	repo       settings.Repository
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// Home is the lector home directory
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Engine overrides the configured speech engine (tests, --engine mock)
	Engine speech.Engine
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// mockVoiceCandidates back the mock engine when no real engine is wired.
var mockVoiceCandidates = []voices.Candidate{
	{Name: "Alex Natural", Lang: "en-US", Local: true},
	{Name: "Samantha", Lang: "en-US", Local: true},
	{Name: "Daniel", Lang: "en-GB", Local: false},
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Home == nil {
		h, err := home.New("")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.Home = h
	}
	if err := cfg.Home.EnsureExists(); err != nil {
		return nil, fmt.Errorf("failed to create home directory: %w", err)
	}

	engine := cfg.Engine
	if engine == nil {
		var err error
		engine, err = buildEngine(cfg)
		if err != nil {
			return nil, err
		}
	}

	repo := settings.NewFileRepository(cfg.Home.SettingsPath())
	rec, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	settleDelay := playback.DefaultSettleDelay
	if cfg.ConfigManager != nil {
		if ms := cfg.ConfigManager.Get().Playback.SettleDelayMS; ms > 0 {
			settleDelay = time.Duration(ms) * time.Millisecond
		}
	}

	hub := events.NewHub(cfg.Logger)
	controller := playback.New(playback.Config{
		Engine:      engine,
		Renderer:    hub,
		Announcer:   hub,
		Logger:      cfg.Logger,
		SettleDelay: settleDelay,
		Rate:        rec.Speed,
	})

	s := &Server{
		store:      document.NewStore(),
		engine:     engine,
		controller: controller,
		hub:        hub,
		repo:       repo,
		configMgr:  cfg.ConfigManager,
		logger:     cfg.Logger,
	}

	s.services = &svcctx.Services{
		Documents:  s.store,
		Controller: s.controller,
		Engine:     s.engine,
		Settings:   s.repo,
		ConfigMgr:  s.configMgr,
		Logger:     s.logger,
		Home:       cfg.Home,
	}

	// Engine settings are read once at construction; a config change needs
	// a restart to take effect.
	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			cfg.Logger.Info("configuration reloaded; engine changes take effect on restart")
		})
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{Hub: hub}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:        net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:     s.withServices(mux),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	return s, nil
}

// buildEngine constructs the speech engine named by the configuration.
func buildEngine(cfg Config) (speech.Engine, error) {
	engineCfg := config.DefaultConfig().Engine
	if cfg.ConfigManager != nil {
		engineCfg = cfg.ConfigManager.Get().Engine
	}

	switch engineCfg.Type {
	case "", "openai":
		apiKey := config.ResolveEnvVars(engineCfg.APIKey)
		if apiKey == "" {
			return nil, errors.New("engine.api_key is empty (set OPENAI_API_KEY or use --engine mock)")
		}
		return speech.NewOpenAIEngine(speech.OpenAIConfig{
			APIKey:   apiKey,
			Model:    engineCfg.Model,
			Voice:    engineCfg.Voice,
			AudioDir: cfg.Home.AudioPath(),
			Timeout:  time.Duration(engineCfg.TimeoutSeconds) * time.Second,
			Logger:   cfg.Logger,
		}), nil
	case "mock":
		return speech.NewMockEngine(mockVoiceCandidates), nil
	default:
		return nil, fmt.Errorf("unknown engine type %q", engineCfg.Type)
	}
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	// Verify the engine is reachable. A failing check is logged but not
	// fatal: documents can still be uploaded and analyzed.
	if hc, ok := s.engine.(interface{ HealthCheck(context.Context) error }); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			s.logger.Warn("speech engine health check failed", "error", err)
		} else {
			s.logger.Info("speech engine is ready")
		}
	}

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

// shutdown performs graceful shutdown of the HTTP server and the engine.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	s.controller.Pause()
	s.engine.Cancel()

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
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Controller returns the playback controller.
func (s *Server) Controller() *playback.Controller {
	return s.controller
}

// Handler returns the server's root HTTP handler (used by tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(svcctx.WithServices(r.Context(), s.services)))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.controller == nil || s.engine == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
