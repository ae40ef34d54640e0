package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/robertozapata/portfolio/internal/api/handlers"
	"github.com/robertozapata/portfolio/internal/api/middleware"
	"github.com/robertozapata/portfolio/internal/api/validation"
	"github.com/robertozapata/portfolio/internal/config"
	"github.com/robertozapata/portfolio/internal/logging"
	"github.com/robertozapata/portfolio/internal/preference"
	"github.com/robertozapata/portfolio/internal/server/routes"
	"github.com/robertozapata/portfolio/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// ShutdownTimeout bounds how long in-flight requests may finish
const ShutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	cfg    *config.Config
	logger *logging.Logger
	deps   Dependencies
	http   *http.Server
}

// NewServer creates a new server instance
func NewServer(deps Dependencies) (*Server, error) {
	if deps.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if deps.Contact == nil || deps.Catalog == nil {
		return nil, errors.New("server: contact service and catalog are required")
	}
	if deps.Logger == nil {
		deps.Logger = logging.GetGlobalLogger()
	}

	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Disable Gin's default logger entirely because we're using our custom logger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	// Create a new engine without default middleware
	router := gin.New()

	// Forwarding headers count only when the peer is a listed proxy, so a
	// client cannot pick its own address for the per-IP limit
	if err := router.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	return &Server{
		router: router,
		cfg:    deps.Config,
		logger: deps.Logger,
		deps:   deps,
	}, nil
}

// Init wires middleware, handlers and routes
func (s *Server) Init() error {
	if err := validation.RegisterBinding(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	lang := s.cfg.Language()
	cookie := preference.CookieOptions{Secure: s.cfg.IsProduction()}

	m := &routes.Middleware{
		Logger:          s.logger,
		Catalog:         s.deps.Catalog,
		DefaultLanguage: lang,
		ServiceName:     telemetry.ServiceName,
		CORS: middleware.CORSConfig{
			Development:    s.cfg.IsDevelopment(),
			AllowedOrigins: s.cfg.AllowedOrigins,
		},
		Security: middleware.SecurityConfig{
			HSTS: s.cfg.IsProduction(),
		},
		Preferences: middleware.PreferencesConfig{
			DefaultLanguage: lang,
			Negotiate:       s.cfg.LanguageNegotiate,
			Cookie:          cookie,
		},
		ContactLimiter: middleware.NewIPRateLimiter(middleware.RateLimitConfig{
			RPS:   s.cfg.RateLimitIPRPS,
			Burst: s.cfg.RateLimitIPBurst,
		}),
	}

	h := &routes.Handlers{
		Health:     handlers.NewHealthHandler(s.deps.Mailer),
		Contact:    handlers.NewContactHandler(s.deps.Contact, s.deps.Catalog, lang, s.logger),
		Preference: handlers.NewPreferenceHandler(s.deps.Catalog, s.logger),
		I18n:       handlers.NewI18nHandler(s.deps.Catalog, lang),
	}

	routes.SetupGlobalMiddleware(s.router, m)
	routes.Setup(s.router, h, m)
	return nil
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info("Server stopped")
	return nil
}
