package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robertozapata/portfolio/internal/config"
	"github.com/robertozapata/portfolio/internal/contact"
	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/logging"
	"github.com/robertozapata/portfolio/internal/mail"
	"github.com/robertozapata/portfolio/internal/ratelimit"
	"github.com/robertozapata/portfolio/internal/server"
	"github.com/robertozapata/portfolio/internal/tasks"
	"github.com/robertozapata/portfolio/internal/telemetry"
	"github.com/robertozapata/portfolio/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.GetGlobalLogger().Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	// Configure and get logger
	if err := logging.InitLogger(cfg.Logging()); err != nil {
		panic(err)
	}
	logger := logging.GetGlobalLogger()
	defer logger.Close()

	logger.Info("Starting server in %s mode (%s)", cfg.Environment, version.Info())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, version.Version)
	if err != nil {
		logger.Error("Failed to initialize tracing: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("Failed to flush traces: %v", err)
		}
	}()

	// Missing translations panic in development so they are caught early
	catalog, err := i18n.Load(i18n.WithStrict(cfg.IsDevelopment()), i18n.WithFallback(cfg.Language()))
	if err != nil {
		logger.Error("Failed to load translations: %v", err)
		os.Exit(1)
	}

	dispatcher, err := mail.New(cfg.Mail(), catalog)
	if err != nil {
		logger.Error("Failed to create mail dispatcher: %v", err)
		os.Exit(1)
	}
	if err := dispatcher.Check(); err != nil {
		// Requests fail with a generic message until this is fixed
		logger.Warn("Email provider %s is not ready: %v", dispatcher.Provider(), err)
	}

	store, err := ratelimit.NewStore(cfg.RateLimitStore, cfg.RateLimit())
	if err != nil {
		logger.Error("Failed to create rate limit store: %v", err)
		os.Exit(1)
	}
	limiter := ratelimit.NewLimiter(store, cfg.RateLimit())
	defer limiter.Close()

	// Start rate limit sweep task
	sweeper := tasks.NewRateLimitSweeper(limiter, cfg.ContactRateSweepEvery, logger)
	sweeper.Start()
	defer sweeper.Stop()

	svc := contact.NewService(contact.NewSchema(catalog), limiter, dispatcher, contact.WithLogger(logger))

	srv, err := server.NewServer(server.Dependencies{
		Config:  cfg,
		Logger:  logger,
		Catalog: catalog,
		Contact: svc,
		Mailer:  dispatcher,
	})
	if err != nil {
		logger.Error("Failed to create server: %v", err)
		os.Exit(1)
	}

	if err := srv.Init(); err != nil {
		logger.Error("Failed to initialize server: %v", err)
		os.Exit(1)
	}

	if err := srv.Start(ctx); err != nil {
		logger.Error("Server error: %v", err)
		os.Exit(1)
	}
}
