package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/backend"
	"github.com/justsurfingit/job-portal/internal/config"
	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/handlers"
	"github.com/justsurfingit/job-portal/internal/logging"
	"github.com/justsurfingit/job-portal/internal/middleware"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load Environment Variables
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Entity backend: hosted REST service or our own Postgres
	var (
		entities backend.Entities
		sessions handlers.SessionProvider
		resolver auth.UserResolver
	)
	switch cfg.BackendDriver {
	case config.DriverPostgres:
		db, err := database.Connect(cfg.DatabaseURL, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to database")
		}
		entities, err = backend.NewGormEntities(db)
		if err != nil {
			log.WithError(err).Fatal("Failed to prepare database collections")
		}
		if cfg.JWTSecret == "" {
			log.Warn("⚠️  AUTH_JWT_SECRET is not set; authenticated routes will reject every request")
		}
	default:
		bcfg := backend.Config{BaseURL: cfg.BackendURL, APIKey: cfg.BackendAPIKey, Timeout: cfg.RequestTimeout}
		client, err := backend.NewClient(ctx, bcfg, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to create backend client")
		}
		entities = client.Entities()
		authClient := backend.NewAuthClient(bcfg)
		sessions, resolver = authClient, authClient
	}
	log.WithField("driver", cfg.BackendDriver).Info("✅ Entity backend ready")

	// 3. Initialize Core Services (Dependencies)
	portal := services.NewPortalService(entities, services.NewLogNotifier(log), log)
	if err := portal.Load(ctx); err != nil {
		log.WithError(err).Warn("⚠️  Initial load incomplete; serving what was fetched")
	}
	portal.StartRefresher(ctx, cfg.RefreshInterval)

	llmService, err := services.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.WithError(err).Warn("⚠️  Job extraction unavailable")
	}

	limiter := middleware.NewRateLimiter(cfg.ApplyRatePerMinute, log)
	limiter.StartCleanup(ctx, 10*time.Minute)

	// 4. Setup Router
	router := handlers.NewRouter(handlers.Deps{
		Portal:       portal,
		LLM:          llmService,
		Sessions:     sessions,
		Verifier:     auth.NewVerifier(cfg.JWTSecret, resolver, log),
		ApplyLimiter: limiter,
		CORSOrigins:  cfg.Origins(),
		Log:          log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("🚀 Server starting on port %s...", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
