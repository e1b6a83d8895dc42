// @title         jobtrack API
// @version       1.0
// @description   Turns forwarded job-platform emails into tracked job applications.
// @BasePath      /api/v1
// @schemes       http
// @host          localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token: "Bearer <JWT>" or just "<JWT>".
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	_ "github.com/DanielMontoya72/490-The-Team-sub011/docs"

	// internal imports
	"github.com/DanielMontoya72/490-The-Team-sub011/api/http"
	"github.com/DanielMontoya72/490-The-Team-sub011/api/http/handlers"
	"github.com/DanielMontoya72/490-The-Team-sub011/api/http/presenter"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/auth"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/config"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/emailimport"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/events"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/health"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/health/checkers"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/job"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/logging"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/platform"
	pgrepo "github.com/DanielMontoya72/490-The-Team-sub011/pkg/repository/postgres"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/scheduler"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/security/jwt"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/security/ratelimit"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/storage/postgres"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from env/.env
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, postgres.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		Attempts: cfg.DBConnectTries,
	}, log)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, log); err != nil {
		return err
	}

	registry, err := loadPlatforms(cfg.PlatformsFile)
	if err != nil {
		return err
	}
	log.Info("platform table loaded", "platforms", registry.Names())

	// Health service: compose checkers
	probes := []health.Checker{checkers.Postgres(pool)}

	opts := []emailimport.Option{emailimport.WithLogger(log)}
	if cfg.RedisURL != "" {
		rdb, err := events.NewClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		opts = append(opts, emailimport.WithPublisher(events.NewRedisPublisher(rdb, cfg.EventsChannel)))
		probes = append(probes, checkers.Redis(rdb))
		log.Info("publishing import events", "channel", cfg.EventsChannel)
	}

	// Wire dependencies (Clean Architecture)
	jobRepo := pgrepo.NewJobRepository(pool)
	pendingRepo := pgrepo.NewPendingImportRepository(pool)
	importSvc := emailimport.NewService(registry, jobRepo, pendingRepo, opts...)

	jwtGen := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL())
	authUC := auth.NewAuthService(pgrepo.NewUserRepository(pool), jwtGen)

	hs := http.Handlers{
		Auth:    handlers.NewAuthHandler(authUC),
		Health:  handlers.NewHealthHandler(health.NewService(probes...)),
		Email:   handlers.NewEmailHandler(importSvc),
		Jobs:    handlers.NewJobHandler(job.NewService(jobRepo)),
		Imports: handlers.NewImportHandler(importSvc),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          presenter.ErrorHandler,
		DisableStartupMessage: true,
	})
	// JWT auth middleware for protected routes
	authMW := jwt.NewAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)
	limiter := ratelimit.New(cfg.ParseRatePerSecond, cfg.ParseBurst)
	http.Register(app, hs, authMW, limiter.Middleware())

	sched := scheduler.New(importSvc, cfg.ExpirySchedule, cfg.PendingImportTTL, log)
	if err := sched.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", "port", cfg.Port)
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		sched.Stop(shutdownCtx)
		return app.ShutdownWithContext(shutdownCtx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func loadPlatforms(path string) (*platform.Registry, error) {
	if path == "" {
		return platform.Default()
	}
	return platform.LoadFile(path)
}
