// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/volunteer-hub/internal/auth"
	"github.com/carterperez-dev/volunteer-hub/internal/config"
	"github.com/carterperez-dev/volunteer-hub/internal/core"
	"github.com/carterperez-dev/volunteer-hub/internal/health"
	"github.com/carterperez-dev/volunteer-hub/internal/middleware"
	"github.com/carterperez-dev/volunteer-hub/internal/project"
	"github.com/carterperez-dev/volunteer-hub/internal/server"
	"github.com/carterperez-dev/volunteer-hub/internal/stats"
	"github.com/carterperez-dev/volunteer-hub/internal/storage"
	"github.com/carterperez-dev/volunteer-hub/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return err
	}
	if cfg.Otel.Enabled {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
		)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		logger.Info("database schema applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	images, err := storage.New(ctx, cfg.Uploads)
	if err != nil {
		return err
	}
	logger.Info("image storage ready", "driver", cfg.Uploads.Driver)

	hasher, err := core.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token manager initialized",
		"algorithm", "HS256",
		"access_ttl", cfg.JWT.AccessTokenExpire,
		"refresh_ttl", cfg.JWT.RefreshTokenExpire,
	)

	projectRepo := project.NewRepository(db.DB)
	projectSvc := project.NewService(projectRepo, images)
	projectHandler := project.NewHandler(projectSvc, cfg.Uploads.MaxSizeBytes)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, hasher, projectSvc)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(
		tokens,
		auth.NewDenylist(redis.Client),
		userSvc,
		hasher,
		cfg.Auth.SelfAssignableRoles,
	)
	authHandler := auth.NewHandler(authSvc, auth.CookieConfig{
		Name:   cfg.Auth.RefreshCookieName,
		Path:   cfg.Auth.RefreshCookiePath,
		Secure: cfg.IsProduction(),
		MaxAge: cfg.JWT.RefreshTokenExpire,
	})

	statsHandler := stats.NewHandler(stats.HandlerConfig{
		Counter:    stats.NewRepository(db.DB),
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
		health.Dependency{Name: "storage", Checker: images},
	)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	apiLimit, authLimit := middleware.Limits(cfg.RateLimit)

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing(telemetry.Tracer))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit:    apiLimit,
			FailOpen: true,
		}).Handler,
	)

	healthHandler.RegisterRoutes(router)

	if local, ok := images.(*storage.LocalStore); ok {
		prefix := local.URLPrefix()
		router.Handle(prefix+"/*", http.StripPrefix(
			prefix+"/",
			http.FileServer(http.Dir(local.Dir())),
		))
	}

	authenticator := middleware.Authenticator(authSvc)
	credentialLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.RateLimitConfig{
			Limit:    authLimit,
			KeyFunc:  middleware.KeyByIPAndEndpoint,
			FailOpen: true,
		},
	)

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			authHandler.RegisterRoutes(r, credentialLimiter.Handler)
			userHandler.RegisterRoutes(r, authenticator)
		})

		projectHandler.RegisterRoutes(r, authenticator)
		statsHandler.RegisterRoutes(r, authenticator)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
