package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/classroom/config"
	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/email"
	"github.com/ErlanBelekov/classroom/internal/errorbus"
	"github.com/ErlanBelekov/classroom/internal/hasher"
	"github.com/ErlanBelekov/classroom/internal/health"
	"github.com/ErlanBelekov/classroom/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/classroom/internal/log"
	"github.com/ErlanBelekov/classroom/internal/metrics"
	"github.com/ErlanBelekov/classroom/internal/ratelimit"
	"github.com/ErlanBelekov/classroom/internal/stats"
	"github.com/ErlanBelekov/classroom/internal/token"
	httptransport "github.com/ErlanBelekov/classroom/internal/transport/http"
	"github.com/ErlanBelekov/classroom/internal/transport/http/handler"
	"github.com/ErlanBelekov/classroom/internal/usecase"
	"github.com/ErlanBelekov/classroom/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if !cfg.Local() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL,
		postgres.WithMaxConns(cfg.DBMaxConns),
		postgres.WithApplicationName("classroom-server"),
	)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	deps := []health.Dependency{{Name: "postgres", Pinger: pool}}

	var limiter ratelimit.Limiter = ratelimit.Noop{}
	if cfg.RedisURL != "" {
		rdb, err := ratelimit.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()

		limiter = ratelimit.NewRedisLimiter(rdb, "classroom:login", cfg.LoginMaxAttempts, cfg.LoginWindow)
		deps = append(deps, health.Dependency{
			Name:   "redis",
			Pinger: health.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		})
	} else {
		logger.Warn("REDIS_URL not set, login throttling disabled")
	}

	catalog, err := validation.NewCatalog(cfg.Locale)
	if err != nil {
		log.Fatalf("validation: %v", err)
	}
	validators := validation.New(catalog)

	metrics.Register()

	bus := errorbus.New()
	defer bus.Close()
	bus.Subscribe(errorbus.LogSubscriber(logger))
	bus.Subscribe(errorbus.CounterSubscriber(metrics.UnexpectedErrorsTotal))

	// Users
	userRepo := postgres.NewUserRepository(pool)
	pwHasher := hasher.NewBcrypt(cfg.BcryptCost)
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	userUsecase := usecase.NewUserUsecase(userRepo, pwHasher, sender, validators, logger, cfg.AppBaseURL)
	userUsecase.OnRegistered = func(role domain.Role) {
		metrics.UsersRegisteredTotal.WithLabelValues(string(role)).Inc()
	}

	// Auth
	authUsecase := usecase.NewAuthUsecase(userRepo, pwHasher, token.NewService(), validators, limiter, logger, usecase.AuthConfig{
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
	})

	// Classes and reports
	classUsecase := usecase.NewClassUsecase(postgres.NewClassRepository(pool), validators)
	reportUsecase := usecase.NewReportUsecase(validators)

	collector, err := stats.NewCollector(userRepo, metrics.UsersByRole, cfg.StatsCron, logger)
	if err != nil {
		log.Fatalf("stats: %v", err)
	}
	go collector.Start(ctx)

	checker := health.NewChecker(logger, prometheus.DefaultRegisterer, deps...)

	router := httptransport.NewRouter(logger, httptransport.Handlers{
		Auth:    handler.NewAuthHandler(authUsecase, bus, handler.CookieConfig{Secure: !cfg.Local()}, logger),
		Users:   handler.NewUserHandler(userUsecase, bus, logger),
		Classes: handler.NewClassHandler(classUsecase, bus, logger),
		Reports: handler.NewReportHandler(reportUsecase, bus, logger),
	}, httptransport.RouterConfig{
		Authenticator: authUsecase,
		Users:         userUsecase,
		HSTS:          !cfg.Local(),
	})

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, map[string]http.Handler{
		"/healthz": checker.LivenessHandler(),
		"/readyz":  checker.ReadinessHandler(),
	})

	go func() {
		logger.Info("server started", "port", cfg.Port, "locale", catalog.Locale())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
