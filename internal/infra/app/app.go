package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/config"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/database"
	kafkainfra "github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/kafka"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/logger"
	redisinfra "github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/redis"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/scheduler"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/security"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/telemetry"
	postgresrepo "github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository/postgres"
	redisrepo "github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository/redis"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/transport/http/middleware"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/transport/http/routes"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/usecase"
)

// Application bundles the wired process: HTTP engine, connection pools, and
// the background scheduler.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
	jobs   *scheduler.Scheduler
}

// New wires configuration into a runnable application.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if _, err := telemetry.Attach(ctx, cfg); err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	if err := security.ConfigureArgon2(security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	tokenService := security.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.AdminTTL)

	repos := postgresrepo.NewRepositories(pool)

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	heartbeatCache := redisrepo.NewHeartbeatRepository(redisClient.Client(), redisrepo.HeartbeatConfig{
		KeyPrefix: cfg.Redis.HeartbeatPrefix,
		TTL:       cfg.Redis.HeartbeatTTL,
	})

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "skillshikhi:rate-limit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	authService := usecase.NewAuthService(
		repos.Users,
		repos.ResetTokens,
		repos.AdminSessions,
		tokenService,
		security.DefaultPasswordValidator(),
		eventPublisher,
		cfg.PasswordReset.TokenTTL,
		log,
	)
	userService := usecase.NewUserService(repos.Users, repos.Friendships, log)
	friendService := usecase.NewFriendshipService(repos.Friendships, repos.Users, repos.Notifications, eventPublisher, log)
	requestService := usecase.NewRequestService(repos.Requests, repos.Users, repos.Notifications, eventPublisher, log)
	notificationService := usecase.NewNotificationService(repos.Notifications)
	moderationService := usecase.NewModerationService(repos.Reports, repos.Users, repos.Notifications, eventPublisher, log)
	adminSessionService := usecase.NewAdminSessionService(repos.AdminSessions, heartbeatCache, eventPublisher, cfg.AdminSessions.IdleTimeout, log)
	analyticsService := usecase.NewAnalyticsService(repos.Analytics, repos.Stats, log)

	jobs := scheduler.New(cfg.Jobs, analyticsService, notificationService, adminSessionService, authService, log)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Tokens:      tokenService,
		UserRepo:    repos.Users,
		Database:    pool,
		Cache:       redisClient,
		Metrics:     metrics,
		Services: routes.ServiceSet{
			Auth:          authService,
			Users:         userService,
			Friends:       friendService,
			Requests:      requestService,
			Notifications: notificationService,
			Moderation:    moderationService,
			AdminSessions: adminSessionService,
			Analytics:     analyticsService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
		jobs:   jobs,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer a.pool.Close()
	defer func() {
		_ = a.redis.Close()
	}()

	if err := a.jobs.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := a.jobs.Stop(stopCtx); err != nil {
			a.logger.Warn("scheduler stop timed out", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting SkillShikhi API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
