package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/config"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/security"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/transport/http/handlers"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/transport/http/middleware"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Users         *usecase.UserService
	Friends       *usecase.FriendshipService
	Requests      *usecase.RequestService
	Notifications *usecase.NotificationService
	Moderation    *usecase.ModerationService
	AdminSessions *usecase.AdminSessionService
	Analytics     *usecase.AnalyticsService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Tokens      *security.TokenService
	UserRepo    port.UserRepository
	Database    DatabaseChecker
	Cache       CacheChecker
	Metrics     *middleware.HTTPMetrics
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.App.CORSOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	requireAuth := middleware.RequireAuth(deps.Tokens)
	requireAdmin := middleware.RequireAdmin(deps.UserRepo, deps.Services.AdminSessions)

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		isDev := deps.Config.App.Env == "development"

		authHandler := handlers.NewAuthHandler(deps.Services.Auth, isDev)
		authGroup := api.Group("/auth")
		authHandler.RegisterRoutes(authGroup,
			buildRegisterMiddlewares(deps),
			buildLoginMiddlewares(deps),
			buildPasswordResetMiddlewares(deps),
		)
		authGroup.GET("/admin/session", requireAuth, requireAdmin, authHandler.AdminSession)

		userGroup := api.Group("/users")
		userGroup.Use(requireAuth)
		handlers.NewUserHandler(deps.Services.Users).RegisterRoutes(userGroup)

		friendGroup := api.Group("/friends")
		friendGroup.Use(requireAuth)
		handlers.NewFriendHandler(deps.Services.Friends).RegisterRoutes(friendGroup)

		requestGroup := api.Group("/requests")
		requestGroup.Use(requireAuth)
		handlers.NewRequestHandler(deps.Services.Requests).RegisterRoutes(requestGroup)

		notificationGroup := api.Group("/notifications")
		notificationGroup.Use(requireAuth)
		handlers.NewNotificationHandler(deps.Services.Notifications).RegisterRoutes(notificationGroup)

		reportGroup := api.Group("/reports")
		reportGroup.Use(requireAuth)
		handlers.NewReportHandler(deps.Services.Moderation).RegisterRoutes(reportGroup)

		adminGroup := api.Group("/admin")
		adminGroup.Use(requireAuth, requireAdmin)
		{
			handlers.NewAdminUserHandler(deps.Services.Moderation).RegisterRoutes(adminGroup.Group("/users"))
			handlers.NewAdminReportHandler(deps.Services.Moderation).RegisterRoutes(adminGroup.Group("/reports"))
			handlers.NewAdminSessionHandler(deps.Services.AdminSessions).RegisterRoutes(adminGroup.Group("/sessions"))
			handlers.NewAdminAnalyticsHandler(deps.Services.Analytics).RegisterRoutes(adminGroup.Group("/analytics"))
		}
	}

	return r
}

func buildRegisterMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.RegisterMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "auth_register_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}

func buildLoginMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.LoginMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "auth_login_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}

func buildPasswordResetMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.PasswordResetMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Hour
	}

	rule := middleware.RateLimitRule{
		Name:       "password_reset_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
