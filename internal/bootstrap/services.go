package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/vive-avila/ui-api/config"
	redisadapter "github.com/vive-avila/ui-api/internal/adapters/redis"
	"github.com/vive-avila/ui-api/internal/data"
	domainauth "github.com/vive-avila/ui-api/internal/domain/auth"
	"github.com/vive-avila/ui-api/internal/observability/statsd"
	"github.com/vive-avila/ui-api/internal/ports"
	"github.com/vive-avila/ui-api/internal/service"
)

// ServiceDeps contains the shared infrastructure the service layer builds on.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the assembled service layer.
type ServiceContainer struct {
	Gateway       ports.IdentityGateway
	Reconciler    *service.Reconciler
	Router        *service.Router
	Notifications *service.NotificationChannel
	Metrics       *statsd.Client
}

// NewServices assembles the portal's service layer from configuration and
// shared infrastructure. The returned reconciler is not yet started.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.Metrics.IsEnabled(),
		Address: cfg.Observability.Metrics.StatsdAddress,
		Prefix:  cfg.Observability.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create statsd client: %w", err)
	}

	gateway, err := BuildGateway(GatewayConfig{
		Auth:   cfg.Auth,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build identity gateway: %w", err)
	}

	cache := redisadapter.NewSessionCacheWithKey(deps.RedisClient, cfg.Session.CacheKey).
		WithLogger(logger)
	router, _ := service.NewRouter(cfg.Session.InitialPath)
	notifications := service.NewNotificationChannel(cfg.Session.NotificationDelay)

	reconciler := service.NewReconciler(service.ReconcilerOptions{
		Gateway:   gateway,
		Directory: data.NewDirectoryRepo(deps.DB),
		Shell: service.ShellDeps{
			Cache:         cache,
			Router:        router,
			Notifications: notifications,
		},
	}).
		WithAdmission(domainauth.NewAdmissionPolicy(cfg.Auth.AcceptedEmailSuffixes)).
		WithLogger(logger).
		WithMetrics(metrics)

	return ServiceContainer{
		Gateway:       gateway,
		Reconciler:    reconciler,
		Router:        router,
		Notifications: notifications,
		Metrics:       metrics,
	}, nil
}

// StartServices performs service startup that must happen after
// construction, currently only the reconciler's cache rehydration and
// credential subscription.
func StartServices(ctx context.Context, services ServiceContainer, logger *slog.Logger) error {
	if err := services.Reconciler.Start(ctx); err != nil {
		return fmt.Errorf("start reconciler: %w", err)
	}
	if logger != nil {
		logger.InfoContext(ctx, "session reconciler started")
	}
	return nil
}
