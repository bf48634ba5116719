package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/target/storefront-admin/config"
	"github.com/target/storefront-admin/internal/core"
	"github.com/target/storefront-admin/internal/data"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	"github.com/target/storefront-admin/internal/observability/metrics"
	"github.com/target/storefront-admin/internal/service"
)

const shutdownWaitTimeout = 10 * time.Second

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth         *service.AuthService
	Products     *service.ProductService
	Categories   *service.CategoryService
	Orders       *service.OrderService
	Users        *service.UserService
	Coupons      *service.CouponService
	Banners      *service.BannerService
	Hero         *service.HeroService
	Promo        *service.PromoService
	Testimonials *service.TestimonialService
	Dashboard    *service.DashboardService
	Activity     *service.ActivityService
	Metrics      *metrics.Metrics
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	// DB is nil when Postgres is disabled; the activity log is then off.
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// buildMetrics registers the dashboard collectors plus the Go runtime ones.
// It returns nil when metrics are disabled.
func buildMetrics(cfg config.ObservabilityMetricsConfig) *metrics.Metrics {
	if !cfg.IsEnabled() {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.New(reg)
}

// newActivityService backs the audit trail with Postgres when it is available.
func newActivityService(db *sql.DB, logger *slog.Logger) *service.ActivityService {
	var repo core.ActivityRepository
	if db != nil {
		repo = data.NewActivityRepo(db)
	}
	return service.NewActivityService(service.ActivityServiceOptions{Repo: repo, Logger: logger})
}

// NewServices builds every service the HTTP layer needs.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps require a config")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := buildMetrics(cfg.Observability.Metrics)
	stack, err := BuildAuthStack(AuthStackConfig{
		Backend:     cfg.Backend,
		Auth:        cfg.Auth,
		RedisClient: deps.RedisClient,
		Metrics:     m,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	api := service.NewBackend(service.BackendOptions{Pipeline: stack.Pipeline, Logger: logger})
	activity := newActivityService(deps.DB, logger)
	if !activity.Enabled() {
		logger.Info("admin activity log disabled", "reason", "postgres not configured")
	}

	var cache core.CacheRepository
	if deps.RedisClient != nil {
		cache = data.NewRedisCacheRepo(deps.RedisClient)
	}

	return ServiceContainer{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Backend:    stack.Client,
			Sessions:   stack.Sessions,
			API:        api,
			Activity:   activity,
			SessionTTL: cfg.Auth.SessionTTL,
			AdminRole:  domainauth.Role(cfg.Auth.AdminRole),
			Logger:     logger,
		}),
		Products: service.NewProductService(service.ProductServiceOptions{Backend: api, Activity: activity}),
		Categories: service.NewCategoryService(service.CategoryServiceOptions{
			Backend:  api,
			Activity: activity,
			Cache:    cache,
			TTL:      cfg.Cache.CategoryTreeTTL,
			Logger:   logger,
		}),
		Orders:       service.NewOrderService(service.OrderServiceOptions{Backend: api, Activity: activity}),
		Users:        service.NewUserService(service.UserServiceOptions{Backend: api, Activity: activity}),
		Coupons:      service.NewCouponService(service.CouponServiceOptions{Backend: api, Activity: activity}),
		Banners:      service.NewBannerService(service.BannerServiceOptions{Backend: api, Activity: activity}),
		Hero:         service.NewHeroService(service.HeroServiceOptions{Backend: api, Activity: activity}),
		Promo:        service.NewPromoService(service.PromoServiceOptions{Backend: api, Activity: activity}),
		Testimonials: service.NewTestimonialService(service.TestimonialServiceOptions{Backend: api, Activity: activity}),
		Dashboard: service.NewDashboardService(service.DashboardServiceOptions{
			Backend:  api,
			Activity: activity,
			Logger:   logger,
		}),
		Activity: activity,
		Metrics:  m,
	}, nil
}

// ServiceOrchestrationConfig contains dependencies for running the dashboard.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts the HTTP server and blocks until a shutdown
// signal arrives or the server fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
		ErrCh:    errCh,
	})

	return waitForShutdown(shutdownConfig{
		ctx:        ctx,
		errCh:      errCh,
		httpServer: server,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	errCh      <-chan error
	httpServer *http.Server
	logger     *slog.Logger
}

// waitForShutdown waits for shutdown signal or server error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		cfg.logger.Info("shutting down", "signal", sig.String())
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("http server error", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return fmt.Errorf("http server: %w", err)
	}
}

func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(cfg.ctx, shutdownWaitTimeout)
	defer cancel()
	return ShutdownHTTPServer(ShutdownConfig{
		Context: shutdownCtx,
		Server:  cfg.httpServer,
		Logger:  cfg.logger,
	})
}
