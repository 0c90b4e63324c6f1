package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/pricematrix/internal/billing"
	"github.com/davidbz/pricematrix/internal/catalog"
	"github.com/davidbz/pricematrix/internal/config"
	"github.com/davidbz/pricematrix/internal/domain"
	"github.com/davidbz/pricematrix/internal/http"
	"github.com/davidbz/pricematrix/internal/http/middleware"
	"github.com/davidbz/pricematrix/internal/observability"
	"github.com/davidbz/pricematrix/internal/store/memory"
	"github.com/davidbz/pricematrix/internal/store/redis"
)

// ErrCatalogNotConfigured indicates the server has no catalog to resolve plans against.
var ErrCatalogNotConfigured = errors.New("catalog pattern is not configured (set CATALOG_PATTERN)")

func buildContainer() (*dig.Container, error) {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		return nil, fmt.Errorf("failed to provide config: %w", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		return nil, fmt.Errorf("failed to provide config dependencies: %w", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		return nil, fmt.Errorf("failed to provide logger: %w", err)
	}
	if err := container.Provide(func(logger *zap.Logger) domain.EventPublisher {
		return observability.NewEventBus(logger)
	}); err != nil {
		return nil, fmt.Errorf("failed to provide event bus: %w", err)
	}

	// Matrix store
	if err := container.Provide(newMatrixStore); err != nil {
		return nil, fmt.Errorf("failed to provide matrix store: %w", err)
	}

	// Domain Services
	if err := container.Provide(func(cfg *config.CatalogConfig) *domain.Resolver {
		return domain.NewResolver(domain.NewRowFilter(cfg.IDField, cfg.PriceField))
	}); err != nil {
		return nil, fmt.Errorf("failed to provide resolver: %w", err)
	}
	if err := container.Provide(domain.NewMatrixService); err != nil {
		return nil, fmt.Errorf("failed to provide matrix service: %w", err)
	}

	// Billing
	if err := container.Provide(func(cfg *billing.Config) billing.API {
		return billing.NewClient(cfg)
	}); err != nil {
		return nil, fmt.Errorf("failed to provide billing client: %w", err)
	}
	if err := container.Provide(billing.NewPublisher); err != nil {
		return nil, fmt.Errorf("failed to provide billing publisher: %w", err)
	}

	// HTTP Layer
	if err := container.Provide(newSourceFactory); err != nil {
		return nil, fmt.Errorf("failed to provide catalog source factory: %w", err)
	}
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		return nil, fmt.Errorf("failed to provide middleware chain: %w", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		return nil, fmt.Errorf("failed to provide HTTP handler: %w", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		return nil, fmt.Errorf("failed to provide HTTP server: %w", err)
	}

	return container, nil
}

// newMatrixStore uses Redis when an address is configured and process memory
// otherwise. The Redis client dials on first use, so runs that never touch
// the store do not need Redis to be reachable.
func newMatrixStore(cfg *config.RedisConfig) domain.MatrixStore {
	if cfg.Addr == "" {
		return memory.NewMatrixStore()
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	observability.FromContext(context.Background()).Info("using redis matrix store",
		observability.String("addr", cfg.Addr),
		observability.String("key_prefix", cfg.KeyPrefix))

	return redis.NewMatrixStore(client, cfg.KeyPrefix, time.Duration(cfg.TTL)*time.Second)
}

func newSourceFactory(cfg *config.CatalogConfig) http.SourceFactory {
	return func(*domain.Plan) (domain.RecordSource, error) {
		if cfg.Pattern == "" {
			return nil, ErrCatalogNotConfigured
		}
		return catalog.NewFileSource(cfg.Pattern, cfg.SkipLines), nil
	}
}
