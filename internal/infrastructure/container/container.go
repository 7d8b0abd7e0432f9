// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	appplanner "github.com/mealsmith/v1/internal/application/planner"
	"github.com/mealsmith/v1/internal/domain/planner"
	"github.com/mealsmith/v1/internal/domain/recipe"
	"github.com/mealsmith/v1/internal/infrastructure/config"
	"github.com/mealsmith/v1/internal/infrastructure/http/apiserver"
	"github.com/mealsmith/v1/internal/infrastructure/monitoring"
	"github.com/mealsmith/v1/internal/infrastructure/persistence/memory"
	"github.com/mealsmith/v1/internal/ports/inbound"
	"github.com/mealsmith/v1/internal/ports/outbound"
	"github.com/mealsmith/v1/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	RepositoryModule,
	EngineModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MonitoringModule provides the prometheus metrics collector
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
)

// RepositoryModule provides the in-memory persistence adapters
var RepositoryModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.CandidateSource {
		var seed []recipe.Recipe
		if cfg.Catalog.SeedRecipes > 0 {
			seed = memory.SeedRecipes(cfg.Catalog.SeedRecipes, cfg.Catalog.SeedValue)
			log.Info("Seeded in-memory recipe catalog",
				zap.Int("recipes", len(seed)),
				zap.Int64("seed", cfg.Catalog.SeedValue),
			)
		}
		return memory.NewRecipeCatalog(seed...)
	},
	func() outbound.HistoryRepository {
		return memory.NewHistoryRepository()
	},
	func() outbound.FeedbackRepository {
		return memory.NewFeedbackRepository()
	},
	func() outbound.PantryRepository {
		return memory.NewPantryRepository()
	},
)

// EngineModule provides the planning engine. The engine is shared across
// concurrent HTTP requests, so the randomness source must be the locked one.
var EngineModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *planner.Engine {
		seed := cfg.Engine.RandomSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return planner.NewEngine(cfg.Engine.ToPlannerConfig(), planner.NewLockedRand(seed), log)
	},
)

// ServiceModule provides the application service
var ServiceModule = fx.Provide(
	func(
		candidates outbound.CandidateSource,
		histRepo outbound.HistoryRepository,
		fbRepo outbound.FeedbackRepository,
		pantryRepo outbound.PantryRepository,
		engine *planner.Engine,
		metrics *monitoring.MetricsCollector,
		log *zap.Logger,
	) inbound.PlannerService {
		return appplanner.NewPlannerService(candidates, histRepo, fbRepo, pantryRepo, engine, metrics, log)
	},
)

// HTTPModule provides the API server
var HTTPModule = fx.Provide(
	apiserver.NewAPIServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	server *apiserver.APIServer,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting mealsmith application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down mealsmith application")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			_ = log.Sync()

			return nil
		},
	})
}
