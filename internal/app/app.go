package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mise/internal/config"
	"mise/internal/database"
	"mise/internal/meal"
	"mise/internal/metrics"
	"mise/internal/recipe"
	"mise/internal/snapshot"
	"mise/internal/storage"
)

// App holds the application's dependencies.
type App struct {
	cfg       *config.Config
	db        *database.DB
	recipes   *recipe.Repository
	meals     *meal.Repository
	metrics   *metrics.Store
	exports   *storage.SnapshotStore
	generator *snapshot.Generator
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewApp creates and initializes a new App instance.
func NewApp(
	cfg *config.Config,
	db *database.DB,
	recipes *recipe.Repository,
	meals *meal.Repository,
	metricsStore *metrics.Store,
	exports *storage.SnapshotStore,
	generator *snapshot.Generator,
	logger *zap.Logger,
) *App {
	return &App{
		cfg:       cfg,
		db:        db,
		recipes:   recipes,
		meals:     meals,
		metrics:   metricsStore,
		exports:   exports,
		generator: generator,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Stats summarizes stored data and process health.
type Stats struct {
	Recipes    int
	Meals      int
	StaleMeals int
	Health     metrics.SysHealth
}

// Stats counts live recipes and meals and samples process health.
func (a *App) Stats(ctx context.Context) (*Stats, error) {
	recipes, err := a.recipes.Count(ctx)
	if err != nil {
		return nil, err
	}
	meals, stale, err := a.meals.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Recipes:    recipes,
		Meals:      meals,
		StaleMeals: stale,
		Health:     metrics.GetSysHealth(a.cfg.DBPath, a.exports.BasePath()),
	}, nil
}

// Usage returns daily snapshot generation totals for the last days.
func (a *App) Usage(ctx context.Context, days int) ([]metrics.DailyUsage, error) {
	if days < 1 {
		days = a.cfg.MetricsRetentionDays
	}
	return a.metrics.GetDailyUsage(ctx, days)
}

// CleanupMetrics removes generation metrics older than days, or older than
// the configured retention when days is not positive.
func (a *App) CleanupMetrics(ctx context.Context, days int) (int64, error) {
	if days < 1 {
		days = a.cfg.MetricsRetentionDays
	}
	n, err := a.metrics.Cleanup(ctx, days)
	if err != nil {
		return 0, err
	}
	a.logger.Info("cleaned up generation metrics", zap.Int64("removed", n), zap.Int("older_than_days", days))
	return n, nil
}

func (a *App) recordGeneration(ctx context.Context, mealSlug, operation string, res *snapshot.Result, latency time.Duration) {
	err := a.metrics.Record(ctx, metrics.GenerationMetric{
		MealSlug:     mealSlug,
		Operation:    operation,
		RecipeCount:  len(res.Snapshot.Recipes),
		MarkerCount:  len(res.Snapshot.TimelineMarkers),
		WarningCount: len(res.Warnings),
		Latency:      latency,
		Timestamp:    a.now(),
	})
	if err != nil {
		a.logger.Warn("failed to record generation metric", zap.String("meal", mealSlug), zap.Error(err))
	}
}

func (a *App) timestamp() time.Time {
	return a.now().UTC()
}
