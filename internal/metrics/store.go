package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mise/internal/metrics/metrics_db"
)

// GenerationMetric records metadata for a single meal snapshot generation.
type GenerationMetric struct {
	MealSlug     string
	Operation    string
	RecipeCount  int
	MarkerCount  int
	WarningCount int
	Latency      time.Duration
	Timestamp    time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	queries *metricsdb.Queries
	db      *sql.DB
	now     func() time.Time
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		queries: metricsdb.New(db),
		db:      db,
		now:     time.Now,
	}
}

// WithTx returns a store that records inside tx.
func (s *Store) WithTx(tx *sql.Tx) *Store {
	return &Store{
		queries: s.queries.WithTx(tx),
		db:      s.db,
		now:     s.now,
	}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m GenerationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	err := s.queries.InsertGenerationMetric(ctx, metricsdb.InsertGenerationMetricParams{
		MealSlug:     m.MealSlug,
		Operation:    m.Operation,
		RecipeCount:  int64(m.RecipeCount),
		MarkerCount:  int64(m.MarkerCount),
		WarningCount: int64(m.WarningCount),
		LatencyMs:    m.Latency.Milliseconds(),
		Timestamp:    ts.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to record generation metric: %w", err)
	}
	return nil
}

// DailyUsage represents generation totals for a single day.
type DailyUsage struct {
	Date          string
	Generations   int
	TotalRecipes  int
	TotalWarnings int
	AvgLatency    time.Duration
}

// GetDailyUsage retrieves usage for the last N days, most recent first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := s.now().UTC().AddDate(0, 0, -days)
	rows, err := s.queries.GetDailyUsage(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily usage: %w", err)
	}

	var results []DailyUsage
	for _, r := range rows {
		u := DailyUsage{
			Generations: int(r.Count),
		}

		if day, ok := r.Day.(string); ok {
			u.Date = day
		} else {
			u.Date = "Unknown"
		}

		if r.Sum.Valid {
			u.TotalRecipes = int(r.Sum.Float64)
		}
		if r.Sum_2.Valid {
			u.TotalWarnings = int(r.Sum_2.Float64)
		}
		if r.Avg.Valid {
			u.AvgLatency = time.Duration(r.Avg.Float64 * float64(time.Millisecond))
		}

		results = append(results, u)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days and
// returns how many were removed.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := s.now().UTC().AddDate(0, 0, -olderThanDays)
	n, err := s.queries.CleanupGenerationMetrics(ctx, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up generation metrics: %w", err)
	}
	return n, nil
}
