package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	defaultExportDir            = "data/snapshots"
	defaultLogLevel             = "info"
	defaultMaxMealRecipes       = 20
	defaultMetricsRetentionDays = 30
)

// Config holds the configuration for the application.
type Config struct {
	DBPath    string
	ExportDir string
	LogLevel  string

	// Meal limits
	MaxMealRecipes int

	// Metrics
	MetricsRetentionDays int
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	dbPath := os.Getenv("MISE_DB_PATH")
	if dbPath == "" {
		return nil, fmt.Errorf("MISE_DB_PATH environment variable not set")
	}

	exportDir := os.Getenv("MISE_EXPORT_DIR")
	if exportDir == "" {
		exportDir = defaultExportDir
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = defaultLogLevel
	}

	maxRecipes, err := positiveInt("MISE_MAX_MEAL_RECIPES", defaultMaxMealRecipes)
	if err != nil {
		return nil, err
	}

	retention, err := positiveInt("MISE_METRICS_RETENTION_DAYS", defaultMetricsRetentionDays)
	if err != nil {
		return nil, err
	}

	return &Config{
		DBPath:               dbPath,
		ExportDir:            exportDir,
		LogLevel:             logLevel,
		MaxMealRecipes:       maxRecipes,
		MetricsRetentionDays: retention,
	}, nil
}

func positiveInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}
