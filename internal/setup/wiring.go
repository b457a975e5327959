package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/povarna/sonar-sweep/internal/config"
	"github.com/povarna/sonar-sweep/internal/database"
	"github.com/povarna/sonar-sweep/internal/metrics"
	"github.com/povarna/sonar-sweep/internal/sweep"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type Config struct {
	LogLevel       string
	APIPort        string
	MetricsAddr    string
	StreamProvider string
	RedisAddr      string
	RedisPassword  string
	StreamName     string
	StreamGroup    string
	ConsumerName   string
	RedisRetries   int
	Database       database.Config
}

type Dependencies struct {
	Analyzer    *sweep.Analyzer
	SweepConfig *config.SweepConfig
	Store       *database.DB // nil when no database is configured
	Metrics     *metrics.Metrics
	Registry    *prometheus.Registry
	Logger      *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		APIPort:        getEnv("SWEEP_API_PORT", "18082"),
		MetricsAddr:    getEnv("SWEEP_METRICS_ADDR", ""),
		StreamProvider: getEnv("STREAM_PROVIDER", "redis"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		StreamName:     getEnv("SWEEP_STREAM", "sonar-soundings"),
		StreamGroup:    getEnv("SWEEP_GROUP", "sweep-group"),
		ConsumerName:   getEnv("HOSTNAME", "sweep-consumer"),
		RedisRetries:   getEnvInt("REDIS_MAX_RETRIES", 5),
		Database: database.Config{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "sonar"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}
}

// Wire builds the shared components. The report store is only opened when
// the database settings are present.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	sweepConfig, err := config.LoadSweepConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load sweep config: %w", err)
	}

	analyzer := sweep.NewAnalyzer(sweepConfig.Analysis.WindowWidth, logger)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	deps := &Dependencies{
		Analyzer:    analyzer,
		SweepConfig: sweepConfig,
		Metrics:     m,
		Registry:    registry,
		Logger:      logger,
	}

	if !cfg.Database.Configured() {
		logger.Info().Msg("No database configured, reports will not be persisted")
		return deps, nil
	}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	deps.Store = db

	logger.Info().Msg("Report store ready")
	return deps, nil
}

func (d *Dependencies) Close() {
	if d.Store != nil {
		d.Store.Close()
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}
