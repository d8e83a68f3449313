// internal/common/config/config.go
package config

import (
	"fmt"

	"maturity-workers/internal/models"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Scoring  ScoringConfig           `mapstructure:"scoring"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Metrics  MetricsConfig           `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Scoring ---

// ScoringConfig holds the organization-wide scoring defaults. Per-template
// overrides live in the scoring_configs table.
type ScoringConfig struct {
	LevelThresholds        ThresholdsConfig `mapstructure:"level_thresholds"`
	DefaultWeights         WeightsConfig    `mapstructure:"default_weights"`
	Areas                  []string         `mapstructure:"areas"`
	SummaryCacheTTLSeconds int              `mapstructure:"summary_cache_ttl_seconds"`
	ConfigCacheTTLSeconds  int              `mapstructure:"config_cache_ttl_seconds"`
}

type ThresholdsConfig struct {
	Emerging     float64 `mapstructure:"emerging"`
	Developing   float64 `mapstructure:"developing"`
	Advanced     float64 `mapstructure:"advanced"`
	Consolidated float64 `mapstructure:"consolidated"`
}

type WeightsConfig struct {
	Module    float64 `mapstructure:"module"`
	Indicator float64 `mapstructure:"indicator"`
}

// ToModel converts the section to the wire ScoringConfig used by the engine.
func (s ScoringConfig) ToModel() *models.ScoringConfig {
	cfg := &models.ScoringConfig{
		LevelThresholds: models.LevelThresholds{
			Consolidated: s.LevelThresholds.Consolidated,
			Advanced:     s.LevelThresholds.Advanced,
			Developing:   s.LevelThresholds.Developing,
			Emerging:     s.LevelThresholds.Emerging,
		},
	}
	if s.DefaultWeights != (WeightsConfig{}) {
		cfg.DefaultWeights = &models.DefaultWeights{
			Module:    s.DefaultWeights.Module,
			Indicator: s.DefaultWeights.Indicator,
		}
	}
	return cfg
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}
