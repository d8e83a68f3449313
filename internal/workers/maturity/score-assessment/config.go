// internal/workers/maturity/score-assessment/config.go
package scoreassessment

import (
	"time"

	"maturity-workers/internal/models"
)

type Config struct {
	Timeout time.Duration
	// Defaults applies when the job carries no inline config and the
	// template has no stored override. Nil means the built-in thresholds.
	Defaults *models.ScoringConfig
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
