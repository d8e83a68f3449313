// internal/workers/maturity/resolve-maturity-level/config.go
package resolvematuritylevel

import (
	"time"

	"maturity-workers/internal/models"
)

type Config struct {
	Timeout  time.Duration
	Defaults *models.ScoringConfig
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
