// internal/workers/maturity/aggregate-cohort/config.go
package aggregatecohort

import "time"

type Config struct {
	Timeout time.Duration
	// Areas are reported even when no summary falls into them. A job's own
	// areas list replaces this one.
	Areas []string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
