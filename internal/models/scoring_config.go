// internal/models/scoring_config.go
package models

// ScoringConfig is the optional per-template override. Field names follow
// the persisted storage format.
type ScoringConfig struct {
	LevelThresholds LevelThresholds `json:"level_thresholds"`
	DefaultWeights  *DefaultWeights `json:"default_weights,omitempty"`
}

type LevelThresholds struct {
	Consolidated float64 `json:"consolidated"`
	Advanced     float64 `json:"advanced"`
	Developing   float64 `json:"developing"`
	Emerging     float64 `json:"emerging"`
}

type DefaultWeights struct {
	Module    float64 `json:"module"`
	Indicator float64 `json:"indicator"`
}
