// internal/workers/maturity/resolve-maturity-level/models.go
package resolvematuritylevel

import "maturity-workers/internal/models"

// Input carries a score to classify or a level to describe. Score wins
// when both are present.
type Input struct {
	Score              *float64              `json:"score,omitempty"`
	Level              *int                  `json:"level,omitempty"`
	TransformationYear *int                  `json:"transformationYear,omitempty"`
	ScoringConfig      *models.ScoringConfig `json:"scoringConfig,omitempty"`
}

type Output struct {
	Level            int               `json:"level"`
	Label            string            `json:"label"`
	ScoreRange       models.ScoreRange `json:"scoreRange"`
	ExpectedLevel    *int              `json:"expectedLevel,omitempty"`
	ExpectedLabel    string            `json:"expectedLabel,omitempty"`
	MeetsExpectation *bool             `json:"meetsExpectation,omitempty"`
}
