// internal/workers/maturity/score-assessment/models.go
package scoreassessment

import "maturity-workers/internal/models"

type Input struct {
	models.AssessmentScoringInput
	TemplateID string `json:"templateId,omitempty"`
}

type Output struct {
	Summary          models.AssessmentSummary `json:"summary"`
	OverallLabel     string                   `json:"overallLabel"`
	ExpectedLabel    string                   `json:"expectedLabel"`
	OverallRange     models.ScoreRange        `json:"overallRange"`
	MeetsExpectation bool                     `json:"meetsExpectation"`
	ExpectationGap   int                      `json:"expectationGap"`
	ConfigSource     string                   `json:"configSource"`
}

// Where the scoring config of a job came from.
const (
	ConfigSourceInline   = "inline"
	ConfigSourceTemplate = "template"
	ConfigSourceDefault  = "default"
)
