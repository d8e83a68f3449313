// internal/workers/maturity/aggregate-cohort/models.go
package aggregatecohort

import (
	"time"

	"maturity-workers/internal/models"
)

type Input struct {
	Summaries   []models.AssessmentSummary `json:"summaries,omitempty"`
	InstanceIDs []string                   `json:"instanceIds,omitempty"`
	Areas       []string                   `json:"areas,omitempty"`
}

type Output struct {
	ReportID           string             `json:"reportId"`
	Stats              models.CohortStats `json:"stats"`
	MissingInstanceIDs []string           `json:"missingInstanceIds"`
	GeneratedAt        time.Time          `json:"generatedAt"`
}
