// internal/models/assessment.go
package models

// IndicatorCategory is the raw category tag carried on the wire.
type IndicatorCategory string

const (
	IndicatorCategoryCoverage  IndicatorCategory = "coverage"
	IndicatorCategoryFrequency IndicatorCategory = "frequency"
	IndicatorCategoryDepth     IndicatorCategory = "depth"
)

type Indicator struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Category        IndicatorCategory `json:"category"`
	Weight          *float64          `json:"weight,omitempty"`
	FrequencyConfig *FrequencyConfig  `json:"frequencyConfig,omitempty"`
	ExpectedLevel   *int              `json:"expectedLevel,omitempty"`
}

// FrequencyConfig describes the numeric range of a frequency indicator.
// Type, Unit and Step are display metadata only.
type FrequencyConfig struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Type string   `json:"type,omitempty"`
	Unit string   `json:"unit,omitempty"`
	Step *float64 `json:"step,omitempty"`
}

type Response struct {
	IndicatorID    string   `json:"indicator_id"`
	CoverageValue  *bool    `json:"coverage_value,omitempty"`
	FrequencyValue *float64 `json:"frequency_value,omitempty"`
	DepthLevel     *int     `json:"depth_level,omitempty"`
}

type Module struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Weight     *float64    `json:"weight,omitempty"`
	Indicators []Indicator `json:"indicators"`
}

type AssessmentScoringInput struct {
	InstanceID         string         `json:"instanceId"`
	Area               string         `json:"area"`
	TransformationYear int            `json:"transformationYear"`
	Modules            []Module       `json:"modules"`
	Responses          []Response     `json:"responses"`
	ScoringConfig      *ScoringConfig `json:"scoringConfig,omitempty"`
}

type ScoredIndicator struct {
	IndicatorID        string            `json:"indicatorId"`
	IndicatorName      string            `json:"indicatorName"`
	Category           IndicatorCategory `json:"category"`
	Score              float64           `json:"score"`
	Weight             float64           `json:"weight"`
	IsAboveExpectation *bool             `json:"isAboveExpectation,omitempty"`
}

type ModuleScore struct {
	ModuleName  string            `json:"moduleName"`
	ModuleScore float64           `json:"moduleScore"`
	Indicators  []ScoredIndicator `json:"indicators"`
}

type AssessmentSummary struct {
	InstanceID         string        `json:"instanceId"`
	Area               string        `json:"area"`
	TotalScore         float64       `json:"totalScore"`
	ModuleScores       []ModuleScore `json:"moduleScores"`
	OverallLevel       int           `json:"overallLevel"`
	ExpectedLevel      int           `json:"expectedLevel"`
	TransformationYear int           `json:"transformationYear"`
}
