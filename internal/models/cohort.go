// internal/models/cohort.go
package models

type AreaStats struct {
	AvgScore float64 `json:"avgScore"`
	Count    int     `json:"count"`
}

type OverallStats struct {
	AvgScore       float64 `json:"avgScore"`
	AvgLevel       float64 `json:"avgLevel"`
	TotalInstances int     `json:"totalInstances"`
}

// CohortStats is the roll-up of many assessment summaries. encoding/json
// writes ByArea with sorted keys, so output is stable across calls.
type CohortStats struct {
	ByArea  map[string]AreaStats `json:"byArea"`
	Overall OverallStats         `json:"overall"`
}

type ScoreRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
