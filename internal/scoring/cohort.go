package scoring

import "maturity-workers/internal/models"

// AggregateSummaries rolls scored assessments up per area and overall.
// Every area in areas is reported even when no summary carries it; areas
// found only in summaries are reported too. Averages are unweighted.
func AggregateSummaries(summaries []models.AssessmentSummary, areas []string) models.CohortStats {
	scoresByArea := make(map[string][]float64, len(areas))
	for _, area := range areas {
		scoresByArea[area] = nil
	}

	allScores := make([]float64, 0, len(summaries))
	allLevels := make([]float64, 0, len(summaries))
	for _, s := range summaries {
		scoresByArea[s.Area] = append(scoresByArea[s.Area], s.TotalScore)
		allScores = append(allScores, s.TotalScore)
		allLevels = append(allLevels, float64(s.OverallLevel))
	}

	byArea := make(map[string]models.AreaStats, len(scoresByArea))
	for area, scores := range scoresByArea {
		byArea[area] = models.AreaStats{
			AvgScore: mean(scores),
			Count:    len(scores),
		}
	}

	return models.CohortStats{
		ByArea: byArea,
		Overall: models.OverallStats{
			AvgScore:       mean(allScores),
			AvgLevel:       mean(allLevels),
			TotalInstances: len(summaries),
		},
	}
}
