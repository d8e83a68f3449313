package scoring

import "maturity-workers/internal/models"

// ScoreAssessment scores all modules of one assessment instance and
// classifies the total. Thresholds and default weights come from
// input.ScoringConfig when present.
func ScoreAssessment(input models.AssessmentScoringInput) models.AssessmentSummary {
	return ScoreAssessmentWith(input, ThresholdsFromConfig(input.ScoringConfig), WeightsFromConfig(input.ScoringConfig))
}

// ScoreAssessmentWith is ScoreAssessment with explicit thresholds and
// fallback weights.
func ScoreAssessmentWith(input models.AssessmentScoringInput, t Thresholds, weights Weights) models.AssessmentSummary {
	responses := IndexResponses(input.Responses)

	moduleScores := make([]models.ModuleScore, 0, len(input.Modules))
	pairs := make([]WeightedScore, 0, len(input.Modules))

	for _, m := range input.Modules {
		ms := scoreModule(m.Indicators, responses, m.Name, input.TransformationYear, weights)
		moduleScores = append(moduleScores, ms)
		pairs = append(pairs, WeightedScore{
			Score:  ms.ModuleScore,
			Weight: resolveWeight(m.Weight, weights.Module),
		})
	}

	total := WeightedAverage(pairs)

	return models.AssessmentSummary{
		InstanceID:         input.InstanceID,
		Area:               input.Area,
		TotalScore:         total,
		ModuleScores:       moduleScores,
		OverallLevel:       ScoreToLevel(total, t),
		ExpectedLevel:      ExpectedLevelByYear(input.TransformationYear),
		TransformationYear: input.TransformationYear,
	}
}

// IndexResponses builds the indicator id lookup used by the module scorer.
// A later response for the same indicator replaces an earlier one.
func IndexResponses(responses []models.Response) map[string]models.Response {
	byID := make(map[string]models.Response, len(responses))
	for _, r := range responses {
		byID[r.IndicatorID] = r
	}
	return byID
}
