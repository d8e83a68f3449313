package scoring

import "maturity-workers/internal/models"

const defaultWeight = 1.0

// Weights supplies fallback weights for indicators and modules that do not
// declare one. Zero fields fall back to 1.
type Weights struct {
	Module    float64
	Indicator float64
}

// WeightsFromConfig reads default_weights from cfg, if any.
func WeightsFromConfig(cfg *models.ScoringConfig) Weights {
	if cfg == nil || cfg.DefaultWeights == nil {
		return Weights{}
	}
	return Weights{
		Module:    cfg.DefaultWeights.Module,
		Indicator: cfg.DefaultWeights.Indicator,
	}
}

func resolveWeight(declared *float64, fallback float64) float64 {
	if declared != nil {
		return *declared
	}
	if fallback > 0 {
		return fallback
	}
	return defaultWeight
}

// ScoreModule scores every indicator of one module and rolls them up with
// WeightedAverage. Indicators without a response score 0 and stay listed.
//
// IsAboveExpectation is set when the indicator declares an expected level,
// and also when it declares none but year is 1 or more: the year curve
// (ExpectedLevelByYear) then stands in for the missing expectation. With
// year 0 and no declared level it stays nil.
func ScoreModule(indicators []models.Indicator, responses map[string]models.Response, moduleName string, year int) models.ModuleScore {
	return scoreModule(indicators, responses, moduleName, year, Weights{})
}

func scoreModule(indicators []models.Indicator, responses map[string]models.Response, moduleName string, year int, weights Weights) models.ModuleScore {
	scored := make([]models.ScoredIndicator, 0, len(indicators))
	pairs := make([]WeightedScore, 0, len(indicators))

	for _, ind := range indicators {
		var resp *models.Response
		if r, ok := responses[ind.ID]; ok {
			resp = &r
		}

		score := Normalize(resp, ind.Category, ind.FrequencyConfig)
		weight := resolveWeight(ind.Weight, weights.Indicator)

		si := models.ScoredIndicator{
			IndicatorID:   ind.ID,
			IndicatorName: ind.Name,
			Category:      ind.Category,
			Score:         score,
			Weight:        weight,
		}
		if expected, ok := expectedLevelFor(ind, year); ok {
			above := LevelFromScore(score) > expected
			si.IsAboveExpectation = &above
		}

		scored = append(scored, si)
		pairs = append(pairs, WeightedScore{Score: score, Weight: weight})
	}

	return models.ModuleScore{
		ModuleName:  moduleName,
		ModuleScore: WeightedAverage(pairs),
		Indicators:  scored,
	}
}

// expectedLevelFor prefers the indicator's own expectation and falls back to
// the year curve when a transformation year is known.
func expectedLevelFor(ind models.Indicator, year int) (int, bool) {
	if ind.ExpectedLevel != nil {
		return *ind.ExpectedLevel, true
	}
	if year >= 1 {
		return ExpectedLevelByYear(year), true
	}
	return 0, false
}
