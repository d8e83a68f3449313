package scoring

import (
	"math"

	"maturity-workers/internal/models"
)

const (
	MinScore = 0.0
	MaxScore = 100.0

	defaultFrequencyMin = 0.0
	defaultFrequencyMax = 100.0
)

// NormalizeCoverage scores a coverage answer. There is no partial credit.
func NormalizeCoverage(present bool) float64 {
	if present {
		return MaxScore
	}
	return MinScore
}

// NormalizeFrequency maps value linearly from the configured range onto
// [0,100]. Missing bounds default to 0 and 100 independently. An empty or
// inverted range scores 0.
func NormalizeFrequency(value float64, cfg *models.FrequencyConfig) float64 {
	lo, hi := frequencyBounds(cfg)
	if hi <= lo || math.IsNaN(value) {
		return MinScore
	}
	return clampScore((value - lo) / (hi - lo) * 100)
}

// NormalizeDepth maps a 0..4 depth level onto [0,100]. Levels outside the
// scale are clamped.
func NormalizeDepth(level int) float64 {
	return clampScore(float64(level) / float64(MaxLevel) * 100)
}

// NormalizeAnswer scores a single answer variant.
func NormalizeAnswer(a Answer, cfg *models.FrequencyConfig) float64 {
	switch v := a.(type) {
	case CoverageAnswer:
		return NormalizeCoverage(v.Present)
	case FrequencyAnswer:
		return NormalizeFrequency(v.Value, cfg)
	case DepthAnswer:
		return NormalizeDepth(v.Level)
	case Unanswered:
		return MinScore
	default:
		return MinScore
	}
}

// Normalize scores a raw response for an indicator of the given category.
// A nil response, a missing value field and an unknown category all score 0.
func Normalize(resp *models.Response, category models.IndicatorCategory, cfg *models.FrequencyConfig) float64 {
	return NormalizeAnswer(AnswerFor(resp, ParseCategory(category)), cfg)
}

func frequencyBounds(cfg *models.FrequencyConfig) (float64, float64) {
	lo, hi := defaultFrequencyMin, defaultFrequencyMax
	if cfg == nil {
		return lo, hi
	}
	if cfg.Min != nil {
		lo = *cfg.Min
	}
	if cfg.Max != nil {
		hi = *cfg.Max
	}
	return lo, hi
}

func clampScore(score float64) float64 {
	switch {
	case math.IsNaN(score):
		return MinScore
	case score < MinScore:
		return MinScore
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}
