package scoring

import (
	"errors"
	"fmt"
	"math"

	"maturity-workers/internal/models"
)

const (
	MinLevel = 0
	MaxLevel = 4
)

var ErrInvalidThresholds = errors.New("invalid level thresholds")

// Thresholds are the lower bounds of levels 1 through 4. Each classifier call
// receives them explicitly.
type Thresholds struct {
	Emerging     float64
	Developing   float64
	Advanced     float64
	Consolidated float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Emerging:     12.5,
		Developing:   37.5,
		Advanced:     62.5,
		Consolidated: 87.5,
	}
}

// ThresholdsFromModel converts the wire table. An all-zero table is treated
// as absent and yields the defaults.
func ThresholdsFromModel(lt models.LevelThresholds) Thresholds {
	if lt == (models.LevelThresholds{}) {
		return DefaultThresholds()
	}
	return Thresholds{
		Emerging:     lt.Emerging,
		Developing:   lt.Developing,
		Advanced:     lt.Advanced,
		Consolidated: lt.Consolidated,
	}
}

// ThresholdsFromConfig returns the override carried by cfg, or the defaults
// when cfg is nil.
func ThresholdsFromConfig(cfg *models.ScoringConfig) Thresholds {
	if cfg == nil {
		return DefaultThresholds()
	}
	return ThresholdsFromModel(cfg.LevelThresholds)
}

func (t Thresholds) ToModel() models.LevelThresholds {
	return models.LevelThresholds{
		Consolidated: t.Consolidated,
		Advanced:     t.Advanced,
		Developing:   t.Developing,
		Emerging:     t.Emerging,
	}
}

// Validate reports whether the table is strictly ascending inside [0,100].
// ScoreToLevel does not call it; a malformed table classifies in band order.
func (t Thresholds) Validate() error {
	bounds := []struct {
		name  string
		value float64
	}{
		{"emerging", t.Emerging},
		{"developing", t.Developing},
		{"advanced", t.Advanced},
		{"consolidated", t.Consolidated},
	}

	for i, b := range bounds {
		if math.IsNaN(b.value) || b.value < MinScore || b.value > MaxScore {
			return fmt.Errorf("%w: %s=%v outside [0,100]", ErrInvalidThresholds, b.name, b.value)
		}
		if i > 0 && b.value <= bounds[i-1].value {
			return fmt.Errorf("%w: %s=%v must be greater than %s=%v",
				ErrInvalidThresholds, b.name, b.value, bounds[i-1].name, bounds[i-1].value)
		}
	}
	return nil
}

// ScoreToLevel classifies a 0..100 score, checking the most senior band
// first. A score equal to a threshold belongs to the higher band.
func ScoreToLevel(score float64, t Thresholds) int {
	switch {
	case math.IsNaN(score):
		return MinLevel
	case score >= t.Consolidated:
		return 4
	case score >= t.Advanced:
		return 3
	case score >= t.Developing:
		return 2
	case score >= t.Emerging:
		return 1
	default:
		return 0
	}
}

// LevelToScoreRange returns the score band of a level. Levels outside the
// scale yield the zero range.
func LevelToScoreRange(level int, t Thresholds) models.ScoreRange {
	switch level {
	case 0:
		return models.ScoreRange{Min: MinScore, Max: t.Emerging}
	case 1:
		return models.ScoreRange{Min: t.Emerging, Max: t.Developing}
	case 2:
		return models.ScoreRange{Min: t.Developing, Max: t.Advanced}
	case 3:
		return models.ScoreRange{Min: t.Advanced, Max: t.Consolidated}
	case 4:
		return models.ScoreRange{Min: t.Consolidated, Max: MaxScore}
	default:
		return models.ScoreRange{}
	}
}

var levelLabels = [...]string{
	"No iniciado",
	"Emergente",
	"En desarrollo",
	"Avanzado",
	"Consolidado",
}

const unknownLevelLabel = "Desconocido"

// LevelLabel returns the display label for a level.
func LevelLabel(level int) string {
	if level < MinLevel || level > MaxLevel {
		return unknownLevelLabel
	}
	return levelLabels[level]
}

// ClampLevel forces a level onto the 0..4 scale.
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// LevelFromScore is the depth-inverse mapping round(score/100*4), applied to
// a normalized score of any category.
func LevelFromScore(score float64) int {
	if math.IsNaN(score) {
		return MinLevel
	}
	return ClampLevel(int(math.Floor(score/MaxScore*MaxLevel + 0.5)))
}
