// Package scoring turns raw assessment answers into normalized scores,
// weighted module and assessment totals, and discrete maturity levels.
//
// Every function in this package is pure. Malformed input degrades to a
// score or level of zero instead of returning an error; validation belongs
// to the callers that accept input from the outside.
package scoring

import "maturity-workers/internal/models"

// Category is the closed set of indicator answer shapes.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryCoverage
	CategoryFrequency
	CategoryDepth
)

// ParseCategory maps a wire tag to a Category. Unrecognized tags map to
// CategoryUnknown, which always scores 0.
func ParseCategory(tag models.IndicatorCategory) Category {
	switch tag {
	case models.IndicatorCategoryCoverage:
		return CategoryCoverage
	case models.IndicatorCategoryFrequency:
		return CategoryFrequency
	case models.IndicatorCategoryDepth:
		return CategoryDepth
	default:
		return CategoryUnknown
	}
}

func (c Category) String() string {
	switch c {
	case CategoryCoverage:
		return string(models.IndicatorCategoryCoverage)
	case CategoryFrequency:
		return string(models.IndicatorCategoryFrequency)
	case CategoryDepth:
		return string(models.IndicatorCategoryDepth)
	default:
		return "unknown"
	}
}

// Answer is one response value lifted out of the wire Response. Exactly one
// variant is produced per indicator, keyed by its category.
type Answer interface {
	isAnswer()
}

type CoverageAnswer struct {
	Present bool
}

type FrequencyAnswer struct {
	Value float64
}

type DepthAnswer struct {
	Level int
}

// Unanswered covers a missing response, a missing value field and an
// unknown category alike.
type Unanswered struct{}

func (CoverageAnswer) isAnswer()  {}
func (FrequencyAnswer) isAnswer() {}
func (DepthAnswer) isAnswer()     {}
func (Unanswered) isAnswer()      {}

// AnswerFor extracts the value field that matches the category. Fields that
// belong to other categories are ignored.
func AnswerFor(resp *models.Response, c Category) Answer {
	if resp == nil {
		return Unanswered{}
	}

	switch c {
	case CategoryCoverage:
		if resp.CoverageValue != nil {
			return CoverageAnswer{Present: *resp.CoverageValue}
		}
	case CategoryFrequency:
		if resp.FrequencyValue != nil {
			return FrequencyAnswer{Value: *resp.FrequencyValue}
		}
	case CategoryDepth:
		if resp.DepthLevel != nil {
			return DepthAnswer{Level: *resp.DepthLevel}
		}
	case CategoryUnknown:
	}

	return Unanswered{}
}
