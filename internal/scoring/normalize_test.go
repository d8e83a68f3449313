package scoring

import (
	"math"
	"testing"

	"maturity-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func freqRange(lo, hi float64) *models.FrequencyConfig {
	return &models.FrequencyConfig{Min: floatPtr(lo), Max: floatPtr(hi), Type: "count"}
}

// ==========================
// Coverage
// ==========================

func TestNormalize_Coverage(t *testing.T) {
	tests := []struct {
		name     string
		resp     *models.Response
		expected float64
	}{
		{"true scores full", &models.Response{CoverageValue: boolPtr(true)}, 100},
		{"false scores zero", &models.Response{CoverageValue: boolPtr(false)}, 0},
		{"missing field scores zero", &models.Response{}, 0},
		{"nil response scores zero", nil, 0},
		{"other category fields ignored", &models.Response{DepthLevel: intPtr(4), FrequencyValue: floatPtr(90)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := Normalize(tt.resp, models.IndicatorCategoryCoverage, nil)
			assert.Equal(t, tt.expected, score)
		})
	}
}

func TestNormalize_CoverageIsBinary(t *testing.T) {
	for _, v := range []bool{true, false} {
		score := NormalizeCoverage(v)
		assert.Contains(t, []float64{0, 100}, score)
	}
}

// ==========================
// Frequency
// ==========================

func TestNormalize_Frequency(t *testing.T) {
	tests := []struct {
		name     string
		value    *float64
		cfg      *models.FrequencyConfig
		expected float64
	}{
		{"default range passthrough", floatPtr(30), nil, 30},
		{"default range clamps above", floatPtr(250), nil, 100},
		{"default range clamps below", floatPtr(-5), nil, 0},
		{"custom range midpoint", floatPtr(15), freqRange(10, 20), 50},
		{"custom range above max", floatPtr(25), freqRange(10, 20), 100},
		{"custom range below min", floatPtr(5), freqRange(10, 20), 0},
		{"only min configured", floatPtr(75), &models.FrequencyConfig{Min: floatPtr(50)}, 50},
		{"only max configured", floatPtr(5), &models.FrequencyConfig{Max: floatPtr(10)}, 50},
		{"max equals min", floatPtr(10), freqRange(10, 10), 0},
		{"max below min", floatPtr(10), freqRange(20, 10), 0},
		{"missing value", nil, freqRange(0, 10), 0},
		{"unit and step do not matter", floatPtr(3), &models.FrequencyConfig{
			Min: floatPtr(0), Max: floatPtr(12), Type: "monthly", Unit: "sessions", Step: floatPtr(1),
		}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &models.Response{IndicatorID: "f1", FrequencyValue: tt.value}
			score := Normalize(resp, models.IndicatorCategoryFrequency, tt.cfg)
			assert.InDelta(t, tt.expected, score, 1e-9)
		})
	}
}

func TestNormalize_FrequencyIsLinearInsideRange(t *testing.T) {
	cfg := freqRange(0, 40)
	prev := -1.0
	for v := 0.0; v <= 40; v += 4 {
		score := NormalizeFrequency(v, cfg)
		assert.InDelta(t, v/40*100, score, 1e-9)
		assert.Greater(t, score, prev)
		prev = score
	}
}

func TestNormalize_FrequencyRejectsNaN(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeFrequency(math.NaN(), nil))
	assert.Equal(t, 100.0, NormalizeFrequency(math.Inf(1), nil))
	assert.Equal(t, 0.0, NormalizeFrequency(10, &models.FrequencyConfig{Min: floatPtr(math.NaN())}))
}

// ==========================
// Depth
// ==========================

func TestNormalize_Depth(t *testing.T) {
	tests := []struct {
		level    int
		expected float64
	}{
		{-1, 0},
		{0, 0},
		{1, 25},
		{2, 50},
		{3, 75},
		{4, 100},
		{5, 100},
	}

	for _, tt := range tests {
		resp := &models.Response{DepthLevel: intPtr(tt.level)}
		assert.Equal(t, tt.expected, Normalize(resp, models.IndicatorCategoryDepth, nil), "level %d", tt.level)
	}

	assert.Equal(t, 0.0, Normalize(&models.Response{}, models.IndicatorCategoryDepth, nil))
}

// ==========================
// Category Dispatch
// ==========================

func TestNormalize_UnknownCategoryScoresZero(t *testing.T) {
	resp := &models.Response{
		CoverageValue:  boolPtr(true),
		FrequencyValue: floatPtr(100),
		DepthLevel:     intPtr(4),
	}

	assert.Equal(t, 0.0, Normalize(resp, "binary", nil))
	assert.Equal(t, 0.0, Normalize(resp, "", nil))
	assert.Equal(t, CategoryUnknown, ParseCategory("Coverage"))
}

func TestAnswerFor(t *testing.T) {
	resp := &models.Response{
		CoverageValue:  boolPtr(true),
		FrequencyValue: floatPtr(7),
		DepthLevel:     intPtr(2),
	}

	assert.Equal(t, CoverageAnswer{Present: true}, AnswerFor(resp, CategoryCoverage))
	assert.Equal(t, FrequencyAnswer{Value: 7}, AnswerFor(resp, CategoryFrequency))
	assert.Equal(t, DepthAnswer{Level: 2}, AnswerFor(resp, CategoryDepth))
	assert.Equal(t, Unanswered{}, AnswerFor(resp, CategoryUnknown))
	assert.Equal(t, Unanswered{}, AnswerFor(nil, CategoryDepth))
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "coverage", CategoryCoverage.String())
	assert.Equal(t, "frequency", CategoryFrequency.String())
	assert.Equal(t, "depth", CategoryDepth.String())
	assert.Equal(t, "unknown", CategoryUnknown.String())
}

func TestNormalize_AlwaysInRange(t *testing.T) {
	values := []float64{-1e9, -1, 0, 0.5, 50, 99.99, 100, 1e9}
	for _, v := range values {
		score := NormalizeFrequency(v, freqRange(-10, 10))
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	}
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkNormalize(b *testing.B) {
	resp := &models.Response{FrequencyValue: floatPtr(42)}
	cfg := freqRange(0, 60)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Normalize(resp, models.IndicatorCategoryFrequency, cfg)
	}
}
