package scoring

import "math"

// WeightedScore is one (score, weight) pair fed to WeightedAverage.
type WeightedScore struct {
	Score  float64
	Weight float64
}

// WeightedAverage returns Σ(score·weight)/Σweight rounded half-up to two
// decimals. Empty input and a zero total weight both yield 0.
//
// The same routine rolls indicators into modules and modules into an
// assessment total.
func WeightedAverage(items []WeightedScore) float64 {
	if len(items) == 0 {
		return 0
	}

	var sum, totalWeight float64
	for _, item := range items {
		sum += item.Score * item.Weight
		totalWeight += item.Weight
	}

	if totalWeight == 0 {
		return 0
	}

	return Round2(sum / totalWeight)
}

// Round2 rounds half-up to two decimal places. Non-finite input yields 0.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return math.Floor(x*100+0.5) / 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return Round2(sum / float64(len(values)))
}
