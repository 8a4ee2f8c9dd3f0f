package statistics

import (
	"math"

	"trendscout-backend/internal/domain"
)

// MaxSampleSize caps how many observations feed the population statistics.
// Keeps the aggregation cost bounded no matter how many products are tracked.
const MaxSampleSize = 1000

// Aggregate computes per-feature population statistics over the given
// observations. An empty sample yields {mean 0, std 1} for every feature,
// and any feature whose computed std is 0 gets std 1, so downstream
// z-score division is always safe.
func Aggregate(observations []domain.FeatureObservation) domain.PopulationStats {
	if len(observations) > MaxSampleSize {
		observations = observations[:MaxSampleSize]
	}

	n := len(observations)
	orders := make([]float64, n)
	accels := make([]float64, n)
	discounts := make([]float64, n)
	reviews := make([]float64, n)
	stocks := make([]float64, n)

	for i, obs := range observations {
		orders[i] = obs.Orders3dDelta
		accels[i] = obs.Acceleration
		discounts[i] = obs.PriceDiscountRate
		reviews[i] = obs.Reviews3dDelta
		stocks[i] = obs.StockStability
	}

	return domain.PopulationStats{
		Orders3d:     calcStats(orders),
		Acceleration: calcStats(accels),
		Discount:     calcStats(discounts),
		Reviews3d:    calcStats(reviews),
		Stock:        calcStats(stocks),
	}
}

// calcStats returns the arithmetic mean and population standard deviation
// (divide by N) of values, with the zero-std / empty-set guards applied.
func calcStats(values []float64) domain.FeatureStats {
	if len(values) == 0 {
		return domain.FeatureStats{Mean: 0, Std: 1}
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))

	std := math.Sqrt(variance)
	if std == 0 {
		std = 1
	}
	return domain.FeatureStats{Mean: mean, Std: std}
}

// ZScore measures how many standard deviations value sits from mean.
// A zero std yields 0 rather than dividing by zero.
func ZScore(value, mean, std float64) float64 {
	if std == 0 {
		return 0
	}
	return (value - mean) / std
}
