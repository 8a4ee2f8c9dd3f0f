package statistics

import (
	"math"
	"testing"

	"trendscout-backend/internal/domain"
)

func TestAggregate_EmptySetDefaults(t *testing.T) {
	stats := Aggregate(nil)

	for name, fs := range map[string]domain.FeatureStats{
		"orders_3d":    stats.Orders3d,
		"acceleration": stats.Acceleration,
		"discount":     stats.Discount,
		"reviews_3d":   stats.Reviews3d,
		"stock":        stats.Stock,
	} {
		if fs.Mean != 0 {
			t.Errorf("%s: expected mean 0 for empty set, got %f", name, fs.Mean)
		}
		if fs.Std != 1 {
			t.Errorf("%s: expected std 1 for empty set, got %f", name, fs.Std)
		}
	}
}

func TestAggregate_ConstantFeatureGetsStdOne(t *testing.T) {
	// Every product has the same discount rate → computed std is 0,
	// which must be replaced by 1 to keep z-score division safe.
	obs := []domain.FeatureObservation{
		{Orders3dDelta: 100, PriceDiscountRate: 0.2},
		{Orders3dDelta: 300, PriceDiscountRate: 0.2},
		{Orders3dDelta: 500, PriceDiscountRate: 0.2},
	}

	stats := Aggregate(obs)

	if stats.Discount.Std != 1 {
		t.Errorf("expected std 1 for constant feature, got %f", stats.Discount.Std)
	}
	if math.Abs(stats.Discount.Mean-0.2) > 1e-9 {
		t.Errorf("expected mean 0.2, got %f", stats.Discount.Mean)
	}
}

func TestAggregate_PopulationStd(t *testing.T) {
	// Population std (divide by N): values 1 and 5 → mean 3, std 2.
	obs := []domain.FeatureObservation{
		{Orders3dDelta: 1},
		{Orders3dDelta: 5},
	}

	stats := Aggregate(obs)

	if math.Abs(stats.Orders3d.Mean-3) > 1e-9 {
		t.Errorf("expected mean 3, got %f", stats.Orders3d.Mean)
	}
	if math.Abs(stats.Orders3d.Std-2) > 1e-9 {
		t.Errorf("expected population std 2, got %f", stats.Orders3d.Std)
	}
}

func TestAggregate_NegativeDeltasAccepted(t *testing.T) {
	// Review purges produce negative deltas; the aggregator must not care.
	obs := []domain.FeatureObservation{
		{Reviews3dDelta: -10},
		{Reviews3dDelta: 10},
	}

	stats := Aggregate(obs)

	if stats.Reviews3d.Mean != 0 {
		t.Errorf("expected mean 0, got %f", stats.Reviews3d.Mean)
	}
	if math.Abs(stats.Reviews3d.Std-10) > 1e-9 {
		t.Errorf("expected std 10, got %f", stats.Reviews3d.Std)
	}
}

func TestAggregate_SampleCap(t *testing.T) {
	obs := make([]domain.FeatureObservation, MaxSampleSize+500)
	for i := range obs {
		obs[i] = domain.FeatureObservation{Orders3dDelta: 1}
	}
	// Push the tail outside the cap to a wild value; it must be ignored.
	obs[MaxSampleSize+100].Orders3dDelta = 1e9

	stats := Aggregate(obs)

	if stats.Orders3d.Mean != 1 {
		t.Errorf("expected capped sample mean 1, got %f", stats.Orders3d.Mean)
	}
}

func TestZScore(t *testing.T) {
	tests := []struct {
		name             string
		value, mean, std float64
		want             float64
	}{
		{"above mean", 150, 100, 25, 2},
		{"below mean", 50, 100, 25, -2},
		{"at mean", 100, 100, 25, 0},
		{"zero std returns zero", 500, 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ZScore(tt.value, tt.mean, tt.std)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ZScore(%f, %f, %f) = %f, want %f", tt.value, tt.mean, tt.std, got, tt.want)
			}
		})
	}
}
