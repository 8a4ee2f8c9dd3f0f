package usecase

import (
	"fmt"
	"math"
	"strings"

	"trendscout-backend/internal/domain"
	"trendscout-backend/internal/infrastructure/statistics"
)

// Trend score feature weights. Structural invariants of the model, not
// runtime parameters. They sum to 1.0.
const (
	weightOrders       = 0.45
	weightAcceleration = 0.20
	weightDiscount     = 0.15
	weightReviews      = 0.10
	weightStock        = 0.10
)

// CalculateTrendScore converts one product's raw feature deltas into a
// bounded [0,100] trend score via z-score normalization against the
// population statistics.
//
// Stock stability is inverted before z-scoring: products that keep
// selling out read as more trend-worthy, not less.
func CalculateTrendScore(obs domain.FeatureObservation, stats domain.PopulationStats) float64 {
	zOrders := statistics.ZScore(obs.Orders3dDelta, stats.Orders3d.Mean, stats.Orders3d.Std)
	zAccel := statistics.ZScore(obs.Acceleration, stats.Acceleration.Mean, stats.Acceleration.Std)
	zDiscount := statistics.ZScore(obs.PriceDiscountRate, stats.Discount.Mean, stats.Discount.Std)
	zReviews := statistics.ZScore(obs.Reviews3dDelta, stats.Reviews3d.Mean, stats.Reviews3d.Std)

	stockInstability := 1.0 - obs.StockStability
	zStock := statistics.ZScore(stockInstability, stats.Stock.Mean, stats.Stock.Std)

	weighted := zOrders*weightOrders +
		zAccel*weightAcceleration +
		zDiscount*weightDiscount +
		zReviews*weightReviews +
		zStock*weightStock

	// Weighted z-sums land in roughly [-3, +3] for a typical population;
	// anything beyond that saturates at the bounds.
	normalized := ((weighted + 3) / 6) * 100
	return math.Max(0, math.Min(100, normalized))
}

// ClassifyTrend assigns a trend category from raw thresholds.
// Rules are evaluated in priority order; first match wins.
// Moderate performers that match nothing fall back to sustained.
func ClassifyTrend(orders3dDelta, acceleration, discountRate, velocity3d float64) domain.TrendCategory {
	// Breakout: high recent growth with positive acceleration
	if orders3dDelta > 500 && acceleration > 0.3 {
		return domain.TrendBreakout
	}

	// Discount-driven: significant price drop with decent velocity
	if discountRate > 0.25 && velocity3d > 50 {
		return domain.TrendDiscountDriven
	}

	// Sustained: consistent velocity without major spikes
	if velocity3d > 100 && math.Abs(acceleration) < 0.2 {
		return domain.TrendSustained
	}

	return domain.TrendSustained
}

// CalculateConfidence scores data reliability in [0,1] from snapshot
// density and days tracked. Ideal coverage is hourly snapshots over a
// week (168 snapshots, 7 days).
func CalculateConfidence(snapshotCount int, daysTracked float64) float64 {
	const (
		idealSnapshots = 24 * 7
		idealDays      = 7
	)

	snapshotScore := math.Min(float64(snapshotCount)/idealSnapshots, 1.0)
	daysScore := math.Min(daysTracked/idealDays, 1.0)

	return snapshotScore*0.6 + daysScore*0.4
}

// CalculateViabilityGrade maps the trend score, adjusted for rating,
// social proof and data confidence, onto the A+..E grade ladder.
func CalculateViabilityGrade(trendScore, rating float64, reviewCount int64, confidenceScore float64) domain.ViabilityGrade {
	score := trendScore

	// Rating adjustment (0-5 scale)
	if rating >= 4.5 {
		score += 10
	} else if rating >= 4.0 {
		score += 5
	} else if rating < 3.5 {
		score -= 10
	}

	// Social proof
	if reviewCount > 1000 {
		score += 5
	} else if reviewCount < 50 {
		score -= 5
	}

	// Thin data
	if confidenceScore < 0.5 {
		score -= 10
	}

	switch {
	case score >= 85:
		return domain.GradeAPlus
	case score >= 75:
		return domain.GradeA
	case score >= 70:
		return domain.GradeAMinus
	case score >= 65:
		return domain.GradeBPlus
	case score >= 60:
		return domain.GradeB
	case score >= 55:
		return domain.GradeBMinus
	case score >= 50:
		return domain.GradeCPlus
	case score >= 45:
		return domain.GradeC
	case score >= 40:
		return domain.GradeCMinus
	case score >= 30:
		return domain.GradeD
	default:
		return domain.GradeE
	}
}

// GenerateViabilitySummary assembles the human-readable grade summary
// from the product's momentum, price and review signals.
// "low saturation" is a fixed placeholder until a real market-saturation
// signal exists.
func GenerateViabilitySummary(product *domain.Product) string {
	var parts []string

	if product.Orders3dDelta > 500 {
		parts = append(parts, "strong 3d momentum")
	} else if product.Orders3dDelta > 100 {
		parts = append(parts, "moderate momentum")
	}

	if product.PriceDiscountRate < 0.1 {
		parts = append(parts, "stable price")
	} else if product.PriceDiscountRate > 0.3 {
		parts = append(parts, "heavy discount")
	}

	if product.Reviews3dDelta > 50 {
		parts = append(parts, "strong review growth")
	} else if product.Reviews3dDelta < 10 {
		parts = append(parts, "watch review growth")
	}

	parts = append(parts, "low saturation")

	grade := product.ViabilityGrade
	if grade == "" {
		grade = domain.GradeC
	}
	return fmt.Sprintf("%s: %s.", grade, strings.Join(parts, ", "))
}

// OpportunityParams are the inputs to the opportunity score.
// Velocity is carried for contract completeness but does not contribute
// to the formula.
type OpportunityParams struct {
	TrendScore     float64
	CommissionRate float64
	Acceleration   float64
	Rating         float64
	SoldCount      int64
	DiscountRate   float64
	Velocity       float64
}

// CalculateOpportunityScore blends monetization and competition factors
// into a 0-100 "should I start selling this now" score. Distinct model
// from the trend score: commission and market saturation matter here.
//
// Sub-scores: trending momentum 0-30, commission 0-20, growth 0-20,
// quality 0-15, saturation bonus 0-10, discount 0-5.
func CalculateOpportunityScore(p OpportunityParams) int {
	trendingPoints := math.Min(30, (p.TrendScore/100)*30)

	// 2 points per percentage point of commission, capped at 10%.
	commissionPoints := math.Min(20, p.CommissionRate*100*2)

	growthPoints := math.Min(20, (p.Acceleration/3)*20)

	qualityPoints := (p.Rating / 5) * 15

	// Lower sold count = less competition = higher opportunity.
	var saturationPoints float64
	switch {
	case p.SoldCount < 10000:
		saturationPoints = 10
	case p.SoldCount < 50000:
		saturationPoints = 7
	case p.SoldCount < 100000:
		saturationPoints = 4
	default:
		saturationPoints = 2
	}

	discountPoints := math.Min(5, p.DiscountRate*10)

	total := trendingPoints + commissionPoints + growthPoints +
		qualityPoints + saturationPoints + discountPoints

	return int(math.Round(math.Min(100, math.Max(0, total))))
}
