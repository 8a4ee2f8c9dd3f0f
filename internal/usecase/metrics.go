package usecase

import (
	"sort"
	"time"

	"trendscout-backend/internal/domain"
)

// CalculateVelocity returns units sold per day over the trailing window.
// Needs at least two snapshots inside the window; zero elapsed time
// yields 0.
func CalculateVelocity(snapshots []domain.ProductSnapshot, days int, now time.Time) float64 {
	if len(snapshots) < 2 {
		return 0
	}

	cutoff := now.AddDate(0, 0, -days)
	var recent []domain.ProductSnapshot
	for _, s := range snapshots {
		if !s.Timestamp.Before(cutoff) {
			recent = append(recent, s)
		}
	}
	if len(recent) < 2 {
		return 0
	}

	sort.Slice(recent, func(i, j int) bool {
		return recent[i].Timestamp.Before(recent[j].Timestamp)
	})

	first := recent[0]
	last := recent[len(recent)-1]

	ordersDelta := float64(last.SoldCount - first.SoldCount)
	timeDelta := last.Timestamp.Sub(first.Timestamp).Hours() / 24

	if timeDelta == 0 {
		return 0
	}
	return ordersDelta / timeDelta
}

// CalculateAcceleration is the relative change between the short-window
// and long-window velocity. 0 when the long-window velocity is 0.
func CalculateAcceleration(velocityShort, velocityLong float64) float64 {
	if velocityLong == 0 {
		return 0
	}
	return (velocityShort - velocityLong) / velocityLong
}

// CalculateDiscountRate is (original-current)/original, 0 when the
// original price is unknown.
func CalculateDiscountRate(currentPrice, originalPrice float64) float64 {
	if originalPrice == 0 {
		return 0
	}
	return (originalPrice - currentPrice) / originalPrice
}

// CalculateStockStability is the in-stock fraction over the observed
// snapshots. 1.0 = always in stock; an empty history counts as stable.
func CalculateStockStability(snapshots []domain.ProductSnapshot) float64 {
	if len(snapshots) == 0 {
		return 1.0
	}

	inStock := 0
	for _, s := range snapshots {
		if s.InStock {
			inStock++
		}
	}
	return float64(inStock) / float64(len(snapshots))
}

// windowDelta returns last-first of the extracted counter over snapshots
// within the trailing window, in chronological order.
func windowDelta(snapshots []domain.ProductSnapshot, days int, now time.Time, value func(domain.ProductSnapshot) int64) float64 {
	cutoff := now.AddDate(0, 0, -days)
	var recent []domain.ProductSnapshot
	for _, s := range snapshots {
		if !s.Timestamp.Before(cutoff) {
			recent = append(recent, s)
		}
	}
	if len(recent) < 2 {
		return 0
	}

	sort.Slice(recent, func(i, j int) bool {
		return recent[i].Timestamp.Before(recent[j].Timestamp)
	})
	return float64(value(recent[len(recent)-1]) - value(recent[0]))
}

// CalculateOrdersDelta is the sold-count change over the trailing window.
func CalculateOrdersDelta(snapshots []domain.ProductSnapshot, days int, now time.Time) float64 {
	return windowDelta(snapshots, days, now, func(s domain.ProductSnapshot) int64 { return s.SoldCount })
}

// CalculateReviewsDelta is the review-count change over the trailing window.
func CalculateReviewsDelta(snapshots []domain.ProductSnapshot, days int, now time.Time) float64 {
	return windowDelta(snapshots, days, now, func(s domain.ProductSnapshot) int64 { return s.ReviewCount })
}

// CalculateDaysTracked is the span between the oldest and newest
// snapshot, in days.
func CalculateDaysTracked(snapshots []domain.ProductSnapshot) float64 {
	if len(snapshots) < 2 {
		return 0
	}

	oldest := snapshots[0].Timestamp
	newest := snapshots[0].Timestamp
	for _, s := range snapshots[1:] {
		if s.Timestamp.Before(oldest) {
			oldest = s.Timestamp
		}
		if s.Timestamp.After(newest) {
			newest = s.Timestamp
		}
	}
	return newest.Sub(oldest).Hours() / 24
}
