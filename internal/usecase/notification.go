package usecase

import (
	"context"
	"fmt"
	"time"

	"trendscout-backend/internal/domain"
)

// Alerting thresholds. Breakouts always alert; anything else needs a
// strong opportunity score.
const (
	alertOpportunityScore = 80
	alertCooldown         = 6 * time.Hour
)

// sendTrendAlerts pushes FCM notifications for breakout and
// high-opportunity products, respecting a per-product cooldown and the
// per-device category subscriptions.
func (uc *TrackerUsecase) sendTrendAlerts(ctx context.Context, products []domain.Product) {
	if uc.fcmClient == nil || !uc.fcmClient.IsEnabled() || uc.tokenRepo == nil {
		return
	}

	now := time.Now()

	for _, p := range products {
		isBreakout := p.TrendCategory == domain.TrendBreakout
		if !isBreakout && p.OpportunityScore < alertOpportunityScore {
			continue
		}

		// Check cooldown
		uc.mu.RLock()
		lastNotified, exists := uc.notifiedProducts[p.ID]
		uc.mu.RUnlock()

		if exists && now.Sub(lastNotified) < alertCooldown {
			continue
		}

		tokens := uc.tokenRepo.TokensForCategory(p.Category)
		if len(tokens) == 0 {
			continue
		}

		var title string
		if isBreakout {
			title = fmt.Sprintf("🚀 Breakout: %s", p.Title)
		} else {
			title = fmt.Sprintf("🎯 Opportunity %d: %s", p.OpportunityScore, p.Title)
		}

		body := fmt.Sprintf("Trend %.0f | Grade %s | $%.2f | %d sold",
			p.TrendScore, p.ViabilityGrade, p.CurrentPrice, p.SoldCount)

		data := map[string]string{
			"product_id":        p.ID,
			"category":          p.Category,
			"trend_score":       fmt.Sprintf("%.2f", p.TrendScore),
			"trend_category":    string(p.TrendCategory),
			"opportunity_score": fmt.Sprintf("%d", p.OpportunityScore),
		}

		if err := uc.fcmClient.SendMulticast(ctx, tokens, title, body, data); err != nil {
			continue
		}

		uc.mu.Lock()
		uc.notifiedProducts[p.ID] = now
		uc.mu.Unlock()
	}
}
