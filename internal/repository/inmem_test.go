package repository

import (
	"context"
	"testing"
	"time"

	"trendscout-backend/internal/domain"
)

func storeProducts(t *testing.T, r *InMemoryProductRepository, products ...domain.Product) {
	t.Helper()
	ctx := context.Background()
	for i := range products {
		if err := r.SaveProduct(ctx, &products[i]); err != nil {
			t.Fatalf("SaveProduct: %v", err)
		}
	}
}

func TestInMemoryProductRepository_GetProduct(t *testing.T) {
	r := NewInMemoryProductRepository()
	ctx := context.Background()

	storeProducts(t, r, domain.Product{ID: "p1", Title: "Wireless Earbuds"})

	p, err := r.GetProduct(ctx, "p1")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p == nil || p.Title != "Wireless Earbuds" {
		t.Fatalf("unexpected product: %+v", p)
	}

	missing, err := r.GetProduct(ctx, "nope")
	if err != nil {
		t.Fatalf("GetProduct missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown id, got %+v", missing)
	}
}

func TestInMemoryProductRepository_Trending(t *testing.T) {
	r := NewInMemoryProductRepository()
	ctx := context.Background()

	storeProducts(t, r,
		domain.Product{ID: "a", Category: "Beauty & Personal Care", TrendCategory: domain.TrendBreakout, TrendScore: 90},
		domain.Product{ID: "b", Category: "Electronics", TrendCategory: domain.TrendSustained, TrendScore: 70},
		domain.Product{ID: "c", Category: "Electronics", TrendCategory: domain.TrendDiscountDriven, TrendScore: 40},
		domain.Product{ID: "d", Category: "Pets", TrendCategory: domain.TrendSustained, TrendScore: 55},
	)

	all, err := r.GetTrendingProducts(ctx, domain.TrendingQuery{})
	if err != nil {
		t.Fatalf("GetTrendingProducts: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 products, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].TrendScore < all[i].TrendScore {
			t.Fatalf("results not sorted by score: %f before %f", all[i-1].TrendScore, all[i].TrendScore)
		}
	}

	electronics, _ := r.GetTrendingProducts(ctx, domain.TrendingQuery{Category: "Electronics"})
	if len(electronics) != 2 {
		t.Fatalf("category filter: expected 2, got %d", len(electronics))
	}

	breakouts, _ := r.GetTrendingProducts(ctx, domain.TrendingQuery{TrendCategory: domain.TrendBreakout})
	if len(breakouts) != 1 || breakouts[0].ID != "a" {
		t.Fatalf("trend category filter: got %+v", breakouts)
	}

	hot, _ := r.GetTrendingProducts(ctx, domain.TrendingQuery{MinScore: 60})
	if len(hot) != 2 {
		t.Fatalf("min score filter: expected 2, got %d", len(hot))
	}

	limited, _ := r.GetTrendingProducts(ctx, domain.TrendingQuery{Limit: 1})
	if len(limited) != 1 || limited[0].ID != "a" {
		t.Fatalf("limit: got %+v", limited)
	}
}

func TestInMemoryProductRepository_Search(t *testing.T) {
	r := NewInMemoryProductRepository()
	ctx := context.Background()

	storeProducts(t, r,
		domain.Product{ID: "a", Title: "LED Strip Lights", TrendScore: 80},
		domain.Product{ID: "b", Title: "LED Desk Lamp", TrendScore: 60},
		domain.Product{ID: "c", Title: "Yoga Mat", TrendScore: 90},
	)

	leds, err := r.SearchProducts(ctx, "led", 10)
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if len(leds) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(leds))
	}
	if leds[0].ID != "a" {
		t.Fatalf("expected highest-scored match first, got %s", leds[0].ID)
	}

	none, _ := r.SearchProducts(ctx, "missing", 10)
	if len(none) != 0 {
		t.Fatalf("expected no matches, got %d", len(none))
	}
}

func TestInMemorySnapshotRepository_WindowFilter(t *testing.T) {
	r := NewInMemorySnapshotRepository()
	ctx := context.Background()
	now := time.Now()

	old := domain.ProductSnapshot{Timestamp: now.AddDate(0, 0, -30), SoldCount: 100}
	recent := domain.ProductSnapshot{Timestamp: now.AddDate(0, 0, -2), SoldCount: 200}

	if err := r.SaveSnapshot(ctx, "p1", old); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := r.SaveSnapshot(ctx, "p1", recent); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	window, err := r.GetSnapshots(ctx, "p1", 7)
	if err != nil {
		t.Fatalf("GetSnapshots: %v", err)
	}
	if len(window) != 1 || window[0].SoldCount != 200 {
		t.Fatalf("expected only the recent snapshot, got %+v", window)
	}

	all, _ := r.GetSnapshots(ctx, "p1", 0)
	if len(all) != 2 {
		t.Fatalf("expected full history for days=0, got %d", len(all))
	}

	empty, _ := r.GetSnapshots(ctx, "unknown", 7)
	if len(empty) != 0 {
		t.Fatalf("expected empty history for unknown product, got %d", len(empty))
	}
}

func TestTokenRepository(t *testing.T) {
	r := NewTokenRepository()

	r.RegisterToken("tok-all", "android", nil, time.Now().Unix())
	r.RegisterToken("tok-beauty", "ios", []string{"Beauty & Personal Care"}, time.Now().Unix())
	r.RegisterToken("tok-multi", "android", []string{"Electronics", "Pets"}, time.Now().Unix())

	if got := r.GetTokenCount(); got != 3 {
		t.Fatalf("expected 3 tokens, got %d", got)
	}

	beauty := r.TokensForCategory("Beauty & Personal Care")
	if len(beauty) != 2 {
		t.Fatalf("expected unfiltered + beauty tokens, got %v", beauty)
	}

	pets := r.TokensForCategory("Pets")
	if len(pets) != 2 {
		t.Fatalf("expected unfiltered + multi tokens, got %v", pets)
	}

	// Re-register updates in place
	r.RegisterToken("tok-beauty", "ios", nil, time.Now().Unix())
	if got := r.GetTokenCount(); got != 3 {
		t.Fatalf("expected 3 tokens after re-register, got %d", got)
	}

	r.UnregisterToken("tok-all")
	if got := r.GetTokenCount(); got != 2 {
		t.Fatalf("expected 2 tokens after unregister, got %d", got)
	}
}
