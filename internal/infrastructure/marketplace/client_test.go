package marketplace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSearchProducts(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{
			"code": 0,
			"data": {
				"products": [
					{
						"product_id": "123",
						"product_name": "LED Strip Lights",
						"price": {"currency": "USD", "sale_price": 12.99, "original_price": 19.99},
						"sales": 45000,
						"rating": 4.7,
						"review_count": 3200,
						"category": {"id": "c1", "name": "Home & Garden"},
						"shop": {"id": "s1", "name": "BrightHome"},
						"stock_info": {"available": true},
						"commission_rate": 0.15,
						"has_affiliate": true
					}
				],
				"total": 1,
				"has_more": false
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient("US", srv.URL, "test-token")
	listings, err := c.SearchProducts(context.Background(), "Home & Garden", 1, 50)
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if !strings.Contains(gotQuery, "page_size=50") {
		t.Errorf("expected page_size in query, got %q", gotQuery)
	}

	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	l := listings[0]
	if l.ProductID != "123" || l.Price.SalePrice != 12.99 || l.Sales != 45000 {
		t.Fatalf("listing mismatch: %+v", l)
	}
}

func TestSearchProducts_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 105001, "message": "invalid access token"}`))
	}))
	defer srv.Close()

	c := NewClient("US", srv.URL, "bad-token")
	if _, err := c.SearchProducts(context.Background(), "Pets", 1, 10); err == nil {
		t.Fatal("expected error for non-zero response code")
	}
}

func TestSearchProducts_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("US", srv.URL, "token")
	if _, err := c.SearchProducts(context.Background(), "Pets", 1, 10); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestToProduct(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	var l Listing
	l.ProductID = "123"
	l.ProductName = "LED Strip Lights"
	l.Price.SalePrice = 12.99
	l.Price.OriginalPrice = 19.99
	l.Sales = 45000
	l.Rating = 4.7
	l.ReviewCount = 3200
	l.Category.Name = "Home & Garden"
	l.Shop.ID = "s1"
	l.Shop.Name = "BrightHome"
	l.StockInfo.Available = true
	l.CommissionRate = 0.15
	l.HasAffiliate = true

	p := ToProduct(l, "US", now)

	if p.ID != "123" || p.Title != "LED Strip Lights" {
		t.Fatalf("identity mismatch: %+v", p)
	}
	if p.CurrentPrice != 12.99 || p.OriginalPrice != 19.99 {
		t.Fatalf("price mismatch: %+v", p)
	}
	if p.Country != "US" || p.Category != "Home & Garden" || p.ShopName != "BrightHome" {
		t.Fatalf("metadata mismatch: %+v", p)
	}
	if !p.FirstSeen.Equal(now) || !p.LastUpdated.Equal(now) {
		t.Fatalf("timestamps mismatch: %+v", p)
	}

	// Trend fields start zeroed; the tracker fills them.
	if p.TrendScore != 0 || p.TrendCategory != "" || p.OpportunityScore != 0 {
		t.Fatalf("trend fields must start zero: %+v", p)
	}

	snap := ToSnapshot(l, now)
	if snap.Price != 12.99 || snap.SoldCount != 45000 || !snap.InStock {
		t.Fatalf("snapshot mismatch: %+v", snap)
	}
}

func TestGenerateMockListings_Reproducible(t *testing.T) {
	a := GenerateMockListings(10, 7)
	b := GenerateMockListings(10, 7)

	if len(a) != 10 || len(b) != 10 {
		t.Fatalf("expected 10 listings, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Price.SalePrice != b[i].Price.SalePrice || a[i].Sales != b[i].Sales {
			t.Fatalf("same seed must produce identical catalogs, diverged at %d", i)
		}
	}

	for _, l := range a {
		if l.Price.SalePrice <= 0 || l.Price.OriginalPrice < l.Price.SalePrice {
			t.Errorf("implausible pricing: %+v", l.Price)
		}
		if l.Rating < 4.3 || l.Rating > 4.9 {
			t.Errorf("rating out of band: %f", l.Rating)
		}
		if l.CommissionRate < 0.08 || l.CommissionRate > 0.20 {
			t.Errorf("commission out of band: %f", l.CommissionRate)
		}
	}
}

func TestMockSource_StableIDs(t *testing.T) {
	src := &MockSource{Seed: 1}
	ctx := context.Background()

	first, err := src.SearchProducts(ctx, "Electronics", 1, 5)
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	second, err := src.SearchProducts(ctx, "Electronics", 1, 5)
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}

	for i := range first {
		if first[i].ProductID != second[i].ProductID {
			t.Fatalf("IDs must be stable across calls: %s vs %s", first[i].ProductID, second[i].ProductID)
		}
		if first[i].Category.Name != "Electronics" {
			t.Fatalf("category override missing: %+v", first[i])
		}
	}

	other, _ := src.SearchProducts(ctx, "Pets", 1, 5)
	if other[0].ProductID == first[0].ProductID {
		t.Fatal("different categories must not share product IDs")
	}
}
