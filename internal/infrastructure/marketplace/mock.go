package marketplace

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

var mockCategories = []string{
	"Beauty & Personal Care",
	"Fashion & Accessories",
	"Home & Garden",
	"Electronics",
	"Health & Fitness",
	"Toys & Hobbies",
	"Sports & Outdoors",
	"Baby & Kids",
	"Food & Beverages",
	"Pets",
}

type mockTemplate struct {
	name     string
	priceMin float64
	priceMax float64
	salesMin int64
	salesMax int64
}

var mockTemplates = []mockTemplate{
	{"Trending", 10, 50, 20000, 100000},
	{"Viral", 15, 60, 50000, 200000},
	{"Hot Item", 20, 80, 30000, 150000},
	{"Best Seller", 12, 45, 40000, 180000},
}

// GenerateMockListings produces a synthetic catalog for populate/dev
// runs, shaped like real marketplace search results. The rng seed makes
// test catalogs reproducible.
func GenerateMockListings(count int, seed int64) []Listing {
	rng := rand.New(rand.NewSource(seed))
	now := time.Now().UnixNano()

	listings := make([]Listing, 0, count)
	for i := 0; i < count; i++ {
		tpl := mockTemplates[i%len(mockTemplates)]
		category := mockCategories[i%len(mockCategories)]

		price := tpl.priceMin + rng.Float64()*(tpl.priceMax-tpl.priceMin)
		originalPrice := price * (1 + rng.Float64()*0.5)
		sales := tpl.salesMin + rng.Int63n(tpl.salesMax-tpl.salesMin)
		reviews := int64(float64(sales) * (0.05 + rng.Float64()*0.15))

		var l Listing
		l.ProductID = fmt.Sprintf("mock-%d-%d", now, i)
		l.ProductName = fmt.Sprintf("%s %s Product %d", tpl.name, category, i+1)
		l.Price.Currency = "USD"
		l.Price.SalePrice = round2(price)
		l.Price.OriginalPrice = round2(originalPrice)
		l.Images = []struct {
			URL string `json:"url"`
		}{{URL: fmt.Sprintf("https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400&sig=%d", i)}}
		l.Sales = sales
		l.Rating = 4.3 + rng.Float64()*0.6
		l.ReviewCount = reviews
		l.Category.ID = fmt.Sprintf("cat_%d", i%len(mockCategories))
		l.Category.Name = category
		l.Shop.ID = fmt.Sprintf("shop_%d", i%20)
		l.Shop.Name = fmt.Sprintf("Shop %d", i%20)
		l.StockInfo.Available = rng.Float64() > 0.1
		l.CommissionRate = 0.08 + rng.Float64()*0.12 // 8-20% commission
		l.HasAffiliate = true

		listings = append(listings, l)
	}
	return listings
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

// MockSource serves the synthetic catalog through the same interface as
// the real API client, for local runs and the populate endpoint.
type MockSource struct {
	Seed int64
}

func (m *MockSource) SearchProducts(_ context.Context, category string, page, pageSize int) ([]Listing, error) {
	if pageSize <= 0 {
		pageSize = 50
	}

	seed := m.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Stable IDs per category so repeated cycles accumulate snapshot
	// history instead of minting new products every time.
	listings := GenerateMockListings(pageSize, seed+int64(hashCategory(category))+int64(page))
	for i := range listings {
		listings[i].Category.Name = category
		listings[i].ProductID = fmt.Sprintf("mock-%s-%d", slug(category), i)
		listings[i].ProductName = fmt.Sprintf("%s Product %d", category, i+1)
	}
	return listings, nil
}

func hashCategory(category string) uint32 {
	var h uint32
	for _, c := range category {
		h = h*31 + uint32(c)
	}
	return h
}

func slug(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			out = append(out, c)
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		case c == ' ', c == '&', c == '-':
			// dropped
		default:
		}
	}
	return string(out)
}
