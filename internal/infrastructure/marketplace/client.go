package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"trendscout-backend/internal/domain"
)

// Regional API hosts, mirroring the marketplace's open API regions.
var regionBaseURLs = map[string]string{
	"US":  "https://open.us.tiktokapis.com",
	"UK":  "https://open.uk.tiktokapis.com",
	"SEA": "https://open-api.tiktokglobalshop.com",
}

// Client talks to the marketplace product API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	region      string
}

// NewClient builds a client for the given region. baseURL overrides the
// regional default when non-empty (useful for tests and staging).
func NewClient(region, baseURL, accessToken string) *Client {
	if baseURL == "" {
		baseURL = regionBaseURLs[region]
		if baseURL == "" {
			baseURL = regionBaseURLs["US"]
		}
	}
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     baseURL,
		accessToken: accessToken,
		region:      region,
	}
}

// Listing is the wire shape of one marketplace product.
type Listing struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       struct {
		Currency      string  `json:"currency"`
		SalePrice     float64 `json:"sale_price"`
		OriginalPrice float64 `json:"original_price"`
	} `json:"price"`
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
	Sales       int64   `json:"sales"`
	Rating      float64 `json:"rating"`
	ReviewCount int64   `json:"review_count"`
	Category    struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"category"`
	Shop struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"shop"`
	StockInfo struct {
		Available bool `json:"available"`
	} `json:"stock_info"`
	CommissionRate float64 `json:"commission_rate"`
	HasAffiliate   bool    `json:"has_affiliate"`
}

type searchResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Products []Listing `json:"products"`
		Total    int       `json:"total"`
		HasMore  bool      `json:"has_more"`
	} `json:"data"`
}

// SearchProducts returns one page of listings for a category.
func (c *Client) SearchProducts(ctx context.Context, category string, page, pageSize int) ([]Listing, error) {
	if pageSize <= 0 {
		pageSize = 50
	}
	if page <= 0 {
		page = 1
	}

	q := url.Values{}
	q.Set("category", category)
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("page_size", fmt.Sprintf("%d", pageSize))
	q.Set("sort_by", "sales")

	endpoint := fmt.Sprintf("%s/product/search?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("marketplace API error: %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}
	if sr.Code != 0 {
		return nil, fmt.Errorf("marketplace API error %d: %s", sr.Code, sr.Message)
	}
	return sr.Data.Products, nil
}

// ToProduct maps a listing into a new Product record.
// Trend fields stay zero; the tracker fills them after scoring.
// Missing numerics default to zero here so the core never coerces.
func ToProduct(l Listing, region string, now time.Time) domain.Product {
	imageURL := ""
	if len(l.Images) > 0 {
		imageURL = l.Images[0].URL
	}

	return domain.Product{
		ID:                  l.ProductID,
		Title:               l.ProductName,
		ImageURL:            imageURL,
		Category:            l.Category.Name,
		ShopID:              l.Shop.ID,
		ShopName:            l.Shop.Name,
		Country:             region,
		CurrentPrice:        l.Price.SalePrice,
		OriginalPrice:       l.Price.OriginalPrice,
		SoldCount:           l.Sales,
		Rating:              l.Rating,
		ReviewCount:         l.ReviewCount,
		InStock:             l.StockInfo.Available,
		ProductURL:          fmt.Sprintf("https://www.tiktok.com/view/product/%s", l.ProductID),
		ShopURL:             fmt.Sprintf("https://www.tiktok.com/@%s", l.Shop.ID),
		CommissionRate:      l.CommissionRate,
		HasAffiliateProgram: l.HasAffiliate,
		FirstSeen:           now,
		LastUpdated:         now,
	}
}

// ToSnapshot maps a listing into a point-in-time snapshot.
func ToSnapshot(l Listing, now time.Time) domain.ProductSnapshot {
	return domain.ProductSnapshot{
		Timestamp:     now,
		Price:         l.Price.SalePrice,
		OriginalPrice: l.Price.OriginalPrice,
		SoldCount:     l.Sales,
		Rating:        l.Rating,
		ReviewCount:   l.ReviewCount,
		InStock:       l.StockInfo.Available,
	}
}
