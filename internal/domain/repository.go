package domain

import "context"

// ProductRepository stores scored products and answers trending queries.
type ProductRepository interface {
	SaveProduct(ctx context.Context, product *Product) error
	GetProduct(ctx context.Context, id string) (*Product, error)
	GetTrendingProducts(ctx context.Context, q TrendingQuery) ([]Product, error)
	SearchProducts(ctx context.Context, term string, limit int) ([]Product, error)
}

// SnapshotRepository stores per-product snapshot history.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, productID string, snapshot ProductSnapshot) error
	GetSnapshots(ctx context.Context, productID string, days int) ([]ProductSnapshot, error)
}

// StatisticsSource supplies the population statistics consumed by the trend scorer.
type StatisticsSource interface {
	GetProductStatistics(ctx context.Context) (PopulationStats, error)
}

// TrendingQuery filters the trending product listing.
type TrendingQuery struct {
	Limit         int
	Category      string
	TrendCategory TrendCategory
	MinScore      float64
}
