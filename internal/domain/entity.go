package domain

import "time"

// TrendCategory labels why a product is trending.
type TrendCategory string

const (
	TrendBreakout       TrendCategory = "breakout"
	TrendSustained      TrendCategory = "sustained"
	TrendDiscountDriven TrendCategory = "discount_driven"
)

// ViabilityGrade is the letter grade summarizing how good a product is to sell right now.
type ViabilityGrade string

const (
	GradeAPlus  ViabilityGrade = "A+"
	GradeA      ViabilityGrade = "A"
	GradeAMinus ViabilityGrade = "A-"
	GradeBPlus  ViabilityGrade = "B+"
	GradeB      ViabilityGrade = "B"
	GradeBMinus ViabilityGrade = "B-"
	GradeCPlus  ViabilityGrade = "C+"
	GradeC      ViabilityGrade = "C"
	GradeCMinus ViabilityGrade = "C-"
	GradeD      ViabilityGrade = "D"
	GradeE      ViabilityGrade = "E"
)

// ProductSnapshot is a point-in-time observation of a product's public metrics.
type ProductSnapshot struct {
	Timestamp     time.Time `json:"timestamp" firestore:"timestamp"`
	Price         float64   `json:"price" firestore:"price"`
	OriginalPrice float64   `json:"original_price,omitempty" firestore:"original_price"`
	SoldCount     int64     `json:"sold_count" firestore:"sold_count"`
	Rating        float64   `json:"rating" firestore:"rating"`
	ReviewCount   int64     `json:"review_count" firestore:"review_count"`
	InStock       bool      `json:"in_stock" firestore:"in_stock"`
}

// Product is a tracked marketplace listing with its derived trend metrics.
type Product struct {
	ID       string `json:"id" firestore:"id"`
	Title    string `json:"title" firestore:"title"`
	ImageURL string `json:"image_url" firestore:"image_url"`
	Category string `json:"category" firestore:"category"`
	ShopID   string `json:"shop_id" firestore:"shop_id"`
	ShopName string `json:"shop_name" firestore:"shop_name"`
	Country  string `json:"country,omitempty" firestore:"country"`

	// Current marketplace data
	CurrentPrice  float64 `json:"current_price" firestore:"current_price"`
	OriginalPrice float64 `json:"original_price,omitempty" firestore:"original_price"`
	SoldCount     int64   `json:"sold_count" firestore:"sold_count"`
	Rating        float64 `json:"rating" firestore:"rating"`
	ReviewCount   int64   `json:"review_count" firestore:"review_count"`
	InStock       bool    `json:"in_stock" firestore:"in_stock"`

	ProductURL string `json:"product_url" firestore:"product_url"`
	ShopURL    string `json:"shop_url" firestore:"shop_url"`

	// Trend metrics (recomputed every cycle, never incrementally updated)
	TrendScore        float64 `json:"trend_score" firestore:"trend_score"`
	Orders3dDelta     float64 `json:"orders_3d_delta" firestore:"orders_3d_delta"`
	Orders7dDelta     float64 `json:"orders_7d_delta" firestore:"orders_7d_delta"`
	PriceDiscountRate float64 `json:"price_discount_rate" firestore:"price_discount_rate"`
	Reviews3dDelta    float64 `json:"reviews_3d_delta" firestore:"reviews_3d_delta"`
	Velocity3d        float64 `json:"velocity_3d" firestore:"velocity_3d"`
	Acceleration      float64 `json:"acceleration" firestore:"acceleration"`

	// Classification
	TrendCategory    TrendCategory  `json:"trend_category,omitempty" firestore:"trend_category"`
	ViabilityGrade   ViabilityGrade `json:"viability_grade,omitempty" firestore:"viability_grade"`
	ViabilitySummary string         `json:"viability_summary,omitempty" firestore:"viability_summary"`
	ConfidenceScore  float64        `json:"confidence_score" firestore:"confidence_score"`
	OpportunityScore int            `json:"opportunity_score" firestore:"opportunity_score"`

	// Commission
	CommissionRate      float64 `json:"commission_rate,omitempty" firestore:"commission_rate"`
	HasAffiliateProgram bool    `json:"has_affiliate_program" firestore:"has_affiliate_program"`

	// Tracking metadata
	FirstSeen     time.Time `json:"first_seen" firestore:"first_seen"`
	LastUpdated   time.Time `json:"last_updated" firestore:"last_updated"`
	SnapshotCount int       `json:"snapshot_count" firestore:"snapshot_count"`
}

// ProductDetail is a product plus its snapshot history, for the detail endpoint.
type ProductDetail struct {
	Product
	Snapshots []ProductSnapshot `json:"snapshots"`
}

// Shop is the seller behind one or more tracked products.
type Shop struct {
	ID            string    `json:"id" firestore:"id"`
	Name          string    `json:"name" firestore:"name"`
	URL           string    `json:"url" firestore:"url"`
	Rating        float64   `json:"rating" firestore:"rating"`
	TotalProducts int       `json:"total_products" firestore:"total_products"`
	FirstSeen     time.Time `json:"first_seen" firestore:"first_seen"`
	LastUpdated   time.Time `json:"last_updated" firestore:"last_updated"`
}

// FeatureObservation is one product's raw feature tuple for a scoring run.
// Deltas can legitimately go negative (e.g. review purges); the model
// accepts any real values.
type FeatureObservation struct {
	Orders3dDelta     float64 `json:"orders_3d_delta"`
	Acceleration      float64 `json:"acceleration"`
	PriceDiscountRate float64 `json:"price_discount_rate"`
	Reviews3dDelta    float64 `json:"reviews_3d_delta"`
	StockStability    float64 `json:"stock_stability"`
}

// FeatureStats is the (mean, std) pair for one feature across the population.
type FeatureStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// PopulationStats holds per-feature statistics over the tracked product set.
// Treated as an immutable value once built; the scorer never mutates it.
type PopulationStats struct {
	Orders3d     FeatureStats `json:"orders_3d"`
	Acceleration FeatureStats `json:"acceleration"`
	Discount     FeatureStats `json:"discount"`
	Reviews3d    FeatureStats `json:"reviews_3d"`
	Stock        FeatureStats `json:"stock"`
}
