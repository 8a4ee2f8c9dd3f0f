package repository

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"trendscout-backend/internal/domain"
	"trendscout-backend/internal/infrastructure/statistics"
)

const (
	productsCollection  = "products"
	snapshotsCollection = "snapshots"
	shopsCollection     = "shops"
)

// FirestoreRepository persists products, snapshot subcollections and
// shops in Firestore, and doubles as the population statistics source.
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

func (r *FirestoreRepository) SaveProduct(ctx context.Context, product *domain.Product) error {
	product.LastUpdated = time.Now().UTC()

	_, err := r.client.Collection(productsCollection).Doc(product.ID).Set(ctx, product)
	if err != nil {
		return fmt.Errorf("saving product %s: %w", product.ID, err)
	}
	return nil
}

func (r *FirestoreRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	doc, err := r.client.Collection(productsCollection).Doc(id).Get(ctx)
	if err != nil {
		// Get returns a non-nil snapshot with Exists()==false on NotFound
		if doc != nil && !doc.Exists() {
			return nil, nil
		}
		return nil, fmt.Errorf("getting product %s: %w", id, err)
	}

	var product domain.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, fmt.Errorf("decoding product %s: %w", id, err)
	}
	return &product, nil
}

func (r *FirestoreRepository) GetTrendingProducts(ctx context.Context, q domain.TrendingQuery) ([]domain.Product, error) {
	query := r.client.Collection(productsCollection).Query

	if q.Category != "" {
		query = query.Where("category", "==", q.Category)
	}
	if q.TrendCategory != "" {
		query = query.Where("trend_category", "==", string(q.TrendCategory))
	}
	if q.MinScore > 0 {
		query = query.Where("trend_score", ">=", q.MinScore)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	query = query.OrderBy("trend_score", firestore.Desc).Limit(limit)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var products []domain.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing trending products: %w", err)
		}

		var p domain.Product
		if err := doc.DataTo(&p); err != nil {
			log.Printf("Skipping undecodable product %s: %v", doc.Ref.ID, err)
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// SearchProducts filters titles in memory over a bounded scan.
// Firestore has no full-text search; good enough for the catalog sizes
// this tracker handles.
func (r *FirestoreRepository) SearchProducts(ctx context.Context, term string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 20
	}

	iter := r.client.Collection(productsCollection).Limit(100).Documents(ctx)
	defer iter.Stop()

	termLower := strings.ToLower(term)
	var products []domain.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("searching products: %w", err)
		}

		var p domain.Product
		if err := doc.DataTo(&p); err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(p.Title), termLower) {
			products = append(products, p)
		}
	}

	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (r *FirestoreRepository) SaveSnapshot(ctx context.Context, productID string, snapshot domain.ProductSnapshot) error {
	_, _, err := r.client.Collection(productsCollection).
		Doc(productID).
		Collection(snapshotsCollection).
		Add(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("saving snapshot for %s: %w", productID, err)
	}
	return nil
}

func (r *FirestoreRepository) GetSnapshots(ctx context.Context, productID string, days int) ([]domain.ProductSnapshot, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	iter := r.client.Collection(productsCollection).
		Doc(productID).
		Collection(snapshotsCollection).
		Where("timestamp", ">=", cutoff).
		OrderBy("timestamp", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var snapshots []domain.ProductSnapshot
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("getting snapshots for %s: %w", productID, err)
		}

		var s domain.ProductSnapshot
		if err := doc.DataTo(&s); err != nil {
			continue
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}

func (r *FirestoreRepository) SaveShop(ctx context.Context, shop *domain.Shop) error {
	shop.LastUpdated = time.Now().UTC()

	_, err := r.client.Collection(shopsCollection).Doc(shop.ID).Set(ctx, shop)
	if err != nil {
		return fmt.Errorf("saving shop %s: %w", shop.ID, err)
	}
	return nil
}

// GetProductStatistics samples up to 1000 product docs and aggregates
// per-feature population statistics for the trend scorer.
//
// Per-product stock stability is approximated here as
// 1 - 1/max(snapshot_count, 1) since loading every snapshot history for
// the sample would be prohibitively chatty; the tracker computes the
// exact value per product from its own history.
func (r *FirestoreRepository) GetProductStatistics(ctx context.Context) (domain.PopulationStats, error) {
	iter := r.client.Collection(productsCollection).Limit(statistics.MaxSampleSize).Documents(ctx)
	defer iter.Stop()

	var observations []domain.FeatureObservation
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			// Degenerate stats are safe downstream; better than failing the cycle.
			log.Printf("Error sampling product statistics: %v", err)
			return statistics.Aggregate(nil), nil
		}

		var p domain.Product
		if err := doc.DataTo(&p); err != nil {
			continue
		}

		snapCount := p.SnapshotCount
		if snapCount < 1 {
			snapCount = 1
		}

		observations = append(observations, domain.FeatureObservation{
			Orders3dDelta:     p.Orders3dDelta,
			Acceleration:      p.Acceleration,
			PriceDiscountRate: p.PriceDiscountRate,
			Reviews3dDelta:    p.Reviews3dDelta,
			StockStability:    1.0 - 1.0/float64(snapCount),
		})
	}

	return statistics.Aggregate(observations), nil
}
