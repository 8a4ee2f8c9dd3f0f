package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"trendscout-backend/internal/domain"
)

// InMemoryProductRepository holds the latest scored product set.
// Backs the websocket feed and serves as the store when Firestore is
// not configured.
type InMemoryProductRepository struct {
	products map[string]domain.Product
	mu       sync.RWMutex
}

func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: make(map[string]domain.Product),
	}
}

func (r *InMemoryProductRepository) SaveProduct(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = *product
	return nil
}

func (r *InMemoryProductRepository) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *InMemoryProductRepository) GetTrendingProducts(_ context.Context, q domain.TrendingQuery) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.TrendCategory != "" && p.TrendCategory != q.TrendCategory {
			continue
		}
		if q.MinScore > 0 && p.TrendScore < q.MinScore {
			continue
		}
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TrendScore > result[j].TrendScore
	})

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *InMemoryProductRepository) SearchProducts(_ context.Context, term string, limit int) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	termLower := strings.ToLower(term)
	var result []domain.Product
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Title), termLower) {
			result = append(result, p)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TrendScore > result[j].TrendScore
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Count returns the number of stored products.
func (r *InMemoryProductRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

// InMemorySnapshotRepository keeps snapshot history per product in memory.
type InMemorySnapshotRepository struct {
	snapshots map[string][]domain.ProductSnapshot
	mu        sync.RWMutex
}

func NewInMemorySnapshotRepository() *InMemorySnapshotRepository {
	return &InMemorySnapshotRepository{
		snapshots: make(map[string][]domain.ProductSnapshot),
	}
}

func (r *InMemorySnapshotRepository) SaveSnapshot(_ context.Context, productID string, snapshot domain.ProductSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[productID] = append(r.snapshots[productID], snapshot)
	return nil
}

func (r *InMemorySnapshotRepository) GetSnapshots(_ context.Context, productID string, days int) ([]domain.ProductSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.snapshots[productID]
	// Copy so callers can sort without racing the store.
	result := make([]domain.ProductSnapshot, 0, len(all))
	if days <= 0 {
		return append(result, all...), nil
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	for _, s := range all {
		if !s.Timestamp.Before(cutoff) {
			result = append(result, s)
		}
	}
	return result, nil
}
