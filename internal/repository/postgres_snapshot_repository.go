package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"trendscout-backend/internal/domain"
)

// PostgresSnapshotRepository is the durable snapshot archive.
// Firestore keeps the hot window; this table keeps everything for
// later backfills and analysis.
type PostgresSnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSnapshotRepository(pool *pgxpool.Pool) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{pool: pool}
}

func (r *PostgresSnapshotRepository) SaveSnapshot(ctx context.Context, productID string, snapshot domain.ProductSnapshot) error {
	_, err := r.pool.Exec(ctx, `
		insert into product_snapshots(
			product_id, captured_at, price, original_price,
			sold_count, rating, review_count, in_stock
		) values ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		productID,
		snapshot.Timestamp,
		snapshot.Price,
		nullableFloat(snapshot.OriginalPrice),
		snapshot.SoldCount,
		snapshot.Rating,
		snapshot.ReviewCount,
		snapshot.InStock,
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot for %s: %w", productID, err)
	}
	return nil
}

func (r *PostgresSnapshotRepository) GetSnapshots(ctx context.Context, productID string, days int) ([]domain.ProductSnapshot, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	rows, err := r.pool.Query(ctx, `
		select captured_at, price, original_price,
			sold_count, rating, review_count, in_stock
		from product_snapshots
		where product_id = $1 and captured_at >= $2
		order by captured_at desc
	`, productID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots for %s: %w", productID, err)
	}
	defer rows.Close()

	snapshots := make([]domain.ProductSnapshot, 0)
	for rows.Next() {
		var s domain.ProductSnapshot
		var originalPrice *float64
		if err := rows.Scan(
			&s.Timestamp,
			&s.Price,
			&originalPrice,
			&s.SoldCount,
			&s.Rating,
			&s.ReviewCount,
			&s.InStock,
		); err != nil {
			continue
		}
		if originalPrice != nil {
			s.OriginalPrice = *originalPrice
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// CountSnapshots returns how many snapshots the archive holds for a product.
func (r *PostgresSnapshotRepository) CountSnapshots(ctx context.Context, productID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`select count(*) from product_snapshots where product_id = $1`,
		productID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting snapshots for %s: %w", productID, err)
	}
	return count, nil
}

func nullableFloat(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
