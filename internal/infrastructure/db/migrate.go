package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the minimal tables needed by this app.
// This keeps setup simple (no external migration tool), but still gives
// a durable snapshot archive.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`create table if not exists product_snapshots (
			id bigserial primary key,
			product_id text not null,
			captured_at timestamptz not null,
			price double precision not null,
			original_price double precision null,
			sold_count bigint not null default 0,
			rating double precision not null default 0,
			review_count bigint not null default 0,
			in_stock boolean not null default true
		);`,
		`create index if not exists product_snapshots_product_time_idx
			on product_snapshots(product_id, captured_at desc);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
