package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateProducts, downCreateProducts)
}

func upCreateProducts(ctx context.Context, tx *sql.Tx) error {
	ddl := `CREATE TABLE IF NOT EXISTS products (
    id          VARCHAR(36) PRIMARY KEY,
    title       VARCHAR(255) NOT NULL,
    description TEXT NOT NULL,
    price_cents BIGINT NOT NULL DEFAULT 0,
    stock_qty   INTEGER NOT NULL DEFAULT 0,
    owner_id    VARCHAR(36),
    created_at  TIMESTAMP NOT NULL,
    updated_at  TIMESTAMP NOT NULL
)`
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	images := `CREATE TABLE IF NOT EXISTS product_images (
    product_id VARCHAR(36) NOT NULL,
    url        VARCHAR(1024) NOT NULL,
    position   INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (product_id, url)
)`
	if _, err := tx.ExecContext(ctx, images); err != nil {
		return fmt.Errorf("create product_images table: %w", err)
	}
	_, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS products_owner_idx ON products (owner_id)`)
	return err
}

func downCreateProducts(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS product_images`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS products`)
	return err
}
