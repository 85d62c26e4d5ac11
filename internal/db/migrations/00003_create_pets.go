package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreatePets, downCreatePets)
}

func upCreatePets(ctx context.Context, tx *sql.Tx) error {
	// owner_id is nullable: anonymous deployments create ownerless pets.
	ddl := `CREATE TABLE IF NOT EXISTS pets (
    id         VARCHAR(36) PRIMARY KEY,
    name       VARCHAR(255) NOT NULL,
    breed      VARCHAR(255) NOT NULL DEFAULT '',
    bio        TEXT NOT NULL,
    owner_id   VARCHAR(36),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create pets table: %w", err)
	}
	photos := `CREATE TABLE IF NOT EXISTS pet_photos (
    pet_id   VARCHAR(36) NOT NULL,
    url      VARCHAR(1024) NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (pet_id, url)
)`
	if _, err := tx.ExecContext(ctx, photos); err != nil {
		return fmt.Errorf("create pet_photos table: %w", err)
	}
	_, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS pets_owner_idx ON pets (owner_id)`)
	return err
}

func downCreatePets(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS pet_photos`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS pets`)
	return err
}
