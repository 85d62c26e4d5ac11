package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateUsers, downCreateUsers)
}

func upCreateUsers(ctx context.Context, tx *sql.Tx) error {
	ddl := `CREATE TABLE IF NOT EXISTS users (
    id           VARCHAR(36) PRIMARY KEY,
    provider     VARCHAR(255) NOT NULL,
    subject      VARCHAR(255) NOT NULL,
    email        VARCHAR(255) NOT NULL DEFAULT '',
    display_name VARCHAR(255) NOT NULL DEFAULT '',
    avatar_url   VARCHAR(1024) NOT NULL DEFAULT '',
    created_at   TIMESTAMP NOT NULL,
    updated_at   TIMESTAMP NOT NULL
)`
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	// The upsert on login conflicts on this index; it is the only correlation
	// key between the auth provider and local identities.
	_, err := tx.ExecContext(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS users_provider_subject_idx ON users (provider, subject)`)
	return err
}

func downCreateUsers(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS users`)
	return err
}
