package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// User is a local identity record correlated to an external auth provider
// account by the (provider, subject) pair. Everything except that pair is a
// cache of provider-supplied profile data, overwritten on every login.
type User struct {
	ID          string    `db:"id"`
	Provider    string    `db:"provider"`
	Subject     string    `db:"subject"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	AvatarURL   string    `db:"avatar_url"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Principal carries the identity claims extracted from a verified ID token.
type Principal struct {
	Provider    string
	Subject     string
	Email       string
	DisplayName string
	AvatarURL   string
}

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// Resolve creates or refreshes the local identity for p and returns it.
// Returns ErrInvalidPrincipal if p carries no subject identifier.
//
// The write is a single atomic upsert keyed on (provider, subject) so that
// two concurrent first logins for the same subject cannot race into duplicate
// rows. Profile fields are overwritten unconditionally; stale cached values
// never survive a login.
//
// TODO: The ON CONFLICT ... DO UPDATE syntax works in SQLite and PostgreSQL but NOT MySQL.
// MySQL needs a separate implementation using INSERT ... ON DUPLICATE KEY UPDATE.
//
// TODO: Placeholder `?` works for SQLite and MySQL but PostgreSQL needs `$1`, `$2`, etc.
// In production, use a DB-agnostic query builder or separate query files per driver.
func (s *UserStore) Resolve(ctx context.Context, p Principal) (*User, error) {
	if p.Subject == "" {
		return nil, ErrInvalidPrincipal
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, provider, subject, email, display_name, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (provider, subject) DO UPDATE SET
			email = excluded.email,
			display_name = excluded.display_name,
			avatar_url = excluded.avatar_url,
			updated_at = excluded.updated_at
	`, id, p.Provider, p.Subject, p.Email, p.DisplayName, p.AvatarURL, now, now)
	if err != nil {
		return nil, err
	}

	var u User
	err = s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE provider = ? AND subject = ?`, p.Provider, p.Subject)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
