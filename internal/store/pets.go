package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Pet struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Breed     string    `db:"breed"`
	Bio       string    `db:"bio"`
	OwnerID   *string   `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Photos holds asset locators, loaded from pet_photos.
	Photos []string `db:"-"`
}

// OwnedPet is a Pet joined with its owner's external identity key, fetched in
// one call so the ownership check sees a consistent snapshot.
type OwnedPet struct {
	Pet
	OwnerProvider sql.NullString `db:"owner_provider"`
	OwnerSubject  sql.NullString `db:"owner_subject"`
}

// OwnerKey reports the owning identity's (provider, subject) pair.
// ok is false for ownerless records.
func (p *OwnedPet) OwnerKey() (provider, subject string, ok bool) {
	if !p.OwnerSubject.Valid || p.OwnerSubject.String == "" {
		return "", "", false
	}
	return p.OwnerProvider.String, p.OwnerSubject.String, true
}

// AssetURLs returns the photo locators to remove after the record is deleted.
func (p *OwnedPet) AssetURLs() []string { return p.Photos }

type PetStore struct {
	db *sqlx.DB
}

func NewPetStore(db *sqlx.DB) *PetStore {
	return &PetStore{db: db}
}

// Create inserts a pet and its photo rows in one transaction.
// ownerID is nil for anonymous creation; such records are never mutable.
func (s *PetStore) Create(ctx context.Context, name, breed, bio string, photos []string, ownerID *string) (*Pet, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pets (id, name, breed, bio, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, name, breed, bio, ownerID, now, now)
	if err != nil {
		return nil, err
	}
	if err := insertPhotos(ctx, tx, id, photos); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *PetStore) GetByID(ctx context.Context, id string) (*Pet, error) {
	var p Pet
	err := s.db.GetContext(ctx, &p, `SELECT * FROM pets WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Photos, err = s.photos(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetWithOwner loads a pet with its owner's identity key inlined via a LEFT
// JOIN, so absent owners come back as NULLs rather than a missing row.
func (s *PetStore) GetWithOwner(ctx context.Context, id string) (*OwnedPet, error) {
	var p OwnedPet
	err := s.db.GetContext(ctx, &p, `
		SELECT p.id, p.name, p.breed, p.bio, p.owner_id, p.created_at, p.updated_at,
		       u.provider AS owner_provider, u.subject AS owner_subject
		FROM pets p
		LEFT JOIN users u ON u.id = p.owner_id
		WHERE p.id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Photos, err = s.photos(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PetStore) ListAll(ctx context.Context) ([]*Pet, error) {
	var pets []*Pet
	err := s.db.SelectContext(ctx, &pets, `SELECT * FROM pets ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	for _, p := range pets {
		p.Photos, err = s.photos(ctx, p.ID)
		if err != nil {
			return nil, err
		}
	}
	return pets, nil
}

// Update overwrites the mutable fields and replaces the photo set.
// The id and owner_id columns are deliberately not part of the statement.
func (s *PetStore) Update(ctx context.Context, id, name, breed, bio string, photos []string) (*Pet, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE pets SET name = ?, breed = ?, bio = ?, updated_at = ? WHERE id = ?
	`, name, breed, bio, now, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pet_photos WHERE pet_id = ?`, id); err != nil {
		return nil, err
	}
	if err := insertPhotos(ctx, tx, id, photos); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *PetStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pet_photos WHERE pet_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pets WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PetStore) photos(ctx context.Context, petID string) ([]string, error) {
	var urls []string
	err := s.db.SelectContext(ctx, &urls, `SELECT url FROM pet_photos WHERE pet_id = ? ORDER BY position ASC`, petID)
	if err != nil {
		return nil, err
	}
	return urls, nil
}

func insertPhotos(ctx context.Context, tx *sqlx.Tx, petID string, photos []string) error {
	for i, url := range photos {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pet_photos (pet_id, url, position) VALUES (?, ?, ?)
		`, petID, url, i); err != nil {
			return err
		}
	}
	return nil
}
