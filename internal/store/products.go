package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Product struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	PriceCents  int64     `db:"price_cents"`
	StockQty    int       `db:"stock_qty"`
	OwnerID     *string   `db:"owner_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	// Images holds asset locators, loaded from product_images.
	Images []string `db:"-"`
}

// OwnedProduct is a Product joined with its owner's external identity key.
type OwnedProduct struct {
	Product
	OwnerProvider sql.NullString `db:"owner_provider"`
	OwnerSubject  sql.NullString `db:"owner_subject"`
}

func (p *OwnedProduct) OwnerKey() (provider, subject string, ok bool) {
	if !p.OwnerSubject.Valid || p.OwnerSubject.String == "" {
		return "", "", false
	}
	return p.OwnerProvider.String, p.OwnerSubject.String, true
}

func (p *OwnedProduct) AssetURLs() []string { return p.Images }

type ProductStore struct {
	db *sqlx.DB
}

func NewProductStore(db *sqlx.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) Create(ctx context.Context, title, description string, priceCents int64, stockQty int, images []string, ownerID string) (*Product, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, title, description, price_cents, stock_qty, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, title, description, priceCents, stockQty, ownerID, now, now)
	if err != nil {
		return nil, err
	}
	if err := insertImages(ctx, tx, id, images); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *ProductStore) GetByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := s.db.GetContext(ctx, &p, `SELECT * FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Images, err = s.images(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) GetWithOwner(ctx context.Context, id string) (*OwnedProduct, error) {
	var p OwnedProduct
	err := s.db.GetContext(ctx, &p, `
		SELECT p.id, p.title, p.description, p.price_cents, p.stock_qty, p.owner_id, p.created_at, p.updated_at,
		       u.provider AS owner_provider, u.subject AS owner_subject
		FROM products p
		LEFT JOIN users u ON u.id = p.owner_id
		WHERE p.id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Images, err = s.images(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) ListAll(ctx context.Context) ([]*Product, error) {
	var products []*Product
	err := s.db.SelectContext(ctx, &products, `SELECT * FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		p.Images, err = s.images(ctx, p.ID)
		if err != nil {
			return nil, err
		}
	}
	return products, nil
}

// Update overwrites the mutable fields and replaces the image set.
// The id and owner_id columns are deliberately not part of the statement.
func (s *ProductStore) Update(ctx context.Context, id, title, description string, priceCents int64, stockQty int, images []string) (*Product, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE products SET title = ?, description = ?, price_cents = ?, stock_qty = ?, updated_at = ? WHERE id = ?
	`, title, description, priceCents, stockQty, now, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = ?`, id); err != nil {
		return nil, err
	}
	if err := insertImages(ctx, tx, id, images); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *ProductStore) images(ctx context.Context, productID string) ([]string, error) {
	var urls []string
	err := s.db.SelectContext(ctx, &urls, `SELECT url FROM product_images WHERE product_id = ? ORDER BY position ASC`, productID)
	if err != nil {
		return nil, err
	}
	return urls, nil
}

func insertImages(ctx context.Context, tx *sqlx.Tx, productID string, images []string) error {
	for i, url := range images {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_images (product_id, url, position) VALUES (?, ?, ?)
		`, productID, url, i); err != nil {
			return err
		}
	}
	return nil
}
