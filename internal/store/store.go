package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPrincipal is returned when Resolve is handed a principal with
	// no subject identifier. Callers must check authentication state first;
	// hitting this is a programming error, not user input.
	ErrInvalidPrincipal = errors.New("principal has no subject identifier")
)

// PetStoreIface exposes all pet data operations.
// Handlers never query the DB directly; all access goes through this interface.
type PetStoreIface interface {
	Create(ctx context.Context, name, breed, bio string, photos []string, ownerID *string) (*Pet, error)
	GetByID(ctx context.Context, id string) (*Pet, error)
	GetWithOwner(ctx context.Context, id string) (*OwnedPet, error)
	ListAll(ctx context.Context) ([]*Pet, error)
	Update(ctx context.Context, id, name, breed, bio string, photos []string) (*Pet, error)
	Delete(ctx context.Context, id string) error
}

// ProductStoreIface exposes all product data operations.
type ProductStoreIface interface {
	Create(ctx context.Context, title, description string, priceCents int64, stockQty int, images []string, ownerID string) (*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetWithOwner(ctx context.Context, id string) (*OwnedProduct, error)
	ListAll(ctx context.Context) ([]*Product, error)
	Update(ctx context.Context, id, title, description string, priceCents int64, stockQty int, images []string) (*Product, error)
	Delete(ctx context.Context, id string) error
}
