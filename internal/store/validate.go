package store

import (
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ErrNameRequired is returned when a pet is created or updated without a name.
	ErrNameRequired = errors.New("name is required")

	// ErrTitleRequired is returned when a product is created or updated without a title.
	ErrTitleRequired = errors.New("title is required")

	// ErrInvalidPrice is returned for negative prices.
	ErrInvalidPrice = errors.New("price_cents must be zero or positive")

	// ErrInvalidStock is returned for negative stock quantities.
	ErrInvalidStock = errors.New("stock_qty must be zero or positive")

	// textPolicy strips all HTML from client-supplied text fields. The API
	// serves these values back verbatim, so markup never round-trips.
	textPolicy = bluemonday.StrictPolicy()
)

// SanitizeText removes any HTML from s and trims surrounding whitespace.
func SanitizeText(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

// ValidatePet checks the client-controlled pet fields after sanitization.
func ValidatePet(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	return nil
}

// ValidateProduct checks the client-controlled product fields after sanitization.
func ValidateProduct(title string, priceCents int64, stockQty int) error {
	if title == "" {
		return ErrTitleRequired
	}
	if priceCents < 0 {
		return ErrInvalidPrice
	}
	if stockQty < 0 {
		return ErrInvalidStock
	}
	return nil
}
