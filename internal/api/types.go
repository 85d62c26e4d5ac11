package api

import "time"

// ErrorResponse is the standard error body for all API endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Pet types ---

// CreatePetRequest is the request body for POST /api/pets.
// There are deliberately no id or owner fields: identity comes from the
// session and the id is server-generated, so neither can be injected.
type CreatePetRequest struct {
	Name   string   `json:"name"`
	Breed  string   `json:"breed,omitempty"`
	Bio    string   `json:"bio,omitempty"`
	Photos []string `json:"photos,omitempty"`
}

// UpdatePetRequest is the request body for PUT /api/pets/{id}.
// id and owner fields are structurally absent; values for them in the raw
// JSON are dropped by the decoder and never applied.
type UpdatePetRequest struct {
	Name  string `json:"name"`
	Breed string `json:"breed,omitempty"`
	Bio   string `json:"bio,omitempty"`
	// Photos replaces the stored set when present. A nil pointer means the
	// field was absent and the current photos are kept; an empty list clears
	// them.
	Photos *[]string `json:"photos,omitempty"`
}

// PetResponse is the JSON representation of a single pet.
type PetResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Breed     string    `json:"breed"`
	Bio       string    `json:"bio"`
	Photos    []string  `json:"photos"`
	OwnerID   *string   `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PetListResponse is the response for GET /api/pets.
type PetListResponse struct {
	Pets []PetResponse `json:"pets"`
}

// --- Product types ---

// CreateProductRequest is the request body for POST /api/products.
type CreateProductRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	PriceCents  int64    `json:"price_cents"`
	StockQty    int      `json:"stock_qty"`
	Images      []string `json:"images,omitempty"`
}

// UpdateProductRequest is the request body for PUT /api/products/{id}.
// id and owner fields are structurally absent, as with pets.
type UpdateProductRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	StockQty    int    `json:"stock_qty"`
	// Images follows the same absent-vs-empty rule as UpdatePetRequest.Photos.
	Images *[]string `json:"images,omitempty"`
}

// ProductResponse is the JSON representation of a single product.
type ProductResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	StockQty    int       `json:"stock_qty"`
	Images      []string  `json:"images"`
	OwnerID     *string   `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductListResponse is the response for GET /api/products.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

// --- Cart types ---

// AddCartItemRequest is the request body for POST /api/cart/items.
type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

// CartLineResponse is one line in the cart response.
type CartLineResponse struct {
	ProductID  string `json:"product_id"`
	Title      string `json:"title"`
	Qty        int    `json:"qty"`
	UnitCents  int64  `json:"unit_cents"`
	TotalCents int64  `json:"total_cents"`
}

// CartResponse is the response for all cart endpoints.
type CartResponse struct {
	Lines         []CartLineResponse `json:"lines"`
	SubtotalCents int64              `json:"subtotal_cents"`
}

// --- Upload types ---

// UploadResponse is the response for POST /api/uploads.
type UploadResponse struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// --- User types ---

// UserResponse is the JSON representation of the current user.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
}
