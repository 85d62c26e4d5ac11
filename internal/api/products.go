package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/gate"
	"github.com/pawmart/pawmart/internal/metrics"
	"github.com/pawmart/pawmart/internal/store"
)

// productsHandler provides REST handlers for the storefront catalog.
type productsHandler struct {
	products store.ProductStoreIface
	gate     *gate.Gate
}

// List returns the full catalog.
// GET /api/products
//
// @Summary      List products
// @Tags         Products
// @Produce      json
// @Success      200  {object}  ProductListResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /products [get]
func (h *productsHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListAll(r.Context())
	if err != nil {
		log.Printf("api: list products: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp := ProductListResponse{Products: make([]ProductResponse, 0, len(products))}
	for _, p := range products {
		resp.Products = append(resp.Products, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single product by ID.
// GET /api/products/{id}
//
// @Summary      Get a product
// @Tags         Products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  ProductResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /products/{id} [get]
func (h *productsHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no such product", "NOT_FOUND")
			return
		}
		log.Printf("api: get product: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// Create lists a new product with the authenticated caller as owner.
// POST /api/products
//
// @Summary      Create a product
// @Tags         Products
// @Accept       json
// @Produce      json
// @Param        body  body      CreateProductRequest  true  "Product to create"
// @Success      201   {object}  ProductResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /products [post]
func (h *productsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required", "AUTH_REQUIRED")
		return
	}

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	title := store.SanitizeText(req.Title)
	if err := store.ValidateProduct(title, req.PriceCents, req.StockQty); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}

	product, err := h.products.Create(r.Context(), title, store.SanitizeText(req.Description), req.PriceCents, req.StockQty, req.Images, user.ID)
	if err != nil {
		log.Printf("api: create product: %v", err)
		metrics.MutationsTotal.WithLabelValues("products", "error").Inc()
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.MutationsTotal.WithLabelValues("products", "created").Inc()
	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

// Update modifies a product. Owner only; id and owner fields are immutable.
// Omitting images keeps the current set; supplying a list replaces it, and
// the dropped locators are then removed from the asset store best-effort.
// PUT /api/products/{id}
//
// @Summary      Update a product
// @Tags         Products
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Product ID"
// @Param        body  body      UpdateProductRequest  true  "Fields to update"
// @Success      200   {object}  ProductResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /products/{id} [put]
func (h *productsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	owned, err := h.products.GetWithOwner(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no such product", "NOT_FOUND")
			return
		}
		log.Printf("api: fetch product for update: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	if err := h.gate.Authorize(owned, user); err != nil {
		metrics.MutationsTotal.WithLabelValues("products", "denied").Inc()
		writeError(w, http.StatusForbidden, "not the owner", "FORBIDDEN")
		return
	}

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	title := store.SanitizeText(req.Title)
	if err := store.ValidateProduct(title, req.PriceCents, req.StockQty); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}

	images := owned.Images
	if req.Images != nil {
		images = *req.Images
	}

	product, err := h.products.Update(r.Context(), owned.ID, title, store.SanitizeText(req.Description), req.PriceCents, req.StockQty, images)
	if err != nil {
		log.Printf("api: update product %s: %v", owned.ID, err)
		metrics.MutationsTotal.WithLabelValues("products", "error").Inc()
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	h.gate.CleanupURLs(r.Context(), droppedURLs(owned.Images, product.Images))

	metrics.MutationsTotal.WithLabelValues("products", "updated").Inc()
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// Delete removes a product and then its stored images, best-effort.
// DELETE /api/products/{id}
//
// @Summary      Delete a product
// @Tags         Products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  ProductResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /products/{id} [delete]
func (h *productsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	owned, err := h.products.GetWithOwner(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no such product", "NOT_FOUND")
			return
		}
		log.Printf("api: fetch product for delete: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	if err := h.gate.Authorize(owned, user); err != nil {
		metrics.MutationsTotal.WithLabelValues("products", "denied").Inc()
		writeError(w, http.StatusForbidden, "not the owner", "FORBIDDEN")
		return
	}

	if err := h.products.Delete(r.Context(), owned.ID); err != nil {
		log.Printf("api: delete product %s: %v", owned.ID, err)
		metrics.MutationsTotal.WithLabelValues("products", "error").Inc()
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	h.gate.Cleanup(r.Context(), owned)

	metrics.MutationsTotal.WithLabelValues("products", "deleted").Inc()
	writeJSON(w, http.StatusOK, toProductResponse(&owned.Product))
}

func toProductResponse(p *store.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		StockQty:    p.StockQty,
		Images:      images,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
