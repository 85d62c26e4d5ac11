package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/cart"
	"github.com/pawmart/pawmart/internal/store"
)

// cartHandler serves the session-backed shopping cart. The cart belongs to the
// session, not the user, so anonymous visitors can shop before logging in.
type cartHandler struct {
	sessions *scs.SessionManager
	products store.ProductStoreIface
}

// Show returns the current cart.
// GET /api/cart
//
// @Summary      Show the cart
// @Tags         Cart
// @Produce      json
// @Success      200  {object}  CartResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /cart [get]
func (h *cartHandler) Show(w http.ResponseWriter, r *http.Request) {
	c, err := h.load(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// AddItem adds a product to the cart at its current price.
// POST /api/cart/items
//
// @Summary      Add a cart item
// @Tags         Cart
// @Accept       json
// @Produce      json
// @Param        body  body      AddCartItemRequest  true  "Item to add"
// @Success      200   {object}  CartResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /cart/items [post]
func (h *cartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.Qty == 0 {
		req.Qty = 1
	}
	if req.Qty < 0 {
		writeError(w, http.StatusBadRequest, "qty must be positive", "BAD_REQUEST")
		return
	}

	product, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no such product", "NOT_FOUND")
			return
		}
		log.Printf("api: cart add item: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	c, err := h.load(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	c.Add(product.ID, product.Title, req.Qty, product.PriceCents)
	if err := h.save(r, c); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// RemoveItem drops a product from the cart.
// DELETE /api/cart/items/{id}
//
// @Summary      Remove a cart item
// @Tags         Cart
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  CartResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /cart/items/{id} [delete]
func (h *cartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.load(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	if !c.Remove(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "item not in cart", "NOT_FOUND")
		return
	}
	if err := h.save(r, c); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *cartHandler) load(r *http.Request) (*cart.Cart, error) {
	c, err := cart.Decode(h.sessions.GetBytes(r.Context(), auth.SessionCartKey))
	if err != nil {
		log.Printf("api: decode session cart: %v", err)
		return nil, err
	}
	return c, nil
}

func (h *cartHandler) save(r *http.Request, c *cart.Cart) error {
	b, err := c.Encode()
	if err != nil {
		log.Printf("api: encode session cart: %v", err)
		return err
	}
	h.sessions.Put(r.Context(), auth.SessionCartKey, b)
	return nil
}

func toCartResponse(c *cart.Cart) CartResponse {
	resp := CartResponse{Lines: make([]CartLineResponse, 0, len(c.Lines)), SubtotalCents: c.Subtotal()}
	for _, l := range c.Lines {
		resp.Lines = append(resp.Lines, CartLineResponse{
			ProductID:  l.ProductID,
			Title:      l.Title,
			Qty:        l.Qty,
			UnitCents:  l.UnitCents,
			TotalCents: int64(l.Qty) * l.UnitCents,
		})
	}
	return resp
}
