package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/pawmart/pawmart/internal/api"
)

func TestCartStartsEmpty(t *testing.T) {
	env := newTestEnv(t, false)

	var cart api.CartResponse
	resp := doJSON(t, env, http.MethodGet, "/api/cart", nil, &cart)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(cart.Lines) != 0 || cart.SubtotalCents != 0 {
		t.Errorf("cart = %+v, want empty", cart)
	}
}

func TestCartAddAndRemove(t *testing.T) {
	env := newTestEnv(t, false)
	owner := seedUser(t, env, "google", "seller-1")
	leash, err := env.Products.Create(context.Background(), "Leash", "", 500, 10, nil, owner.ID)
	if err != nil {
		t.Fatalf("seed leash: %v", err)
	}
	collar, err := env.Products.Create(context.Background(), "Collar", "", 300, 10, nil, owner.ID)
	if err != nil {
		t.Fatalf("seed collar: %v", err)
	}

	var cart api.CartResponse
	resp := doJSON(t, env, http.MethodPost, "/api/cart/items", api.AddCartItemRequest{ProductID: leash.ID, Qty: 2}, &cart)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add status = %d", resp.StatusCode)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Qty != 2 || cart.Lines[0].UnitCents != 500 {
		t.Errorf("cart = %+v", cart)
	}

	// Omitted qty defaults to one, and the cart persists across requests via
	// the session cookie.
	resp = doJSON(t, env, http.MethodPost, "/api/cart/items", api.AddCartItemRequest{ProductID: collar.ID}, &cart)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second add status = %d", resp.StatusCode)
	}
	if len(cart.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(cart.Lines))
	}
	if cart.SubtotalCents != 1300 {
		t.Errorf("subtotal = %d, want 1300", cart.SubtotalCents)
	}

	resp = doJSON(t, env, http.MethodDelete, "/api/cart/items/"+leash.ID, nil, &cart)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove status = %d", resp.StatusCode)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].ProductID != collar.ID {
		t.Errorf("cart after remove = %+v", cart)
	}
}

func TestCartRejectsBadInput(t *testing.T) {
	env := newTestEnv(t, false)

	resp := doJSON(t, env, http.MethodPost, "/api/cart/items", api.AddCartItemRequest{ProductID: "missing"}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown product status = %d, want 404", resp.StatusCode)
	}

	resp = doJSON(t, env, http.MethodPost, "/api/cart/items", api.AddCartItemRequest{ProductID: "p", Qty: -1}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("negative qty status = %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, env, http.MethodDelete, "/api/cart/items/never-added", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("remove absent item status = %d, want 404", resp.StatusCode)
	}
}
